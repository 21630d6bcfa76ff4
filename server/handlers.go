package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"car-dashboard/models"
	"car-dashboard/render"
)

type analysisInfo struct {
	Analysis string           `json:"analysis"`
	Slug     string           `json:"slug"`
	Chart    models.ChartKind `json:"chart"`
	Columns  []string         `json:"columns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListAnalyses returns the five analyses and their chart kinds.
func (h *httpServer) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	infos := make([]analysisInfo, 0, len(models.Analyses))
	for _, a := range models.Analyses {
		infos = append(infos, analysisInfo{
			Analysis: a.String(),
			Slug:     a.Slug(),
			Chart:    a.ChartKind(),
			Columns:  a.Columns(),
		})
	}
	h.writeJSON(w, http.StatusOK, infos)
}

// GetAnalysis runs the analysis named by the {slug} path variable.
func (h *httpServer) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.run(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// GetChart renders the analysis chart as SVG.
func (h *httpServer) GetChart(w http.ResponseWriter, r *http.Request) {
	result, err := h.run(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, result.Chart); err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetSummary returns the dataset overview.
func (h *httpServer) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dash.Summary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// Invalidate drops the cached dataset so the next request reloads it.
func (h *httpServer) Invalidate(w http.ResponseWriter, r *http.Request) {
	h.dash.Datasets.Invalidate()
	h.log.Info("[http] Dataset cache invalidated")
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpServer) run(r *http.Request) (*models.AnalysisResult, error) {
	a, err := models.ParseAnalysis(mux.Vars(r)["slug"])
	if err != nil {
		return nil, err
	}
	return h.dash.Run(r.Context(), a)
}

// statusFor maps domain errors onto HTTP status codes. A loader failure that
// names missing columns is still a 503.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidAnalysis):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrMissingColumn):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *httpServer) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("[http] %v", err)
	} else {
		h.log.Warn("[http] %v", err)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *httpServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("[http] encode response: %v", err)
	}
}
