package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"car-dashboard/services"
	"car-dashboard/utils"
)

// NewHTTPServer returns an HTTP server exposing the dashboard analyses.
func NewHTTPServer(addr string, dash *services.Dashboard, logger *utils.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(dash, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter registers every route on a fresh mux router.
func NewRouter(dash *services.Dashboard, logger *utils.Logger) *mux.Router {
	s := newHTTPServer(dash, logger)
	r := mux.NewRouter()
	r.HandleFunc("/analyses", s.ListAnalyses).Methods(http.MethodGet)
	r.HandleFunc("/analyses/{slug}", s.GetAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/analyses/{slug}/chart.svg", s.GetChart).Methods(http.MethodGet)
	r.HandleFunc("/summary", s.GetSummary).Methods(http.MethodGet)
	r.HandleFunc("/dataset/invalidate", s.Invalidate).Methods(http.MethodPost)
	r.Use(s.logRequests)
	return r
}

type httpServer struct {
	dash *services.Dashboard
	log  *utils.Logger
}

func newHTTPServer(dash *services.Dashboard, logger *utils.Logger) *httpServer {
	return &httpServer{dash: dash, log: logger}
}

func (h *httpServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Debug("[http] %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}
