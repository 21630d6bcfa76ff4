package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/storage"
	"car-dashboard/utils"
)

const sampleCSV = `brand,prices,mileage,fuel_type,engine,year
Toyota,3200000,45000,Petrol,1800,2018
Honda,1500000,,Petrol,1300,2015
Toyota,4100000,12000,Hybrid,1800,2020
Suzuki,900000,88000,Petrol,660,2010
Kia,,30000,Diesel,2000,
`

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clean.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	datasets := services.NewDatasetService(storage.NewCSVSource(path), utils.Discard())
	dash := services.NewDashboard(datasets, utils.Discard(), 0)

	srv := httptest.NewServer(NewRouter(dash, utils.Discard()))
	t.Cleanup(srv.Close)
	return srv, path
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestServerAnalyses(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		status  int
		slug    string
		records int
		rows    int
	}{
		{name: "BrandAvgPrice", path: "/analyses/brand-avg-price", status: http.StatusOK, slug: "brand-avg-price", records: 4, rows: 3},
		{name: "FuelDistribution", path: "/analyses/fuel-distribution", status: http.StatusOK, slug: "fuel-distribution", rows: 3},
		{name: "YearCount", path: "/analyses/year-count", status: http.StatusOK, slug: "year-count", rows: 4},
		{name: "SlugCaseInsensitive", path: "/analyses/Mileage-Price", status: http.StatusOK, slug: "mileage-price", rows: 5},
		{name: "UnknownSlug", path: "/analyses/price-per-seat", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d; want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if tt.status != http.StatusOK {
				var e errorResponse
				if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
					t.Errorf("expected json error body, got %s", body)
				}
				return
			}

			var got models.AnalysisResult
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Slug != tt.slug {
				t.Errorf("slug = %q; want %q", got.Slug, tt.slug)
			}
			if len(got.Table.Rows) != tt.rows {
				t.Errorf("rows = %d; want %d", len(got.Table.Rows), tt.rows)
			}
			if tt.records != 0 && got.Records != tt.records {
				t.Errorf("records = %d; want %d", got.Records, tt.records)
			}
		})
	}
}

func TestServerListAnalyses(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/analyses")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var infos []analysisInfo
	if err := json.Unmarshal(body, &infos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(infos) != len(models.Analyses) {
		t.Fatalf("got %d analyses", len(infos))
	}
	if infos[2].Chart != models.ChartPie {
		t.Errorf("fuel distribution chart = %q", infos[2].Chart)
	}
}

func TestServerChartSVG(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/analyses/engine-price/chart.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	// Kia has no price, so four complete pairs remain.
	if got := strings.Count(string(body), `<circle class="mark"`); got != 4 {
		t.Errorf("marks = %d; want 4", got)
	}
}

func TestServerSummary(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var s models.Summary
	if err := json.Unmarshal(body, &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.TotalListings != 5 || s.Brands != 4 {
		t.Errorf("summary = %+v", s)
	}
}

func TestServerDataUnavailable(t *testing.T) {
	srv, path := newTestServer(t)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	resp, _ := get(t, srv.URL+"/analyses/year-count")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503", resp.StatusCode)
	}
}

func TestServerInvalidateReloads(t *testing.T) {
	srv, path := newTestServer(t)
	if resp, _ := get(t, srv.URL+"/analyses/year-count"); resp.StatusCode != http.StatusOK {
		t.Fatalf("warm-up status = %d", resp.StatusCode)
	}

	if err := os.WriteFile(path, []byte("brand,prices\nA,1\n"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	resp, err := http.Post(srv.URL+"/dataset/invalidate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("invalidate status = %d", resp.StatusCode)
	}

	// The rewritten file lacks required columns, so the reload fails.
	if resp, _ := get(t, srv.URL+"/analyses/year-count"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status after invalidate = %d; want 503", resp.StatusCode)
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/analyses", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d; want 405", resp.StatusCode)
	}
}

type partialSource struct{}

func (partialSource) Describe() string                           { return "partial" }
func (partialSource) Identity(ctx context.Context) (string, error) { return "partial", nil }
func (partialSource) Load(ctx context.Context) (*models.Dataset, error) {
	ds := models.NewDataset([]models.Listing{{Brand: "Kia", FuelType: "Petrol"}})
	ds.Columns = []string{models.ColBrand, models.ColFuelType}
	return ds, nil
}

func TestStatusMapping(t *testing.T) {
	datasets := services.NewDatasetService(partialSource{}, utils.Discard())
	dash := services.NewDashboard(datasets, utils.Discard(), 0)
	srv := httptest.NewServer(NewRouter(dash, utils.Discard()))
	defer srv.Close()

	tests := []struct {
		slug   string
		status int
	}{
		{"fuel-distribution", http.StatusOK},
		{"brand-avg-price", http.StatusUnprocessableEntity},
		{"year-count", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		resp, body := get(t, fmt.Sprintf("%s/analyses/%s", srv.URL, tt.slug))
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d; want %d (%s)", tt.slug, resp.StatusCode, tt.status, body)
		}
	}
}
