package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseAnalysisIdentifiers(t *testing.T) {
	tests := []struct {
		in   string
		want Analysis
	}{
		{"Brand-wise Avg Price", BrandAvgPrice},
		{"Mileage vs Price", MileageVsPrice},
		{"Fuel Type Distribution", FuelDistribution},
		{"Engine Size vs Price", EngineVsPrice},
		{"Year-wise Count", YearCount},
		{"brand-avg-price", BrandAvgPrice},
		{"Year-Count", YearCount},
		{" engine-price ", EngineVsPrice},
	}

	for _, tt := range tests {
		got, err := ParseAnalysis(tt.in)
		if err != nil {
			t.Errorf("ParseAnalysis(%q) returned %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAnalysis(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAnalysisRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "brand-wise avg price", "Price Histogram", "Year-wise Count "} {
		_, err := ParseAnalysis(in)
		if !errors.Is(err, ErrInvalidAnalysis) {
			t.Errorf("ParseAnalysis(%q): expected ErrInvalidAnalysis, got %v", in, err)
		}
	}
}

func TestAnalysisMetadataComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Analyses {
		if !a.Valid() {
			t.Errorf("%v should be valid", a)
		}
		if a.Slug() == "" || a.ChartKind() == "" || len(a.Columns()) == 0 {
			t.Errorf("%v has incomplete metadata", a)
		}
		if seen[a.Slug()] {
			t.Errorf("duplicate slug %q", a.Slug())
		}
		seen[a.Slug()] = true
	}
	if Analysis(0).Valid() || Analysis(6).Valid() {
		t.Error("out-of-range analyses should be invalid")
	}
}

func TestMissingColumns(t *testing.T) {
	ds := &Dataset{Columns: []string{ColBrand, ColYear}}
	got := ds.MissingColumns(ColBrand, ColPrices, ColYear, ColEngine)
	if strings.Join(got, ",") != "prices,engine" {
		t.Errorf("MissingColumns: got %v", got)
	}
	if NewDataset(nil).MissingColumns(RequiredColumns...) != nil {
		t.Error("NewDataset should carry every required column")
	}
}

func TestListingJSONNulls(t *testing.T) {
	l := Listing{Brand: "Honda", Price: 100, Mileage: math.NaN(), FuelType: "Petrol", Engine: 1300}
	b, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(b)
	if !strings.Contains(got, `"mileage":null`) || !strings.Contains(got, `"year":null`) {
		t.Errorf("missing values should encode as null: %s", got)
	}
	if !strings.Contains(got, `"prices":100`) {
		t.Errorf("price should be encoded: %s", got)
	}
}
