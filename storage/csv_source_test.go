package storage

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"car-dashboard/models"
)

const sampleCSV = `brand,prices,mileage,fuel_type,engine,year,city
Toyota,2500000,85000,Petrol,1300,2015,Lahore
Honda,3100000,42000,Petrol,1500,2018,Karachi
Suzuki,1200000,120000,CNG,800,2010,Islamabad
,900000,150000,Petrol,660,,Multan
Toyota,NA,30000,Hybrid,1800,2020,Lahore
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clean.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestParseCSVTypedColumns(t *testing.T) {
	ds, err := ParseCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if ds.Len() != 5 {
		t.Fatalf("Len: got %d, want 5", ds.Len())
	}

	first := ds.Listings[0]
	if first.Brand != "Toyota" || first.Price != 2500000 || first.Mileage != 85000 ||
		first.FuelType != "Petrol" || first.Engine != 1300 || first.Year != 2015 {
		t.Errorf("first listing parsed wrong: %+v", first)
	}
}

func TestParseCSVMissingValues(t *testing.T) {
	ds, err := ParseCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	noBrand := ds.Listings[3]
	if noBrand.Brand != "" {
		t.Errorf("empty brand should be missing, got %q", noBrand.Brand)
	}
	if noBrand.HasYear() {
		t.Errorf("empty year should be missing, got %d", noBrand.Year)
	}

	noPrice := ds.Listings[4]
	if !math.IsNaN(noPrice.Price) {
		t.Errorf("NA price should be NaN, got %v", noPrice.Price)
	}
}

func TestParseCSVNonNumericIsMissing(t *testing.T) {
	csv := "brand,prices,mileage,fuel_type,engine,year\nKia,call,10,Petrol,1000,2019\n"
	ds, err := ParseCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if !math.IsNaN(ds.Listings[0].Price) {
		t.Errorf("non-numeric price should be NaN, got %v", ds.Listings[0].Price)
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	ds, err := ParseCSV(context.Background(), strings.NewReader("brand,prices,mileage,fuel_type,engine,year\n"))
	if err != nil {
		t.Fatalf("header-only file should load, got %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Len: got %d, want 0", ds.Len())
	}
}

func TestParseCSVMissingColumns(t *testing.T) {
	_, err := ParseCSV(context.Background(), strings.NewReader("brand,Prices,mileage,fuel_type,year\nA,1,2,P,2020\n"))
	if !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if !errors.Is(err, models.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "prices, engine") {
		t.Errorf("error should name missing columns: %v", err)
	}
}

func TestParseCSVFloatYear(t *testing.T) {
	content := "brand,prices,mileage,fuel_type,engine,year\n" +
		"Toyota,2500000,85000,Petrol,1300,2020.0\n" +
		"Honda,3100000,42000,Petrol,1500,2019.0\n" +
		"Suzuki,1200000,120000,CNG,800,\n" +
		"Kia,1000000,1000,Petrol,1000,2018.5\n"
	ds, err := ParseCSV(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	want := []int{2020, 2019, 0, 0}
	for i, w := range want {
		if got := ds.Listings[i].Year; got != w {
			t.Errorf("row %d year: got %d, want %d", i, got, w)
		}
	}
}

func TestParseCSVMalformed(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"ragged":         "brand,prices,mileage,fuel_type,engine,year\nA,1,2\n",
		"duplicate head": "brand,prices,mileage,fuel_type,engine,year,brand\nA,1,2,P,1,2020,B\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(context.Background(), strings.NewReader(content))
			if !errors.Is(err, models.ErrDataUnavailable) {
				t.Errorf("expected ErrDataUnavailable, got %v", err)
			}
		})
	}
}

func TestCSVSourceLoad(t *testing.T) {
	path := writeCSV(t, sampleCSV)
	src := NewCSVSource(path)

	ds, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Source != path {
		t.Errorf("Source: got %q, want %q", ds.Source, path)
	}
	if ds.ModTime.IsZero() {
		t.Error("ModTime should be set")
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))

	if _, err := src.Load(context.Background()); !errors.Is(err, models.ErrDataUnavailable) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load: expected ErrDataUnavailable wrapping ErrNotExist, got %v", err)
	}
	if _, err := src.Identity(context.Background()); !errors.Is(err, models.ErrDataUnavailable) {
		t.Errorf("Identity: expected ErrDataUnavailable, got %v", err)
	}
}

func TestCSVSourceIdentityTracksModTime(t *testing.T) {
	path := writeCSV(t, sampleCSV)
	src := NewCSVSource(path)

	before, err := src.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	after, err := src.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	if before == after {
		t.Error("identity should change with modification time")
	}
}
