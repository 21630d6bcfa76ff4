package models

import (
	"encoding/json"
	"math"
	"time"
)

// Column names of the source table. Matching is exact and case-sensitive.
const (
	ColBrand    = "brand"
	ColPrices   = "prices"
	ColMileage  = "mileage"
	ColFuelType = "fuel_type"
	ColEngine   = "engine"
	ColYear     = "year"
)

// RequiredColumns lists every column a source file must carry.
var RequiredColumns = []string{ColBrand, ColPrices, ColMileage, ColFuelType, ColEngine, ColYear}

// Listing is one row of the car sales table.
//
// Missing values are explicit: an empty Brand or FuelType, a NaN Price,
// Mileage or Engine, and a zero Year all mean "not recorded".
type Listing struct {
	Brand    string
	Price    float64
	Mileage  float64
	FuelType string
	Engine   float64
	Year     int
}

// HasYear reports whether the listing carries a model year.
func (l Listing) HasYear() bool { return l.Year > 0 }

// MarshalJSON writes missing numeric fields as null.
func (l Listing) MarshalJSON() ([]byte, error) {
	var year *int
	if l.HasYear() {
		y := l.Year
		year = &y
	}
	return json.Marshal(struct {
		Brand    string   `json:"brand"`
		Price    *float64 `json:"prices"`
		Mileage  *float64 `json:"mileage"`
		FuelType string   `json:"fuel_type"`
		Engine   *float64 `json:"engine"`
		Year     *int     `json:"year"`
	}{
		Brand:    l.Brand,
		Price:    Float(l.Price),
		Mileage:  Float(l.Mileage),
		FuelType: l.FuelType,
		Engine:   Float(l.Engine),
		Year:     year,
	})
}

// Float returns a pointer to v, or nil when v is NaN.
func Float(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Dataset is the in-memory table loaded from the source. It is never
// mutated after load; a reload produces a new Dataset.
type Dataset struct {
	Listings []Listing
	Columns  []string
	Source   string
	ModTime  time.Time
	LoadedAt time.Time
}

// NewDataset builds a Dataset carrying every required column.
func NewDataset(listings []Listing) *Dataset {
	return &Dataset{
		Listings: listings,
		Columns:  append([]string(nil), RequiredColumns...),
		LoadedAt: time.Now(),
	}
}

// Len returns the number of listings.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Listings)
}

// MissingColumns returns the names in want that the dataset schema lacks, in order.
func (d *Dataset) MissingColumns(want ...string) []string {
	have := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		have[c] = struct{}{}
	}
	var missing []string
	for _, w := range want {
		if _, ok := have[w]; !ok {
			missing = append(missing, w)
		}
	}
	return missing
}

// Summary holds the overview figures shown above every analysis.
type Summary struct {
	TotalListings int      `json:"total_listings" yaml:"total_listings"`
	Brands        int      `json:"brands" yaml:"brands"`
	PricedListing int      `json:"priced_listings" yaml:"priced_listings"`
	AveragePrice  float64  `json:"average_price" yaml:"average_price"`
	MinPrice      float64  `json:"min_price" yaml:"min_price"`
	MaxPrice      float64  `json:"max_price" yaml:"max_price"`
	MostExpensive *Listing `json:"most_expensive,omitempty" yaml:"most_expensive,omitempty"`
	EarliestYear  int      `json:"earliest_year,omitempty" yaml:"earliest_year,omitempty"`
	LatestYear    int      `json:"latest_year,omitempty" yaml:"latest_year,omitempty"`
}
