package models

import (
	"fmt"
	"strings"
)

// Analysis is one of the fixed dashboard analyses.
type Analysis int

const (
	BrandAvgPrice Analysis = iota + 1
	MileageVsPrice
	FuelDistribution
	EngineVsPrice
	YearCount
)

// Analyses lists every analysis in menu order.
var Analyses = []Analysis{BrandAvgPrice, MileageVsPrice, FuelDistribution, EngineVsPrice, YearCount}

// ChartKind is the chart type paired with an analysis.
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartScatter ChartKind = "scatter"
	ChartPie     ChartKind = "pie"
)

// String returns the menu identifier, e.g. "Brand-wise Avg Price".
func (a Analysis) String() string {
	switch a {
	case BrandAvgPrice:
		return "Brand-wise Avg Price"
	case MileageVsPrice:
		return "Mileage vs Price"
	case FuelDistribution:
		return "Fuel Type Distribution"
	case EngineVsPrice:
		return "Engine Size vs Price"
	case YearCount:
		return "Year-wise Count"
	}
	return fmt.Sprintf("Analysis(%d)", int(a))
}

// Slug returns the URL and CLI friendly alias.
func (a Analysis) Slug() string {
	switch a {
	case BrandAvgPrice:
		return "brand-avg-price"
	case MileageVsPrice:
		return "mileage-price"
	case FuelDistribution:
		return "fuel-distribution"
	case EngineVsPrice:
		return "engine-price"
	case YearCount:
		return "year-count"
	}
	return ""
}

// ChartKind returns the chart rendered next to the table.
func (a Analysis) ChartKind() ChartKind {
	switch a {
	case BrandAvgPrice, YearCount:
		return ChartBar
	case MileageVsPrice, EngineVsPrice:
		return ChartScatter
	case FuelDistribution:
		return ChartPie
	}
	return ""
}

// Columns returns the source columns the analysis reads.
func (a Analysis) Columns() []string {
	switch a {
	case BrandAvgPrice:
		return []string{ColBrand, ColPrices}
	case MileageVsPrice:
		return []string{ColMileage, ColPrices}
	case FuelDistribution:
		return []string{ColFuelType}
	case EngineVsPrice:
		return []string{ColEngine, ColPrices}
	case YearCount:
		return []string{ColYear}
	}
	return nil
}

// Valid reports whether a is one of the fixed analyses.
func (a Analysis) Valid() bool {
	return a >= BrandAvgPrice && a <= YearCount
}

// ParseAnalysis resolves a menu identifier or slug. Identifiers match exactly;
// slugs are matched case-insensitively.
func ParseAnalysis(s string) (Analysis, error) {
	for _, a := range Analyses {
		if s == a.String() {
			return a, nil
		}
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, a := range Analyses {
		if lower == a.Slug() {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAnalysis, s)
}

// Column describes one table column.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"` // "text", "number", "currency", "count"
}

// Row is one table row. A nil value is a missing cell.
type Row struct {
	Key    string     `json:"key" yaml:"key"`
	Values []*float64 `json:"values" yaml:"values"`
}

// Table is the tabular half of an analysis result.
type Table struct {
	Title   string   `json:"title" yaml:"title"`
	Columns []Column `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

// Point is one chart mark. Bar and pie charts use Label and Y;
// scatter charts use X and Y.
type Point struct {
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
}

// Chart is the chart specification handed to a renderer.
type Chart struct {
	Kind   ChartKind `json:"kind" yaml:"kind"`
	Title  string    `json:"title" yaml:"title"`
	XLabel string    `json:"x_label,omitempty" yaml:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty" yaml:"y_label,omitempty"`
	Points []Point   `json:"points" yaml:"points"`
}

// AnalysisResult is the output of one analysis run.
type AnalysisResult struct {
	Analysis string `json:"analysis" yaml:"analysis"`
	Slug     string `json:"slug" yaml:"slug"`
	Title    string `json:"title" yaml:"title"`
	Table    Table  `json:"table" yaml:"table"`
	Chart    Chart  `json:"chart" yaml:"chart"`
	Records  int    `json:"records" yaml:"records"`
}

// Empty reports whether the result has neither rows nor chart points.
func (r *AnalysisResult) Empty() bool {
	return len(r.Table.Rows) == 0 && len(r.Chart.Points) == 0
}
