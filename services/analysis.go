package services

import (
	"fmt"
	"strconv"
	"strings"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// DefaultSampleSize is the number of rows shown in scatter sample tables.
const DefaultSampleSize = 20

// Engine computes the fixed analyses. Every method is a pure function of its
// inputs; the dataset is only read.
type Engine struct {
	logger     *utils.Logger
	sampleSize int
}

// NewEngine creates an Engine. A non-positive sampleSize falls back to DefaultSampleSize.
func NewEngine(logger *utils.Logger, sampleSize int) *Engine {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Engine{logger: logger, sampleSize: sampleSize}
}

// Run computes analysis a over ds.
func (e *Engine) Run(ds *models.Dataset, a models.Analysis) (*models.AnalysisResult, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidAnalysis, int(a))
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: no dataset loaded", models.ErrDataUnavailable)
	}
	if missing := ds.MissingColumns(a.Columns()...); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", a, models.ErrMissingColumn, strings.Join(missing, ", "))
	}

	var result *models.AnalysisResult
	switch a {
	case models.BrandAvgPrice:
		result = e.brandAvgPrice(ds.Listings)
	case models.MileageVsPrice:
		result = e.priceScatter(ds.Listings, a, mileageOf)
	case models.FuelDistribution:
		result = e.fuelDistribution(ds.Listings)
	case models.EngineVsPrice:
		result = e.priceScatter(ds.Listings, a, engineOf)
	case models.YearCount:
		result = e.yearCount(ds.Listings)
	default:
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidAnalysis, int(a))
	}

	result.Analysis = a.String()
	result.Slug = a.Slug()
	result.Chart.Kind = a.ChartKind()

	e.logger.Debug("[engine] %s: %d rows, %d points from %d listings",
		a, len(result.Table.Rows), len(result.Chart.Points), ds.Len())
	return result, nil
}

func (e *Engine) brandAvgPrice(listings []models.Listing) *models.AnalysisResult {
	groups := BrandAveragePrices(listings)

	rows := make([]models.Row, 0, len(groups))
	points := make([]models.Point, 0, len(groups))
	records := 0
	for i, g := range groups {
		rows = append(rows, models.Row{Key: g.Brand, Values: []*float64{models.Float(g.Mean)}})
		points = append(points, models.Point{Label: g.Brand, X: float64(i), Y: g.Mean})
		records += g.Count
	}

	return &models.AnalysisResult{
		Title: "Brand-wise Average Car Price",
		Table: models.Table{
			Title: "Table",
			Columns: []models.Column{
				{Key: models.ColBrand, Label: "Brand", Type: "text"},
				{Key: models.ColPrices, Label: "Average Price (PKR)", Type: "currency"},
			},
			Rows: rows,
		},
		Chart: models.Chart{
			Title:  "Brand-wise Average Prices",
			XLabel: "Brand",
			YLabel: "Average Price (PKR)",
			Points: points,
		},
		Records: records,
	}
}

func (e *Engine) priceScatter(listings []models.Listing, a models.Analysis, x func(models.Listing) float64) *models.AnalysisResult {
	pairs := PricePairs(listings, x)

	n := e.sampleSize
	if n > len(pairs) {
		n = len(pairs)
	}
	rows := make([]models.Row, 0, n)
	for _, p := range pairs[:n] {
		rows = append(rows, models.Row{
			Key:    strconv.Itoa(p.Index),
			Values: []*float64{models.Float(p.X), models.Float(p.Price)},
		})
	}

	points := make([]models.Point, 0, len(pairs))
	for _, p := range pairs {
		if p.Complete() {
			points = append(points, models.Point{X: p.X, Y: p.Price})
		}
	}

	xKey, xLabel, title, chartTitle := models.ColMileage, "Mileage (km)", "Mileage vs Price", "Mileage Impact on Price"
	if a == models.EngineVsPrice {
		xKey, xLabel, title, chartTitle = models.ColEngine, "Engine cc", "Engine Size vs Price", "Engine Size Impact on Car Price"
	}

	return &models.AnalysisResult{
		Title: title,
		Table: models.Table{
			Title: "Sample Data",
			Columns: []models.Column{
				{Key: "row", Label: "#", Type: "text"},
				{Key: xKey, Label: xLabel, Type: "number"},
				{Key: models.ColPrices, Label: "Price (PKR)", Type: "currency"},
			},
			Rows: rows,
		},
		Chart: models.Chart{
			Title:  chartTitle,
			XLabel: xLabel,
			YLabel: "Price (PKR)",
			Points: points,
		},
		Records: len(points),
	}
}

func (e *Engine) fuelDistribution(listings []models.Listing) *models.AnalysisResult {
	counts := FuelDistribution(listings)

	rows := make([]models.Row, 0, len(counts))
	points := make([]models.Point, 0, len(counts))
	records := 0
	for i, c := range counts {
		rows = append(rows, models.Row{Key: c.Key, Values: []*float64{models.Float(float64(c.Count))}})
		points = append(points, models.Point{Label: c.Key, X: float64(i), Y: float64(c.Count)})
		records += c.Count
	}

	return &models.AnalysisResult{
		Title: "Fuel Type Distribution",
		Table: models.Table{
			Title: "Table",
			Columns: []models.Column{
				{Key: models.ColFuelType, Label: "Fuel Type", Type: "text"},
				{Key: "count", Label: "Count", Type: "count"},
			},
			Rows: rows,
		},
		Chart: models.Chart{
			Title:  "Fuel Type Share",
			Points: points,
		},
		Records: records,
	}
}

func (e *Engine) yearCount(listings []models.Listing) *models.AnalysisResult {
	tallies := YearCounts(listings)

	rows := make([]models.Row, 0, len(tallies))
	points := make([]models.Point, 0, len(tallies))
	records := 0
	for _, t := range tallies {
		label := strconv.Itoa(t.Year)
		rows = append(rows, models.Row{Key: label, Values: []*float64{models.Float(float64(t.Count))}})
		points = append(points, models.Point{Label: label, X: float64(t.Year), Y: float64(t.Count)})
		records += t.Count
	}

	return &models.AnalysisResult{
		Title: "Year-wise Listing Count",
		Table: models.Table{
			Title: "Table",
			Columns: []models.Column{
				{Key: models.ColYear, Label: "Year", Type: "text"},
				{Key: "count", Label: "Count", Type: "count"},
			},
			Rows: rows,
		},
		Chart: models.Chart{
			Title:  "Cars Listed Per Year",
			XLabel: "Year",
			YLabel: "Count",
			Points: points,
		},
		Records: records,
	}
}
