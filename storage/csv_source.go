package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"car-dashboard/models"
)

// nanValues are the cell values read as missing.
var nanValues = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

var columnTypes = map[string]series.Type{
	models.ColBrand:    series.String,
	models.ColPrices:   series.Float,
	models.ColMileage:  series.Float,
	models.ColFuelType: series.String,
	models.ColEngine:   series.Float,
	models.ColYear:     series.Float,
}

// CSVSource loads listings from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Describe returns the file path.
func (s *CSVSource) Describe() string { return s.path }

// Identity combines path, size and modification time of the file.
func (s *CSVSource) Identity(ctx context.Context) (string, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: stat %q: %w", models.ErrDataUnavailable, s.path, err)
	}
	return fmt.Sprintf("%s|%d|%d", s.path, fi.Size(), fi.ModTime().UnixNano()), nil
}

// Load reads and parses the whole file.
func (s *CSVSource) Load(ctx context.Context) (*models.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", models.ErrDataUnavailable, s.path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %q: %w", models.ErrDataUnavailable, s.path, err)
	}

	ds, err := ParseCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	ds.Source = s.path
	ds.ModTime = fi.ModTime()
	return ds, nil
}

// ParseCSV reads a listings table from r. The header must name every required
// column; unknown columns are ignored. Cells that do not parse as the column's
// type are read as missing.
func ParseCSV(ctx context.Context, r io.Reader) (*models.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", models.ErrDataUnavailable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", models.ErrDataUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if dup := firstDuplicate(header); dup != "" {
		return nil, fmt.Errorf("%w: duplicate column %q", models.ErrDataUnavailable, dup)
	}

	ds := &models.Dataset{Columns: header, LoadedAt: time.Now()}
	if missing := ds.MissingColumns(models.RequiredColumns...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %w: %s", models.ErrDataUnavailable, models.ErrMissingColumn, strings.Join(missing, ", "))
	}

	rows := records[1:]
	if len(rows) == 0 {
		ds.Listings = []models.Listing{}
		return ds, nil
	}

	table := make([][]string, 0, len(records))
	table = append(table, header)
	for _, row := range rows {
		cleaned := make([]string, len(row))
		for i, v := range row {
			cleaned[i] = strings.TrimSpace(v)
		}
		table = append(table, cleaned)
	}

	df := dataframe.LoadRecords(table,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", models.ErrDataUnavailable, df.Err)
	}

	listings, err := listingsFromFrame(df)
	if err != nil {
		return nil, err
	}
	ds.Listings = listings
	return ds, nil
}

func listingsFromFrame(df dataframe.DataFrame) ([]models.Listing, error) {
	brand, brandNA := stringColumn(df, models.ColBrand)
	fuel, fuelNA := stringColumn(df, models.ColFuelType)
	prices := floatColumn(df, models.ColPrices)
	mileage := floatColumn(df, models.ColMileage)
	engine := floatColumn(df, models.ColEngine)

	years := floatColumn(df, models.ColYear)

	n := df.Nrow()
	listings := make([]models.Listing, n)
	for i := 0; i < n; i++ {
		l := models.Listing{
			Price:   prices[i],
			Mileage: mileage[i],
			Engine:  engine[i],
		}
		if !brandNA[i] {
			l.Brand = brand[i]
		}
		if !fuelNA[i] {
			l.FuelType = fuel[i]
		}
		l.Year = wholeYear(years[i])
		listings[i] = l
	}
	return listings, nil
}

// wholeYear accepts years written as floats (2020.0); fractions and
// non-positive values are missing.
func wholeYear(v float64) int {
	if math.IsNaN(v) || v <= 0 || v != math.Trunc(v) {
		return 0
	}
	return int(v)
}

func stringColumn(df dataframe.DataFrame, name string) ([]string, []bool) {
	col := df.Col(name)
	return col.Records(), col.IsNaN()
}

func floatColumn(df dataframe.DataFrame, name string) []float64 {
	col := df.Col(name)
	values := col.Float()
	for i, na := range col.IsNaN() {
		if na {
			values[i] = math.NaN()
		}
	}
	return values
}

func firstDuplicate(names []string) string {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n
		}
		seen[n] = struct{}{}
	}
	return ""
}
