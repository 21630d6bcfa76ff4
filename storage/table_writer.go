package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"car-dashboard/models"
)

// TableCSVWriter writes analysis tables as CSV files into one directory.
// It is safe for concurrent use.
type TableCSVWriter struct {
	mu  sync.Mutex
	dir string
}

// NewTableCSVWriter creates the output directory if needed.
func NewTableCSVWriter(dir string) (*TableCSVWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &TableCSVWriter{dir: dir}, nil
}

// Write stores the result table as <slug>.csv and returns the file path.
func (w *TableCSVWriter) Write(result *models.AnalysisResult) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.dir, result.Slug+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	for _, rec := range TableRecords(result.Table) {
		if err := cw.Write(rec); err != nil {
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("csv: flush: %w", err)
	}
	return path, nil
}

// TableRecords flattens a table into CSV records, header first.
// Missing cells become empty strings.
func TableRecords(t models.Table) [][]string {
	header := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		header = append(header, c.Key)
	}
	records := [][]string{header}

	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Values)+1)
		rec = append(rec, row.Key)
		for _, v := range row.Values {
			if v == nil {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(*v, 'f', -1, 64))
		}
		records = append(records, rec)
	}
	return records
}
