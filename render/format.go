package render

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"car-dashboard/models"
)

// missingCell is printed for a missing table value.
const missingCell = "-"

// FormatCell renders a table value according to its column type.
func FormatCell(v *float64, colType string) string {
	if v == nil {
		return missingCell
	}
	switch colType {
	case "count":
		return FormatInt(int64(*v))
	case "currency":
		return FormatAmount(*v)
	default:
		return FormatNumber(*v)
	}
}

// FormatAmount formats v with two decimals and comma separators: 1,234,567.50.
func FormatAmount(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).StringFixed(2))
}

// FormatNumber drops the fraction for whole numbers and keeps up to two decimals otherwise.
func FormatNumber(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	return groupThousands(d.String())
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	return groupThousands(strconv.FormatInt(n, 10))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}

// TableRows renders every row of t as display strings, key first.
func TableRows(t models.Table) [][]string {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, 0, len(r.Values)+1)
		row = append(row, r.Key)
		for i, v := range r.Values {
			colType := "number"
			if i+1 < len(t.Columns) {
				colType = t.Columns[i+1].Type
			}
			row = append(row, FormatCell(v, colType))
		}
		rows = append(rows, row)
	}
	return rows
}

// Shares returns each point's fraction of the total Y, for pie charts.
func Shares(points []models.Point) []float64 {
	var total float64
	for _, p := range points {
		total += p.Y
	}
	shares := make([]float64, len(points))
	if total == 0 {
		return shares
	}
	for i, p := range points {
		shares[i] = p.Y / total
	}
	return shares
}
