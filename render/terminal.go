package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	"car-dashboard/models"
)

const (
	barWidth   = 40
	plotHeight = 15
	plotWidth  = 70
)

// Terminal prints summaries, tables and charts for a human reader.
type Terminal struct {
	out io.Writer
}

// NewTerminal returns a Terminal writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// PrintSummary prints the dataset overview.
func (t *Terminal) PrintSummary(s *models.Summary) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)
	magenta := color.New(color.FgMagenta, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	fmt.Fprintln(t.out)
	magenta.Fprintln(t.out, sep)
	magenta.Fprintln(t.out, "  🚗 CAR SALES ANALYSIS DASHBOARD")
	magenta.Fprintln(t.out, sep)
	fmt.Fprintln(t.out)

	yellow.Fprintln(t.out, "  Overview")
	fmt.Fprintf(t.out, "  %s\n", thin)
	fmt.Fprintf(t.out, "  Total listings : %s\n", FormatInt(int64(s.TotalListings)))
	fmt.Fprintf(t.out, "  Brands         : %d\n", s.Brands)
	if s.PricedListing > 0 {
		fmt.Fprintf(t.out, "  Average price  : PKR %s\n", FormatAmount(s.AveragePrice))
		fmt.Fprintf(t.out, "  Price range    : PKR %s - %s\n", FormatAmount(s.MinPrice), FormatAmount(s.MaxPrice))
	} else {
		fmt.Fprintln(t.out, "  No price data available")
	}
	if s.EarliestYear > 0 {
		fmt.Fprintf(t.out, "  Model years    : %d - %d\n", s.EarliestYear, s.LatestYear)
	}
	if s.MostExpensive != nil {
		fmt.Fprintf(t.out, "  Most expensive : %s %d (PKR %s)\n",
			s.MostExpensive.Brand, s.MostExpensive.Year, FormatAmount(s.MostExpensive.Price))
	}
	fmt.Fprintln(t.out)
}

// PrintResult prints the analysis table followed by its chart.
func (t *Terminal) PrintResult(r *models.AnalysisResult) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	cyan.Fprintf(t.out, "%s %s\n\n", chartIcon(r.Chart.Kind), r.Title)

	yellow.Fprintf(t.out, "  %s\n", r.Table.Title)
	if len(r.Table.Rows) == 0 {
		fmt.Fprintln(t.out, "  No data to display")
	} else {
		t.printTable(r.Table)
	}
	fmt.Fprintln(t.out)

	yellow.Fprintf(t.out, "  %s (%s)\n", r.Chart.Title, r.Chart.Kind)
	if len(r.Chart.Points) == 0 {
		fmt.Fprintln(t.out, "  No data to display")
	} else {
		switch r.Chart.Kind {
		case models.ChartBar:
			t.printBars(r.Chart)
		case models.ChartScatter:
			t.printScatter(r.Chart)
		case models.ChartPie:
			t.printPie(r.Chart)
		}
	}
	fmt.Fprintf(t.out, "\n%s\n", strings.Repeat("─", 60))
}

// PrintAnalyses lists the available analyses.
func (t *Terminal) PrintAnalyses(analyses []models.Analysis) {
	table := tablewriter.NewWriter(t.out)
	table.SetHeader([]string{"Analysis", "Slug", "Chart"})
	for _, a := range analyses {
		table.Append([]string{a.String(), a.Slug(), string(a.ChartKind())})
	}
	table.Render()
}

func (t *Terminal) printTable(tbl models.Table) {
	table := tablewriter.NewWriter(t.out)

	header := make([]string, 0, len(tbl.Columns))
	align := make([]int, 0, len(tbl.Columns))
	for _, c := range tbl.Columns {
		header = append(header, c.Label)
		if c.Type == "text" {
			align = append(align, tablewriter.ALIGN_LEFT)
		} else {
			align = append(align, tablewriter.ALIGN_RIGHT)
		}
	}
	table.SetHeader(header)
	table.SetColumnAlignment(align)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(TableRows(tbl))
	table.Render()
}

func (t *Terminal) printBars(c models.Chart) {
	var max float64
	labelWidth := 0
	for _, p := range c.Points {
		if p.Y > max {
			max = p.Y
		}
		if w := utf8.RuneCountInString(p.Label); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > 28 {
		labelWidth = 28
	}

	for _, p := range c.Points {
		n := 0
		if max > 0 {
			n = int(p.Y / max * barWidth)
		}
		if n == 0 && p.Y > 0 {
			n = 1
		}
		fmt.Fprintf(t.out, "  %-*s %s %s\n", labelWidth, truncate(p.Label, labelWidth),
			color.GreenString(strings.Repeat("█", n)), FormatNumber(p.Y))
	}
	if c.YLabel != "" {
		fmt.Fprintf(t.out, "  %s\n", color.HiBlackString("y: "+c.YLabel))
	}
}

// printScatter plots price against the x value, ordered by x.
func (t *Terminal) printScatter(c models.Chart) {
	points := append([]models.Point(nil), c.Points...)
	sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })

	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	if len(ys) == 1 {
		ys = append(ys, ys[0])
	}

	graph := asciigraph.Plot(ys,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("%s by %s (%s to %s)", c.YLabel, c.XLabel,
			FormatNumber(points[0].X), FormatNumber(points[len(points)-1].X))),
	)
	fmt.Fprintln(t.out, graph)
}

func (t *Terminal) printPie(c models.Chart) {
	shares := Shares(c.Points)
	for i, p := range c.Points {
		n := int(shares[i] * barWidth)
		fmt.Fprintf(t.out, "  %-16s %s %5.1f%% (%s)\n", truncate(p.Label, 16),
			color.CyanString(strings.Repeat("█", n)), shares[i]*100, FormatInt(int64(p.Y)))
	}
}

func chartIcon(kind models.ChartKind) string {
	switch kind {
	case models.ChartScatter:
		return "📈"
	case models.ChartPie:
		return "⛽"
	default:
		return "📊"
	}
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
