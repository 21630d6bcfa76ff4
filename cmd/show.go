package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"car-dashboard/models"
	"car-dashboard/render"
)

// report is the machine-readable shape of `carboard show`.
type report struct {
	Summary *models.Summary        `json:"summary" yaml:"summary"`
	Result  *models.AnalysisResult `json:"result" yaml:"result"`
}

func newShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [ANALYSIS]",
		Short: "Run one analysis and print its table and chart",
		Long: `Run one of the fixed analyses and print the dataset overview, the
result table and a terminal chart.

ANALYSIS is a menu name or its slug:
  ` + analysisHelp() + `

Examples:
  # Average price per brand (the default)
  carboard show

  # Fuel type distribution as JSON
  carboard show fuel-distribution -o json

  # Read another file
  carboard show "Mileage vs Price" --data ./data/cars.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis := models.Analyses[0]
			if len(args) == 1 {
				var err error
				if analysis, err = models.ParseAnalysis(args[0]); err != nil {
					return err
				}
			}
			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}
			return a.runShow(cmd, analysis, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().Int("sample-size", 0, "Rows shown in scatter sample tables (default 20)")

	return cmd
}

func (a *app) runShow(cmd *cobra.Command, analysis models.Analysis, format render.Format) error {
	ctx := cmd.Context()

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Loading listings..."
	if format == render.FormatHuman {
		s.Start()
	}

	dash, release, err := a.dashboard(ctx)
	if err != nil {
		s.Stop()
		return err
	}
	defer release()

	summary, err := dash.Summary(ctx)
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	result, err := dash.Run(ctx, analysis)
	s.Stop()
	if err != nil {
		return err
	}

	if format != render.FormatHuman {
		return render.Encode(a.out, format, report{Summary: summary, Result: result})
	}

	term := render.NewTerminal(a.out)
	term.PrintSummary(summary)
	term.PrintResult(result)
	return nil
}

func analysisHelp() string {
	lines := make([]string, 0, len(models.Analyses))
	for _, a := range models.Analyses {
		lines = append(lines, fmt.Sprintf("%-24q %s", a.String(), a.Slug()))
	}
	return strings.Join(lines, "\n  ")
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available analyses",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			render.NewTerminal(a.out).PrintAnalyses(models.Analyses)
		},
	}
}
