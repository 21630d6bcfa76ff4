package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"car-dashboard/models"
	"car-dashboard/render"
	"car-dashboard/services"
	"car-dashboard/storage"
	"car-dashboard/utils"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		all   bool
		noPNG bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot [ANALYSIS]",
		Short: "Write analysis tables and charts to files",
		Long: `Write the result table (CSV), the chart (SVG) and, unless --no-png is
given, a PNG of the chart rendered by headless Chrome.

Examples:
  # Every analysis into ./output/charts
  carboard snapshot --all

  # One chart, SVG only
  carboard snapshot year-count --no-png --out /tmp/charts`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var analyses []models.Analysis
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("give an analysis or --all, not both")
			case all:
				analyses = models.Analyses
			case len(args) == 1:
				analysis, err := models.ParseAnalysis(args[0])
				if err != nil {
					return err
				}
				analyses = []models.Analysis{analysis}
			default:
				return fmt.Errorf("specify an analysis or use --all")
			}
			return a.runSnapshot(cmd.Context(), analyses, !noPNG)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Snapshot every analysis")
	cmd.Flags().BoolVar(&noPNG, "no-png", false, "Skip the headless browser and write SVG only")
	cmd.Flags().String("out", "", "Output directory (default ./output/charts)")
	cmd.Flags().String("chrome-bin", "", "Chrome or Chromium executable (default: search PATH)")
	cmd.Flags().Int("concurrency", 0, "Analyses rendered in parallel (default 3)")
	cmd.Flags().Int("sample-size", 0, "Rows kept in scatter sample tables (default 20)")

	return cmd
}

func (a *app) runSnapshot(ctx context.Context, analyses []models.Analysis, png bool) error {
	dash, release, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer release()

	// Load once up front; the workers share the cached dataset.
	if _, err := dash.Datasets.Get(ctx); err != nil {
		return err
	}

	tables, err := storage.NewTableCSVWriter(a.cfg.SnapshotDir)
	if err != nil {
		return err
	}

	var shots *render.Snapshotter
	if png {
		shots, err = render.NewSnapshotter(ctx, a.cfg.ChromeBin, a.logger)
		if err != nil {
			return err
		}
		defer shots.Close()
	}

	pool := utils.NewWorkerPool(a.cfg.MaxConcurrency)
	for _, analysis := range analyses {
		analysis := analysis
		pool.Submit(func() error {
			return a.snapshotOne(ctx, dash, tables, shots, analysis)
		})
	}

	errs := pool.Wait()
	for _, err := range errs {
		a.logger.Error("[snapshot] %v", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d snapshots failed", len(errs), len(analyses))
	}

	color.New(color.FgGreen).Fprintf(a.out, "✓ %d snapshot(s) written to %s\n", len(analyses), a.cfg.SnapshotDir)
	return nil
}

func (a *app) snapshotOne(ctx context.Context, dash *services.Dashboard, tables *storage.TableCSVWriter,
	shots *render.Snapshotter, analysis models.Analysis) error {

	result, err := dash.Run(ctx, analysis)
	if err != nil {
		return fmt.Errorf("%s: %w", analysis, err)
	}

	csvPath, err := tables.Write(result)
	if err != nil {
		return fmt.Errorf("%s: %w", analysis, err)
	}

	svgPath := filepath.Join(a.cfg.SnapshotDir, result.Slug+".svg")
	f, err := os.Create(svgPath)
	if err != nil {
		return fmt.Errorf("%s: %w", analysis, err)
	}
	if err := render.WriteSVG(f, result.Chart); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", analysis, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", analysis, err)
	}
	a.logger.Info("[snapshot] %s → %s, %s", analysis, csvPath, svgPath)

	if shots == nil {
		return nil
	}
	pngPath := filepath.Join(a.cfg.SnapshotDir, result.Slug+".png")
	if err := shots.Capture(result.Chart, pngPath); err != nil {
		return fmt.Errorf("%s: %w", analysis, err)
	}
	a.logger.Info("[snapshot] %s → %s", analysis, pngPath)
	return nil
}
