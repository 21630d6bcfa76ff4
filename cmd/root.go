package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"car-dashboard/config"
	"car-dashboard/services"
	"car-dashboard/storage"
	"car-dashboard/utils"
)

// flagKeys maps command-line flags onto config keys. Flags are bound on the
// command being executed, so every subcommand only binds what it defines.
var flagKeys = map[string]string{
	"data":        config.KeyDataPath,
	"source":      config.KeySource,
	"verbose":     config.KeyVerbose,
	"sample-size": config.KeySampleSize,
	"addr":        config.KeyServerAddress,
	"out":         config.KeySnapshotDir,
	"chrome-bin":  config.KeyChromeBin,
	"concurrency": config.KeyMaxConcurrency,
	"max-retries": config.KeyMaxRetries,
}

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	out    io.Writer
}

// NewRootCmd builds the carboard command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "carboard",
		Short: "Car listings analysis dashboard",
		Long: `carboard runs fixed analyses over a cleaned CSV of car listings and
shows each one as a table paired with a chart, in the terminal, over HTTP,
or as chart snapshots.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, viper.GetViper()); err != nil {
				return err
			}
			a.cfg = config.Load()
			a.logger = utils.NewLoggerTo(cmd.ErrOrStderr(), a.cfg.Verbose)
			a.out = cmd.OutOrStdout()
			return nil
		},
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.String("data", "", "Path to the cleaned listings CSV (default ./output/clean.csv)")
	pf.String("source", "", "Dataset source: csv or postgres")
	pf.BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newShowCmd(a),
		newListCmd(a),
		newServeCmd(a),
		newSnapshotCmd(a),
		newImportCmd(a),
		newVersionCmd(version),
	)

	return rootCmd
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// openSource returns the configured listing source and a func releasing it.
func (a *app) openSource(ctx context.Context) (storage.ListingSource, func(), error) {
	switch a.cfg.Source {
	case config.SourceCSV, "":
		a.logger.Debug("[cmd] Reading listings from %s", a.cfg.DataPath)
		return storage.NewCSVSource(a.cfg.DataPath), func() {}, nil
	case config.SourcePostgres:
		store, err := storage.NewPostgresStore(ctx, a.cfg.DSN(), a.retry())
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q (want %s or %s)", a.cfg.Source, config.SourceCSV, config.SourcePostgres)
}

// dashboard opens the source and wires the services around it.
func (a *app) dashboard(ctx context.Context) (*services.Dashboard, func(), error) {
	src, release, err := a.openSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	datasets := services.NewDatasetService(src, a.logger)
	return services.NewDashboard(datasets, a.logger, a.cfg.SampleSize), release, nil
}

func (a *app) retry() *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      a.logger,
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "carboard version %s\n", version)
		},
	}
}
