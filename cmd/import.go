package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"car-dashboard/storage"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the listings CSV into PostgreSQL",
		Long: `Load the cleaned listings CSV and replace the contents of the
car_listings table with it. Afterwards the dashboard can read from the
database with --source postgres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd.Context())
		},
	}
	cmd.Flags().Int("max-retries", 0, "Connection attempts (default 3)")
	return cmd
}

func (a *app) runImport(ctx context.Context) error {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Loading listings..."
	s.Start()

	ds, err := storage.NewCSVSource(a.cfg.DataPath).Load(ctx)
	if err != nil {
		s.Stop()
		return err
	}

	s.Suffix = " Connecting to PostgreSQL..."
	store, err := storage.NewPostgresStore(ctx, a.cfg.DSN(), a.retry())
	if err != nil {
		s.Stop()
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer store.Close()

	s.Suffix = fmt.Sprintf(" Writing %d listings...", ds.Len())
	err = store.Write(ctx, ds.Listings)
	s.Stop()
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(a.out, "✓ Imported %d listings from %s into %s\n",
		ds.Len(), a.cfg.DataPath, store.Describe())
	return nil
}
