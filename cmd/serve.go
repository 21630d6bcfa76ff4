package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"car-dashboard/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyses over HTTP",
		Long: `Serve the analyses as a JSON API.

Routes:
  GET  /analyses                   list the analyses
  GET  /analyses/{slug}            run one analysis
  GET  /analyses/{slug}/chart.svg  render its chart
  GET  /summary                    dataset overview
  POST /dataset/invalidate         drop the cached dataset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().Int("sample-size", 0, "Rows shown in scatter sample tables (default 20)")
	cmd.Flags().Int("max-retries", 0, "Connection attempts for the postgres source (default 3)")

	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	dash, release, err := a.dashboard(ctx)
	if err != nil {
		return err
	}
	defer release()

	// Warm the cache so a broken dataset is reported at startup.
	if _, err := dash.Datasets.Get(ctx); err != nil {
		a.logger.Warn("[serve] Dataset not loaded yet: %v", err)
	}

	srv := server.NewHTTPServer(a.cfg.ServerAddress, dash, a.logger)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("[serve] Listening on %s (source: %s)", a.cfg.ServerAddress, dash.Datasets.Source().Describe())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-signalCh:
		a.logger.Info("[serve] Shutting down the server... %s", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
