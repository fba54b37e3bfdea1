package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// NewServeMetricsCommand creates the serve-metrics command. It refreshes the
// overdue gauge periodically so the scrape reflects current due dates.
func NewServeMetricsCommand() *cobra.Command {
	var refreshInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.Config.Metrics.Enabled {
				return fmt.Errorf("metrics are disabled in configuration")
			}

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go refreshOverdueGauge(ctx, app, refreshInterval)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{
				Addr:    app.Config.Metrics.Addr,
				Handler: mux,
			}

			errCh := make(chan error, 1)
			go func() {
				fmt.Printf("Serving metrics on http://%s/metrics\n", app.Config.Metrics.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().DurationVar(&refreshInterval, "refresh", 30*time.Second,
		"How often to recompute the overdue gauge")
	return cmd
}

func refreshOverdueGauge(ctx context.Context, app *App, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats, err := app.Queries.Stats(ctx)
		if err == nil {
			app.Metrics.SetOverdue(stats.Overdue)
		} else {
			fmt.Fprintf(os.Stderr, "overdue refresh failed: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
