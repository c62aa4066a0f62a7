package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tenantwave/tenantwave-demo/common/logging"
	"github.com/tenantwave/tenantwave-demo/loadgen/internal/console"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive load console",
	Long: `Start a long-running console process exposing a JSON API:

  POST /runs       start a run  {"target":..,"users":..,"spawn_rate":..,"duration_seconds":..}
  POST /runs/stop  stop the active run
  GET  /stats      live stats for the current run
  GET  /health     console health`,
	Example: `  loadgen serve --port 8089`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")

		logger := logging.New(logging.ParseLevel(level), format).
			With(logging.Service("loadgen"))
		logging.SetDefault(logger)

		c := console.New(logger)
		srv := &http.Server{
			Addr:        fmt.Sprintf(":%d", port),
			Handler:     c.Router(),
			ReadTimeout: 30 * time.Second,
			IdleTimeout: 120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("Load console listening", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		slog.Info("Shutting down console")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8089, "Console listen port")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	serveCmd.Flags().String("log-format", "json", "Log format: json or text")
}
