package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ochairo/netport/internal/domain/interfaces"
	"github.com/ochairo/netport/internal/external-adapters/httpapi"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis service",
	Long: `Start the HTTP analysis service on server.addr.

Endpoints:
  POST /api/analyze  multipart form: uploadType, files, [signature], [sha256]
  GET  /healthz      liveness probe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		orchestrator, err := newOrchestrator(ctx)
		if err != nil {
			return err
		}

		handler := httpapi.NewHandler(orchestrator, httpapi.Options{
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			MaxFiles:       cfg.Server.MaxFiles,
		}, logger)

		server := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return runServer(ctx, server)
	},
}

// runServer serves until ctx is done, then drains in-flight requests
func runServer(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", interfaces.F("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	logger.Info("server exited")
	return nil
}
