package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/teeslots/bayfinder/internal/infra/config"
	"github.com/teeslots/bayfinder/internal/infra/telemetry"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	telemetry telemetry.Shutdown
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, shutdown telemetry.Shutdown) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, telemetry: shutdown}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		err := a.server.Shutdown(shutdownCtx)
		a.flushTelemetry(shutdownCtx)
		return err
	case err := <-errCh:
		a.flushTelemetry(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) flushTelemetry(ctx context.Context) {
	if a.telemetry == nil {
		return
	}
	if err := a.telemetry(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", "error", err)
	}
}
