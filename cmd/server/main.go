package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nanotile/ai-document-writer/internal/clock"
	"github.com/nanotile/ai-document-writer/internal/config"
	"github.com/nanotile/ai-document-writer/internal/draftstore"
	"github.com/nanotile/ai-document-writer/internal/governor"
	"github.com/nanotile/ai-document-writer/internal/log"
	"github.com/nanotile/ai-document-writer/internal/ratelimit"
	"github.com/nanotile/ai-document-writer/internal/session"
	"github.com/nanotile/ai-document-writer/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := log.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DraftsDir, 0o755); err != nil {
		return fmt.Errorf("creating drafts directory: %w", err)
	}

	clk := clock.System()
	sessions := session.NewStore(cfg.SessionTimeout, clk)
	limiter := ratelimit.New(cfg.RateWindow, cfg.RateMaxRequests, cfg.RateMaxClients, clk)
	drafts := draftstore.New(cfg.DraftsDir, clk)
	gov := governor.New(sessions, limiter, cfg.Limits, cfg.DraftsDir)

	srv, err := web.New(gov, drafts, sessions, cfg.Password, cfg.TrustProxy)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			slog.Int("port", cfg.Port),
			slog.String("drafts_dir", cfg.DraftsDir),
			slog.Bool("password_auth", cfg.Password != ""))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
