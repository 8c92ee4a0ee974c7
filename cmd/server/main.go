package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/config"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/console"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	slog.Info("starting harness console",
		"listen", cfg.ListenAddr,
		"api_base_url", cfg.Runtime.APIBaseURL,
		"default_model", cfg.Runtime.DefaultModel,
		"admin_key_set", cfg.Runtime.AdminKey != "",
		"request_timeout", cfg.RequestTimeout.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := console.New(cfg)
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Error("console shutdown error", "error", err)
		}
	case err := <-serveErr:
		slog.Error("console server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
