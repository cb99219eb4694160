// Command gateway runs the FoodHub edge gateway: the access gate, the
// reverse proxies to the rendering app and the auth backend, and the BFF
// aggregation endpoints.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/protik0939/foodhub-gateway/internal/config"
	"github.com/protik0939/foodhub-gateway/internal/httpapi"
	"github.com/protik0939/foodhub-gateway/internal/market"
	"github.com/protik0939/foodhub-gateway/internal/obs"
	"github.com/protik0939/foodhub-gateway/internal/session"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log, err := obs.InitLogger(obs.LogConfig{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		os.Stderr.WriteString("logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	api, err := httpapi.New(httpapi.Options{
		Version:        version,
		AuthBackendURL: cfg.AuthBackendURL,
		AppUpstreamURL: cfg.AppUpstreamURL,
		Resolver:       session.NewResolver(cfg.AuthBackendURL, cfg.SessionTimeout, log),
		Market:         market.NewClient(cfg.AuthBackendURL, 10*time.Second, log),
		RateBurst:      cfg.RateBurst,
		RatePerSec:     float64(cfg.RatePerSec),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		log.Fatal("api init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway listening",
			zap.String("addr", cfg.Addr),
			zap.String("auth_backend", cfg.AuthBackendURL),
			zap.String("app_upstream", cfg.AppUpstreamURL),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
