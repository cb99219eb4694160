// Command authstub runs the development auth backend: email/password login,
// session lookup, sign-out and role selection, all in memory. Point the
// gateway's FOODHUB_AUTH_URL at it for local work.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/protik0939/foodhub-gateway/internal/authstub"
	"github.com/protik0939/foodhub-gateway/internal/obs"
	"github.com/protik0939/foodhub-gateway/internal/session"
)

func main() {
	_ = godotenv.Load()

	log, err := obs.InitLogger(obs.LogConfig{
		Level: os.Getenv("LOG_LEVEL"),
		Dev:   os.Getenv("LOG_DEV") == "1",
	})
	if err != nil {
		os.Stderr.WriteString("logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	secret := os.Getenv("AUTHSTUB_SECRET")
	if secret == "" {
		secret = "local-dev-secret"
		log.Warn("AUTHSTUB_SECRET not set, using the insecure default")
	}
	addr := os.Getenv("AUTHSTUB_ADDR")
	if addr == "" {
		addr = ":3001"
	}

	svc, err := authstub.New(secret)
	if err != nil {
		log.Fatal("stub init failed", zap.Error(err))
	}
	seedAdmin(svc, log)

	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("authstub listening", zap.String("addr", addr))
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
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// seedAdmin creates the one account role selection can never produce.
func seedAdmin(svc *authstub.Service, log *zap.Logger) {
	email := os.Getenv("AUTHSTUB_ADMIN_EMAIL")
	password := os.Getenv("AUTHSTUB_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	user, err := svc.Register("Admin", email, password)
	if err != nil {
		log.Warn("admin seed failed", zap.Error(err))
		return
	}
	if _, err := svc.Grant(user.ID, session.RoleAdmin); err != nil {
		log.Warn("admin grant failed", zap.Error(err))
		return
	}
	log.Info("seeded admin account", zap.String("email", email))
}
