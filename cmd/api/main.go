package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/deskops/helpdesk/internal/api/http"
	"github.com/deskops/helpdesk/internal/api/http/handlers"
	"github.com/deskops/helpdesk/internal/app"
	"github.com/deskops/helpdesk/internal/auth"
	"github.com/deskops/helpdesk/internal/config"
	"github.com/deskops/helpdesk/internal/observability"
	"github.com/deskops/helpdesk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.App.Env == "production" && cfg.Auth.JWTSecret == "dev-secret" {
		logger.Fatal("AUTH_JWT_SECRET must be set in production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	desk, err := app.New(ctx, cfg, logger, app.Options{Metrics: metrics})
	if err != nil {
		logger.Fatal("failed to open profile", zap.Error(err))
	}
	defer desk.Close()

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authService := service.NewAuthService(desk.Sessions, tokenMgr)

	server := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.Backend, desk.Store),
		Session:        handlers.NewSessionHandler(authService),
		Tickets:        handlers.NewTicketsHandler(desk.Tickets),
		AuthMiddleware: auth.NewAuthMiddleware(tokenMgr, desk.Sessions),
		Metrics:        metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Storage.Backend))
		if err := server.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = server.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
