package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/jobnest/internal/api"
	"github.com/timmy/jobnest/internal/api/handler"
	"github.com/timmy/jobnest/internal/api/middleware"
	"github.com/timmy/jobnest/internal/auth"
	"github.com/timmy/jobnest/internal/bootstrap"
	"github.com/timmy/jobnest/internal/config"
	"github.com/timmy/jobnest/internal/logger"
)

func main() {
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize application")
	}
	defer app.Close()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize token manager")
	}

	health := map[string]handler.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	deps := api.Deps{
		Tokens:  tokens,
		Runner:  app.Sync,
		Logs:    app.Logs,
		Sources: app.Sources,
		Jobs:    app.Jobs,
		Users:   app.Users,
		Health:  health,
		Logger:  appLogger,
	}
	if app.Queue != nil {
		deps.Queue = app.Queue
		health["redis"] = func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		}
		appLogger.Info("Sync requests are queued for the worker")
	} else {
		appLogger.Info("Redis disabled, sync requests run inline")
	}

	router := api.SetupRouter(deps, api.RouterConfig{
		Mode: cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
