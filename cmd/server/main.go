package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/shxlzz/To-Do-List/api/handler"
	"github.com/shxlzz/To-Do-List/internal/bootstrap"
	"github.com/shxlzz/To-Do-List/internal/config"
	"github.com/shxlzz/To-Do-List/internal/middleware"
	"github.com/shxlzz/To-Do-List/internal/router"
	"github.com/shxlzz/To-Do-List/pkg/httpcontext"
	"github.com/shxlzz/To-Do-List/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todo-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Name:     cfg.AppName,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer zapLogger.Sync()

	if cfg.JWT.Secret == "" {
		// tokens from a previous run stop validating, which matches the single in-process session
		cfg.JWT.Secret = uuid.NewString()
		zapLogger.Warn("JWT_SECRET not set, using a per-process secret")
	}

	rt, err := bootstrap.Build(context.Background(), cfg, nil, zapLogger)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	ctx, cancel := rt.Lifecycle.Listen(context.Background())
	defer cancel()

	server := newServer(cfg, rt, zapLogger)
	rt.Lifecycle.Register("http_server", server.ShutdownWithContext)

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Backend))
		serveErr <- server.ListenAndServe(cfg.Address())
	}()

	select {
	case <-ctx.Done():
		err = nil
	case err = <-serveErr:
		zapLogger.Error("server stopped unexpectedly", zap.Error(err))
	}

	if shutdownErr := rt.Shutdown(context.Background()); shutdownErr != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(shutdownErr))
	}
	return err
}

func newServer(cfg *config.Config, rt *bootstrap.Runtime, log *zap.Logger) *fasthttp.Server {
	adapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	tokens := apiHandler.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	}

	r := router.New(router.Handlers{
		Auth:   apiHandler.NewAuthHandler(rt.App, tokens, adapter, log.Named("auth")),
		Task:   apiHandler.NewTaskHandler(rt.App, adapter, log.Named("tasks")),
		Theme:  apiHandler.NewThemeHandler(rt.App, adapter, log.Named("themes")),
		Health: apiHandler.NewHealthHandler(rt.Monitor, adapter, log.Named("health")),
	}, middleware.JWTAuth(cfg.JWT.Secret, log))

	return &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}
}
