package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riserschool/enrollment-portal-api/api"
	"github.com/riserschool/enrollment-portal-api/pkg/core"
	redisLocal "github.com/riserschool/enrollment-portal-api/pkg/redis"

	"github.com/gofiber/fiber/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := core.LoadEnv(); err != nil {
		slog.Debug("env files not fully loaded", "err", err)
	}

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	var otel core.OtelService
	if cfg.Otel.Disable {
		otel = core.NewNoopOtelService()
	} else {
		otel, err = core.NewOtelService(ctx, &cfg)
		if err != nil {
			slog.Error("failed to initialize telemetry", "err", err)
			os.Exit(1)
		}
	}

	logger := core.NewLoggerWithOtel(cfg, otel)
	defer otel.Shutdown(ctx, logger)

	app, err := buildApp(cfg, otel, logger)
	if err != nil {
		logger.Error("failed to build app", "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := runServer(ctx, app, addr); err != nil {
		logger.Error("server error", "err", err)
	}
}

func buildApp(cfg core.Config, otel core.OtelService, logger *slog.Logger) (*fiber.App, error) {
	rdb := redisLocal.NewClient(cfg.Redis, logger)

	return api.New(&api.Config{
		Otel:   otel,
		Logger: logger,
		Config: cfg,
	}, rdb)
}

func runServer(ctx context.Context, app *fiber.App, addr string) error {
	srvErr := make(chan error, 1)

	go func() {
		srvErr <- app.Listen(addr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
