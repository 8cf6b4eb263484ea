// Package states serves Nigerian state and LGA names from the
// states-and-cities.com API, with a Redis cache in front and a
// hard-coded state fallback when the upstream is unreachable.
package states

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riserschool/enrollment-portal-api/pkg/core"
)

type Service interface {
	States(ctx context.Context) ([]string, error)
	LGAs(ctx context.Context, state string) ([]string, error)
}

type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	// Override for testing the HTTP client
	HTTPClient HTTPTransport
	// Structured logger using slog package
	Logger *slog.Logger
	// Context timeout
	Timeout time.Duration
	// Redis client for caching lookups; nil disables caching
	Redis *redis.Client
}

type service struct {
	cfg    *core.StatesConfig
	client HTTPTransport
	logger *slog.Logger
	rdb    *redis.Client
	opts   Options
}

func New(cfg *core.StatesConfig, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "states"),
	)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &service{
		cfg:    cfg,
		client: client,
		logger: logger,
		rdb:    opts.Redis,
		opts:   opts,
	}
}

func (s *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			return context.WithTimeout(ctx, s.opts.Timeout)
		}
	}
	return ctx, func() {}
}
