// Package paystack is a client for the Paystack transactions API. It covers
// the two calls the enrollment checkout needs: initializing a hosted
// checkout and verifying the resulting transaction.
package paystack

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/core"
)

type Service interface {
	Initialize(ctx context.Context, req InitializeRequest) (InitializeData, error)
	Verify(ctx context.Context, reference string) (VerifyData, error)
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
}

type service struct {
	cfg    *core.PaystackConfig
	client HTTPTransport
	logger *slog.Logger
	opts   Options
}

func New(cfg *core.PaystackConfig, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "paystack"),
	)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &service{
		cfg:    cfg,
		client: client,
		logger: logger,
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
