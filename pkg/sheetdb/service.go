// Package sheetdb is a client for the SheetDB REST API backing the
// enrollment sheet. Rows go in as loose JSON objects so the sheet
// columns stay decoupled from any one caller's types.
package sheetdb

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/core"
)

// ErrNoRowsCreated means SheetDB accepted the request but reported
// zero created rows, which the caller must treat as a failed write.
var ErrNoRowsCreated = errors.New("sheetdb: no rows created")

type Service interface {
	Append(ctx context.Context, rows ...any) (int, error)
	UpdateByReference(ctx context.Context, reference string, patch any) (int, error)
	SearchByReference(ctx context.Context, reference string) ([]map[string]any, error)
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
	cfg    *core.SheetDBConfig
	client HTTPTransport
	logger *slog.Logger
	opts   Options
}

func New(cfg *core.SheetDBConfig, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "sheetdb"),
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

func (s *service) authorize(req *http.Request) {
	if s.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.BearerToken)
	}
}
