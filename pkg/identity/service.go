// Package identity wraps the Google Identity Toolkit REST API used
// for portal sign-in. The school's Firebase project backs the user
// pool; this package only exchanges credentials for tokens, it never
// stores them.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/core"
)

// ErrInvalidCredentials covers the identity provider's 400 responses
// for bad email/password combinations and unknown accounts.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

type Service interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
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

// Session is the token bundle the identity provider issues on a
// successful credential exchange.
type Session struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

type service struct {
	cfg    *core.IdentityConfig
	client HTTPTransport
	logger *slog.Logger
	opts   Options
}

func New(cfg *core.IdentityConfig, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "identity"),
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
