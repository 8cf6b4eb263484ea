package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/circuitbreaker"

	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type IdentityTokenConfig struct {
	ProjectID string
	// Optional overrides; derived from ProjectID when empty.
	Issuer  string
	JWKSURL string
}

// IdentityVerifier validates Firebase ID tokens minted by the school's
// identity project. Tokens arrive as a standard Authorization bearer
// header on admin routes.
type IdentityVerifier struct {
	issuer  string
	jwksURL string
	cache   *jwk.Cache
	client  *http.Client
	cfg     IdentityTokenConfig
}

func NewIdentityVerifier(cfg IdentityTokenConfig) (*IdentityVerifier, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("ProjectID is required")
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = fmt.Sprintf("https://securetoken.google.com/%s", cfg.ProjectID)
	}

	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	}

	cache := jwk.NewCache(context.Background())
	// register the JWKS URL with a refresh window
	cache.Register(jwksURL)

	return &IdentityVerifier{
		issuer:  issuer,
		jwksURL: jwksURL,
		cache:   cache,
		client:  &http.Client{Timeout: 5 * time.Second},
		cfg:     cfg,
	}, nil
}

func (v *IdentityVerifier) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return fiber.ErrUnauthorized
		}

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		keyset, err := v.cache.Get(ctx, v.jwksURL)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unable to load jwks")
		}

		tok, err := jwt.Parse(
			[]byte(raw),
			jwt.WithKeySet(keyset),
			jwt.WithValidate(true),

			jwt.WithIssuer(v.issuer),

			jwt.WithAudience(v.cfg.ProjectID),
		)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// put useful info on context
		if sub := tok.Subject(); sub != "" {
			c.Locals("uid", sub)
		}
		if email, ok := tok.Get("email"); ok {
			c.Locals("email", email)
		}

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func WithCircuitBreaker(newBreaker func(name string) circuitbreaker.Breaker) func(fiber.Handler) fiber.Handler {
	var mu sync.RWMutex
	breakers := make(map[string]circuitbreaker.Breaker)

	getBreaker := func(name string) circuitbreaker.Breaker {
		mu.RLock()
		b := breakers[name]
		mu.RUnlock()
		if b != nil {
			return b
		}

		mu.Lock()
		defer mu.Unlock()
		if b = breakers[name]; b != nil {
			return b
		}

		b = newBreaker(name)
		breakers[name] = b
		return b
	}

	return func(next fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			name := breakerName(c)
			breaker := getBreaker(name)

			err := breaker.Allow(c.Context())
			if err != nil {
				if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
					return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
						"error": "service temporarily unavailable",
						"code":  "CIRCUIT_OPEN",
					})
				}

				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "service temporarily unavailable",
					"code":  "BREAKER_ERROR",
				})
			}

			err = next(c)
			if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
				breaker.OnFailure(c.Context())
			} else {
				breaker.OnSuccess(c.Context())
			}

			return err
		}
	}
}

func breakerName(c *fiber.Ctx) string {
	var path string
	r := c.Route()
	if r != nil && r.Path != "" {
		path = r.Path
	} else {
		path = c.Path()
	}

	return c.Method() + " " + path
}
