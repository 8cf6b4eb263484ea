package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/identity"
	"github.com/gofiber/fiber/v2"
)

const authTimeout = 10 * time.Second

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges portal credentials for an identity session.
func SignIn(svc identity.Service, logger *slog.Logger) fiber.Handler {
	return authExchange(svc.SignIn, logger)
}

// SignUp creates a portal account and returns its first session.
func SignUp(svc identity.Service, logger *slog.Logger) fiber.Handler {
	return authExchange(svc.SignUp, logger)
}

func authExchange(
	exchange func(ctx context.Context, email, password string) (identity.Session, error),
	logger *slog.Logger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var creds credentials
		if err := c.BodyParser(&creds); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "malformed credentials payload",
			})
		}

		if creds.Email == "" || creds.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "email and password are required",
			})
		}

		ctx, cancel := context.WithTimeout(c.Context(), authTimeout)
		defer cancel()

		session, err := exchange(ctx, creds.Email, creds.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid email or password",
				})
			}

			logger.ErrorContext(c.Context(), "identity exchange failed", slog.Any("err", err))
			return fiber.NewError(fiber.StatusBadGateway, "identity upstream request failed")
		}

		return c.Status(fiber.StatusOK).JSON(session)
	}
}
