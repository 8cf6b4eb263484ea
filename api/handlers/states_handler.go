package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/states"
	"github.com/gofiber/fiber/v2"
)

const lookupTimeout = 5 * time.Second

// ListStates serves the state picker. The lookup falls back to a
// built-in list on upstream failure, so this never errors out.
func ListStates(svc states.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), lookupTimeout)
		defer cancel()

		names, err := svc.States(ctx)
		if err != nil {
			logger.ErrorContext(c.Context(), "states lookup failed", slog.Any("err", err))
			return fiber.NewError(fiber.StatusBadGateway, "states lookup failed")
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{"states": names})
	}
}

// ListLGAs serves the LGA picker for one state.
func ListLGAs(svc states.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), lookupTimeout)
		defer cancel()

		name := c.Params("state")
		lgas, err := svc.LGAs(ctx, name)
		if err != nil {
			logger.ErrorContext(c.Context(), "lga lookup failed",
				slog.String("state", name),
				slog.Any("err", err),
			)
			return fiber.NewError(fiber.StatusBadGateway, "lga lookup failed")
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{"lgas": lgas})
	}
}
