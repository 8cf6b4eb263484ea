package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/sheetdb"
	"github.com/gofiber/fiber/v2"
)

const adminTimeout = 10 * time.Second

// LookupEnrollment finds committed enrollment rows by payment
// reference. Admin-only; used by the office to reconcile payments.
func LookupEnrollment(svc sheetdb.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := c.Params("reference")

		ctx, cancel := context.WithTimeout(c.Context(), adminTimeout)
		defer cancel()

		rows, err := svc.SearchByReference(ctx, reference)
		if err != nil {
			logger.ErrorContext(c.Context(), "enrollment lookup failed",
				slog.String("reference", reference),
				slog.Any("err", err),
			)
			return fiber.NewError(fiber.StatusBadGateway, "enrollment storage request failed")
		}

		if len(rows) == 0 {
			return fiber.ErrNotFound
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{"enrollments": rows})
	}
}

type paymentStatusPatch struct {
	PaymentStatus string `json:"paymentStatus"`
}

// UpdatePaymentStatus patches the paymentStatus column of every row
// carrying the reference, e.g. marking a payment refunded.
func UpdatePaymentStatus(svc sheetdb.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := c.Params("reference")

		var patch paymentStatusPatch
		if err := c.BodyParser(&patch); err != nil || patch.PaymentStatus == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "paymentStatus is required",
			})
		}

		ctx, cancel := context.WithTimeout(c.Context(), adminTimeout)
		defer cancel()

		updated, err := svc.UpdateByReference(ctx, reference, patch)
		if err != nil {
			logger.ErrorContext(c.Context(), "payment status update failed",
				slog.String("reference", reference),
				slog.Any("err", err),
			)
			return fiber.NewError(fiber.StatusBadGateway, "enrollment storage request failed")
		}

		if updated == 0 {
			return fiber.ErrNotFound
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{"updated": updated})
	}
}
