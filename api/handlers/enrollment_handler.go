package handlers

import (
	"errors"
	"log/slog"

	"github.com/riserschool/enrollment-portal-api/pkg/draft"
	"github.com/riserschool/enrollment-portal-api/pkg/enrollment"
	"github.com/gofiber/fiber/v2"
)

// SubmitEnrollment runs one full submission attempt: validate, open
// checkout, commit the record. Domain outcomes map to HTTP statuses;
// only a second concurrent attempt is rejected outright.
func SubmitEnrollment(wf *enrollment.Workflow, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := enrollment.DecodeForm(c.Body())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "malformed enrollment payload",
			})
		}

		draftID := c.Query("draft")

		result, err := wf.Submit(c.Context(), form, draftID)
		if err != nil {
			if errors.Is(err, enrollment.ErrSubmissionInFlight) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "a submission is already in flight for this form",
				})
			}

			var cerr *enrollment.CommitError
			if errors.As(err, &cerr) {
				// Money moved but the record didn't land. Surface the
				// reference so support can reconcile.
				return c.Status(fiber.StatusBadGateway).JSON(result)
			}

			logger.ErrorContext(c.Context(), "submission failed",
				slog.Any("err", err),
			)
			return fiber.NewError(fiber.StatusBadGateway, "payment upstream request failed")
		}

		if result.Status == enrollment.StatusInvalidInput {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
		}

		return c.Status(fiber.StatusOK).JSON(result)
	}
}

// GetDraft returns the saved draft payload verbatim.
func GetDraft(wf *enrollment.Workflow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := wf.LoadDraft(c.Context(), c.Params("id"))
		if errors.Is(err, draft.ErrNotFound) {
			return fiber.ErrNotFound
		}
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "draft storage unavailable")
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).Send(data)
	}
}

// SaveDraft persists the in-progress form under the given draft id.
func SaveDraft(wf *enrollment.Workflow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := wf.SaveDraft(c.Context(), c.Params("id"), c.Body()); err != nil {
			var verr *enrollment.ValidationError
			if errors.As(err, &verr) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": verr.Message,
				})
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, "draft storage unavailable")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeleteDraft discards a saved draft. Deleting an absent draft is fine.
func DeleteDraft(wf *enrollment.Workflow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := wf.ClearDraft(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "draft storage unavailable")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RehydrateDraft merges a saved draft into the posted form. Only an
// entirely empty form is filled; anything already entered wins.
func RehydrateDraft(wf *enrollment.Workflow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := enrollment.DecodeForm(c.Body())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "malformed enrollment payload",
			})
		}

		restored, err := wf.Rehydrate(c.Context(), form, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "draft storage unavailable")
		}

		return c.Status(fiber.StatusOK).JSON(restored)
	}
}
