package handlers

import (
	"time"

	"github.com/riserschool/enrollment-portal-api/pkg/enrollment"
	"github.com/gofiber/fiber/v2"
)

// GetOptions serves the pick-list values the enrollment form renders:
// prefixes, grade levels, terms, academic years and fee type
// suggestions.
func GetOptions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(enrollment.OptionsCatalog(time.Now()))
	}
}
