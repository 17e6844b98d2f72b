package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gharnest/gharnest-backend/internal/models"
)

// statusCode maps the sentinel error taxonomy to HTTP statuses.
func statusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrExpired),
		errors.Is(err, models.ErrInvalidOTP),
		errors.Is(err, models.ErrAlreadyVerified):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrAlreadyLiked):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse writes the error as a JSON body with the mapped status.
func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusCode(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
