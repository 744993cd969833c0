package handlers

import (
	"errors"
	"log"

	"pulse/internal/services"

	"github.com/gofiber/fiber/v2"
)

// handleServiceError maps service sentinel errors to HTTP statuses.
// Post-mutation authorization failures map to 401 rather than 403,
// matching the behavior the clients already depend on.
func handleServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "User already exists",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authorized, token failed",
		})
	case errors.Is(err, services.ErrNotAllowed):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authorized to modify this post",
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	case errors.Is(err, services.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Post not found",
		})
	default:
		log.Printf("Unhandled service error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
		})
	}
}

// validationErrorResponse renders validator failures as a 400 with a
// per-field message map.
func validationErrorResponse(c *fiber.Ctx, errorMessages map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
