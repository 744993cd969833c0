package middleware

import (
	"log"
	"strings"

	"pulse/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// The resolved user id is stored in the request locals for downstream
// handlers. Missing, malformed, invalid, and expired tokens all fail
// with the same 401 response.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, token failed",
			})
		}

		// Store the resolved identity for subsequent handlers
		c.Locals("user_id", userID)

		return c.Next()
	}
}

// AdminRequired gates a route to admin users. It must run after
// AuthRequired; the role is read from the credential store so a token
// issued before a role change cannot claim a stale role.
func AdminRequired(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}

		user, err := userService.GetProfile(userID)
		if err != nil {
			log.Printf("Admin check failed to load user %s: %v", userID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, token failed",
			})
		}

		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Not authorized as an admin",
			})
		}

		return c.Next()
	}
}
