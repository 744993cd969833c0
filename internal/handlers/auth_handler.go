package handlers

import (
	"fmt"
	"log"

	"pulse/internal/middleware"
	"pulse/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and profiles.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/profile", middleware.AuthRequired(h.authService), h.HandleGetProfile)
	authRoutes.Put("/profile", middleware.AuthRequired(h.authService), h.HandleUpdateProfile)
	// "/users/search" must be registered before "/users/:id"
	authRoutes.Get("/users/search", h.HandleSearchUsers)
	authRoutes.Get("/users/:id", h.HandleGetUser)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Bio      string `json:"bio" validate:"omitempty,max=500"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, validationMessages(err))
	}

	user, token, err := h.authService.Register(req.Name, req.Email, req.Password, req.Bio)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, validationMessages(err))
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// HandleGetProfile returns the authenticated user's own profile.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		log.Printf("Error getting profile for user %s: %v", userID, err)
		return handleServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfileRequest represents the request body for a profile update.
// Both fields are optional; an absent field keeps the prior value.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"omitempty,max=100"`
	Bio  string `json:"bio" validate:"omitempty,max=500"`
}

// HandleUpdateProfile applies a partial update to the authenticated
// user's profile.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, validationMessages(err))
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Bio)
	if err != nil {
		log.Printf("Error updating profile for user %s: %v", userID, err)
		return handleServiceError(c, err)
	}
	return c.JSON(user)
}

// HandleSearchUsers searches users by name substring, case-insensitively.
func (h *AuthHandler) HandleSearchUsers(c *fiber.Ctx) error {
	name := c.Query("name")
	users, err := h.userService.SearchUsers(name)
	if err != nil {
		log.Printf("Error searching users for %q: %v", name, err)
		return handleServiceError(c, err)
	}
	return c.JSON(users)
}

// HandleGetUser returns a single user's public profile by ID.
func (h *AuthHandler) HandleGetUser(c *fiber.Ctx) error {
	id := c.Params("id")
	user, err := h.userService.GetProfile(id)
	if err != nil {
		log.Printf("Error getting user %s: %v", id, err)
		return handleServiceError(c, err)
	}
	return c.JSON(user)
}

// validationMessages flattens validator errors into a field -> message map.
func validationMessages(err error) map[string]string {
	errorMessages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return errorMessages
}
