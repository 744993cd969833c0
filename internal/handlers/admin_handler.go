package handlers

import (
	"log"

	"pulse/internal/middleware"
	"pulse/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the admin-only listing surface. Post deletion is
// not duplicated here: DELETE /posts/:id already honors the admin
// bypass.
type AdminHandler struct {
	userService *services.UserService
	postService *services.PostService
	authService *services.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService, postService *services.PostService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		postService: postService,
		authService: authService,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
// AuthRequired always runs before AdminRequired.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin",
		middleware.AuthRequired(h.authService),
		middleware.AdminRequired(h.userService),
	)
	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Get("/posts", h.HandleListPosts)
}

// HandleListUsers returns every registered user.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListAllUsers()
	if err != nil {
		log.Printf("Error listing all users: %v", err)
		return handleServiceError(c, err)
	}
	return c.JSON(users)
}

// HandleListPosts returns every post, most recent first.
func (h *AdminHandler) HandleListPosts(c *fiber.Ctx) error {
	posts, err := h.postService.GetAllPosts()
	if err != nil {
		log.Printf("Error listing all posts: %v", err)
		return handleServiceError(c, err)
	}
	return c.JSON(posts)
}
