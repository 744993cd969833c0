package handlers

import (
	"log"

	"pulse/internal/middleware"
	"pulse/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	postService *services.PostService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, authService *services.AuthService) *PostHandler {
	return &PostHandler{
		postService: postService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the post routes with the Fiber app.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	authRequired := middleware.AuthRequired(h.authService)

	postRoutes := router.Group("/posts")
	postRoutes.Get("/", h.HandleGetPosts)
	postRoutes.Post("/", authRequired, h.HandleCreatePost)
	// "/user/:userId" and "/search" must be registered before "/:id"
	postRoutes.Get("/user/:userId", h.HandleGetPostsByUser)
	postRoutes.Get("/search", h.HandleSearchPosts)
	postRoutes.Get("/:id", h.HandleGetPostByID)
	postRoutes.Put("/:id", authRequired, h.HandleUpdatePost)
	postRoutes.Delete("/:id", authRequired, h.HandleDeletePost)
}

// HandleGetPosts returns the full feed, most recent first.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.postService.GetAllPosts()
	if err != nil {
		log.Printf("Error getting all posts: %v", err)
		return handleServiceError(c, err)
	}
	return c.JSON(posts)
}

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Text string `json:"text" validate:"required"`
}

// HandleCreatePost creates a new post authored by the authenticated user.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create post body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, validationMessages(err))
	}

	post, err := h.postService.CreatePost(userID, req.Text)
	if err != nil {
		log.Printf("Error creating post for user %s: %v", userID, err)
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleGetPostsByUser returns one author's posts, most recent first.
func (h *PostHandler) HandleGetPostsByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	posts, err := h.postService.GetPostsByUser(userID)
	if err != nil {
		log.Printf("Error getting posts for user %s: %v", userID, err)
		return handleServiceError(c, err)
	}
	return c.JSON(posts)
}

// HandleSearchPosts searches posts by text substring, case-insensitively.
func (h *PostHandler) HandleSearchPosts(c *fiber.Ctx) error {
	query := c.Query("query")
	posts, err := h.postService.SearchPosts(query)
	if err != nil {
		log.Printf("Error searching posts for %q: %v", query, err)
		return handleServiceError(c, err)
	}
	return c.JSON(posts)
}

// HandleGetPostByID retrieves a single post by its ID.
func (h *PostHandler) HandleGetPostByID(c *fiber.Ctx) error {
	id := c.Params("id")
	post, err := h.postService.GetPostByID(id)
	if err != nil {
		log.Printf("Error getting post %s: %v", id, err)
		return handleServiceError(c, err)
	}
	return c.JSON(post)
}

// UpdatePostRequest represents the request body for updating a post.
// Empty text leaves the prior text unchanged.
type UpdatePostRequest struct {
	Text string `json:"text"`
}

// HandleUpdatePost replaces a post's text. Only the author or an admin
// may update.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	id := c.Params("id")
	userID, _ := c.Locals("user_id").(string)

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update post body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	post, err := h.postService.UpdatePost(id, userID, req.Text)
	if err != nil {
		log.Printf("Error updating post %s: %v", id, err)
		return handleServiceError(c, err)
	}
	return c.JSON(post)
}

// HandleDeletePost removes a post. Only the author or an admin may
// delete; deletion is permanent.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	id := c.Params("id")
	userID, _ := c.Locals("user_id").(string)

	if err := h.postService.DeletePost(id, userID); err != nil {
		log.Printf("Error deleting post %s: %v", id, err)
		return handleServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post removed",
	})
}
