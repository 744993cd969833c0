package repositories

import (
	"fmt"
	"strings"

	"pulse/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetAll retrieves all posts ordered by date descending.
func (r *GORMPostRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Order("date DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// GetByUserID retrieves all posts by the given author, most recent first.
func (r *GORMPostRepository) GetByUserID(userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("user_id = ?", userID).Order("date DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts for user %s: %w", userID, err)
	}
	return posts, nil
}

// GetByID retrieves a single post by its ID from the database.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// SearchByText retrieves posts whose text contains the given substring,
// case-insensitively, most recent first.
func (r *GORMPostRepository) SearchByText(query string) ([]models.Post, error) {
	var posts []models.Post
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.Where("LOWER(text) LIKE ?", pattern).Order("date DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to search posts for %q: %w", query, err)
	}
	return posts, nil
}

// Update persists changes to an existing post.
func (r *GORMPostRepository) Update(post *models.Post) error {
	res := r.db.Save(post)
	if res.Error != nil {
		return fmt.Errorf("failed to update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %s: %w", post.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a post by its ID from the database.
func (r *GORMPostRepository) Delete(id string) error {
	res := r.db.Unscoped().Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
