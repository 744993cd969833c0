package repositories

import "pulse/internal/models"

// PostRepository defines the interface for post data access.
// Every listing method returns posts ordered by date descending; the
// feed relies on that ordering being exact.
type PostRepository interface {
	Create(post *models.Post) error
	GetAll() ([]models.Post, error)
	GetByUserID(userID string) ([]models.Post, error)
	GetByID(id string) (*models.Post, error)
	SearchByText(query string) ([]models.Post, error)
	Update(post *models.Post) error
	Delete(id string) error
}
