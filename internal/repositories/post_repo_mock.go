package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"pulse/internal/models"

	"github.com/google/uuid"
)

// MockPostRepository is an in-memory implementation of PostRepository.
type MockPostRepository struct {
	posts map[string]models.Post
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts: make(map[string]models.Post),
	}
}

// Create adds a new post.
func (r *MockPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	r.posts[post.ID] = *post
	return nil
}

// GetAll returns all posts ordered by date descending.
func (r *MockPostRepository) GetAll() ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postList := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		postList = append(postList, p)
	}
	sortByDateDesc(postList)
	return postList, nil
}

// GetByUserID returns all posts by the given author, most recent first.
func (r *MockPostRepository) GetByUserID(userID string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postList := make([]models.Post, 0)
	for _, p := range r.posts {
		if p.UserID == userID {
			postList = append(postList, p)
		}
	}
	sortByDateDesc(postList)
	return postList, nil
}

// GetByID returns a post by its ID.
func (r *MockPostRepository) GetByID(id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	return &post, nil
}

// SearchByText returns posts whose text contains the substring,
// case-insensitively, most recent first.
func (r *MockPostRepository) SearchByText(query string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	matches := make([]models.Post, 0)
	for _, p := range r.posts {
		if strings.Contains(strings.ToLower(p.Text), needle) {
			matches = append(matches, p)
		}
	}
	sortByDateDesc(matches)
	return matches, nil
}

// Update modifies an existing post.
func (r *MockPostRepository) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("post with ID %s: %w", post.ID, ErrNotFound)
	}
	r.posts[post.ID] = *post
	return nil
}

// Delete removes a post by its ID.
func (r *MockPostRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("post with ID %s: %w", id, ErrNotFound)
	}
	delete(r.posts, id)
	return nil
}

func sortByDateDesc(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}
