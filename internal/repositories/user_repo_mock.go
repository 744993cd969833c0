package repositories

import (
	"fmt"
	"strings"
	"sync"

	"pulse/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns the user with the given email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// GetByID returns the user with the given ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// Update modifies an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}

// SearchByName returns users whose name contains the substring,
// case-insensitively.
func (r *MockUserRepository) SearchByName(name string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(name)
	matches := make([]models.User, 0)
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// GetAll returns every user.
func (r *MockUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, u)
	}
	return userList, nil
}
