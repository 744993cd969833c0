package services

import (
	"fmt"

	"pulse/internal/models"
	"pulse/internal/repositories"
)

// UserService handles business logic for profiles and user queries.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetProfile retrieves a single user by ID.
func (s *UserService) GetProfile(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, mapUserRepoError(err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to a user's profile. Only name
// and bio are mutable; an empty field keeps the prior value.
func (s *UserService) UpdateProfile(id, name, bio string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, mapUserRepoError(err)
	}

	if name != "" {
		user.Name = name
	}
	if bio != "" {
		user.Bio = bio
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile for user %s: %w", id, err)
	}
	return user, nil
}

// SearchUsers returns users whose name contains the given substring,
// case-insensitively.
func (s *UserService) SearchUsers(name string) ([]models.User, error) {
	return s.userRepo.SearchByName(name)
}

// ListAllUsers returns every user. Intended for the admin surface; the
// password hash never serializes regardless of caller.
func (s *UserService) ListAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}
