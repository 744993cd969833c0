package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"pulse/internal/models"
	"pulse/internal/repositories"
	"pulse/pkg/rabbitmq"
)

// PostService handles business logic related to posts.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	mqClient *rabbitmq.Client // optional; nil skips event publication
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		mqClient: mqClient,
	}
}

// CreatePost stores a new post for the given author. The author's
// current name is snapshotted into AuthorName; it is not kept in sync
// with later renames.
func (s *PostService) CreatePost(authorID, text string) (*models.Post, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, mapUserRepoError(err)
	}

	post := &models.Post{
		Text:       text,
		UserID:     author.ID,
		AuthorName: author.Name,
		Date:       time.Now(),
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.publishEvent("post.created", map[string]interface{}{
		"postID":     post.ID,
		"userID":     post.UserID,
		"authorName": post.AuthorName,
	})

	return post, nil
}

// GetAllPosts retrieves the full feed, most recent first.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	return s.postRepo.GetAll()
}

// GetPostsByUser retrieves all posts by one author, most recent first.
func (s *PostService) GetPostsByUser(userID string) ([]models.Post, error) {
	return s.postRepo.GetByUserID(userID)
}

// GetPostByID retrieves a single post.
func (s *PostService) GetPostByID(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, mapPostRepoError(err)
	}
	return post, nil
}

// SearchPosts returns posts whose text contains the given substring,
// case-insensitively, most recent first.
func (s *PostService) SearchPosts(query string) ([]models.Post, error) {
	return s.postRepo.SearchByText(query)
}

// UpdatePost replaces a post's text. Only the author or an admin may
// update; an empty newText leaves the prior text unchanged.
func (s *PostService) UpdatePost(id, requesterID, newText string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, mapPostRepoError(err)
	}

	if err := s.authorizeChange(post, requesterID); err != nil {
		return nil, err
	}

	if newText != "" {
		post.Text = newText
	}
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post %s: %w", id, err)
	}
	return post, nil
}

// DeletePost removes a post permanently. Only the author or an admin
// may delete.
func (s *PostService) DeletePost(id, requesterID string) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return mapPostRepoError(err)
	}

	if err := s.authorizeChange(post, requesterID); err != nil {
		return err
	}

	if err := s.postRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}

	s.publishEvent("post.deleted", map[string]interface{}{
		"postID": post.ID,
		"userID": post.UserID,
	})

	return nil
}

// authorizeChange enforces the author-or-admin rule for mutations.
func (s *PostService) authorizeChange(post *models.Post, requesterID string) error {
	if post.UserID == requesterID {
		return nil
	}
	requester, err := s.userRepo.GetByID(requesterID)
	if err != nil {
		return ErrNotAllowed
	}
	if !requester.IsAdmin() {
		return ErrNotAllowed
	}
	return nil
}

func (s *PostService) publishEvent(routingKey string, data map[string]interface{}) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	if err := s.mqClient.PublishPostEvent(routingKey, data); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}

func mapPostRepoError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}
