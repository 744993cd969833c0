package services

import "errors"

// Sentinel errors surfaced by the service layer. Handlers translate
// these into HTTP statuses with errors.Is; repository and store errors
// never cross the handler boundary untranslated.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrNotAllowed         = errors.New("not authorized to modify this post")
)
