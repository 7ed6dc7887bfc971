package repositories

import (
	"context"
	"errors"

	"boilerplate/internal/models"
)

// ErrNotFound is returned when no user matches a lookup.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a save would violate email uniqueness.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user data access.
// Save runs the user's pre-save preparation (password hashing) before writing.
type UserRepository interface {
	Save(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error)
	// HasToken reports whether token is still the one stored on user id.
	HasToken(ctx context.Context, id, token string) (bool, error)
}
