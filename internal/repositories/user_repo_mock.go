package repositories

import (
	"context"
	"sync"
	"time"

	"boilerplate/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// It applies the same pre-save preparation as the database-backed stores.
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

// Save adds a new user or replaces an existing one.
func (r *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := user.PrepareForSave(); err != nil {
		return err
	}
	for id, existing := range r.users {
		if existing.Email == user.Email && id != user.ID {
			return ErrDuplicateEmail
		}
	}

	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.New().String()
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

// GetByIDAndToken returns a user whose ID and stored token both match.
func (r *MockUserRepository) GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.find(func(u models.User) bool { return u.ID == id && u.Token == token })
}

// HasToken reports whether token is still stored on the user.
func (r *MockUserRepository) HasToken(ctx context.Context, id, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return ok && u.Token == token, nil
}

func (r *MockUserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			user := u
			user.MarkLoaded()
			return &user, nil
		}
	}
	return nil, ErrNotFound
}
