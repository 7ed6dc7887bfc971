package repositories

import (
	"context"
	"errors"
	"fmt"

	"boilerplate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
// Password hashing runs in the User BeforeSave hook.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Save inserts a new user or updates an existing one.
func (r *GORMUserRepository) Save(ctx context.Context, user *models.User) error {
	db := r.db.WithContext(ctx)
	if user.ID == "" {
		user.ID = uuid.New().String()
		if err := db.Create(user).Error; err != nil {
			user.ID = ""
			return r.translate(err, "failed to create user")
		}
		return nil
	}
	if err := db.Save(user).Error; err != nil {
		return r.translate(err, "failed to save user")
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByIDAndToken retrieves a user whose ID and stored token both match.
func (r *GORMUserRepository) GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "id = ? AND token = ?", id, token)
}

// HasToken reports whether token is still stored on the user.
func (r *GORMUserRepository) HasToken(ctx context.Context, id, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND token = ?", id, token).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}

func (r *GORMUserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *GORMUserRepository) translate(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", msg, err)
}
