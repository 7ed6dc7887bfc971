package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boilerplate/internal/models"
	"boilerplate/internal/repositories"

	"go.uber.org/zap"
)

// AuthService handles the user credential lifecycle: registration, password
// checks, token issuance and token lookup.
type AuthService struct {
	userRepo   repositories.UserRepository
	signer     *TokenSigner
	events     EventPublisher
	sessions   SessionCache
	sessionTTL time.Duration
	log        *zap.Logger
}

// Option configures optional AuthService collaborators.
type Option func(*AuthService)

// WithEventPublisher publishes user events after registration, login and logout.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *AuthService) { s.events = p }
}

// WithSessionCache caches token lookups for ttl.
func WithSessionCache(c SessionCache, ttl time.Duration) Option {
	return func(s *AuthService) {
		s.sessions = c
		s.sessionTTL = ttl
	}
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *AuthService) { s.log = log }
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, opts ...Option) *AuthService {
	s := &AuthService{
		userRepo:   userRepo,
		signer:     NewTokenSigner(jwtSecret),
		sessionTTL: 15 * time.Minute,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUser saves a new user. The plaintext password is hashed on save.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if existing, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return ErrEmailTaken
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return err
	}

	s.publish(EventUserRegistered, user)
	return nil
}

// ComparePassword reports whether plainPassword matches the user's stored hash.
func (s *AuthService) ComparePassword(user *models.User, plainPassword string) (bool, error) {
	return user.ComparePassword(plainPassword)
}

// GenerateToken signs the user's ID, stores the token on the user and persists it.
func (s *AuthService) GenerateToken(ctx context.Context, user *models.User) (*models.User, error) {
	token, err := s.signer.Sign(user.ID)
	if err != nil {
		return nil, err
	}

	previous := user.Token
	user.Token = token
	if err := s.userRepo.Save(ctx, user); err != nil {
		user.Token = previous
		return nil, err
	}
	if previous != token {
		if err := s.forgetSession(ctx, previous); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// FindByToken verifies token and returns the user it was issued to, provided
// the token is still the one stored on that user. A cached session is only
// served after the store confirms the token.
func (s *AuthService) FindByToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	if user := s.cachedUser(ctx, token); user != nil && user.ID == userID {
		ok, err := s.userRepo.HasToken(ctx, userID, token)
		if err != nil {
			return nil, err
		}
		if !ok {
			if err := s.forgetSession(ctx, token); err != nil {
				s.log.Warn("failed to drop stale session", zap.Error(err))
			}
			return nil, ErrUserNotFound
		}
		return user, nil
	}

	user, err := s.userRepo.GetByIDAndToken(ctx, userID, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.cacheUser(ctx, token, user)
	return user, nil
}

// LoginUser checks the credentials and issues a fresh token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.ComparePassword(user, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	user, err = s.GenerateToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(EventUserLoggedIn, user)
	return user, nil
}

// LogoutUser clears the user's stored token so it no longer resolves.
func (s *AuthService) LogoutUser(ctx context.Context, user *models.User) error {
	previous := user.Token
	user.Token = ""
	if err := s.userRepo.Save(ctx, user); err != nil {
		user.Token = previous
		return err
	}
	if err := s.forgetSession(ctx, previous); err != nil {
		return err
	}

	s.publish(EventUserLoggedOut, user)
	return nil
}

func (s *AuthService) publish(eventType string, user *models.User) {
	if s.events == nil {
		return
	}
	err := s.events.PublishUserEvent(eventType, map[string]interface{}{
		"userID": user.ID,
		"email":  user.Email,
		"at":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.log.Warn("failed to publish user event",
			zap.String("event", eventType),
			zap.String("user_id", user.ID),
			zap.Error(err))
	}
}
