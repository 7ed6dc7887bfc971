package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"boilerplate/internal/models"

	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

// SessionCache stores users resolved from tokens. Get may treat backend
// failures as misses, but Delete must report them so a revoked session is
// never silently left behind.
type SessionCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func (s *AuthService) cachedUser(ctx context.Context, token string) *models.User {
	if s.sessions == nil {
		return nil
	}
	data, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil || data == nil {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	user.MarkLoaded()
	return &user
}

func (s *AuthService) cacheUser(ctx context.Context, token string, user *models.User) {
	if s.sessions == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.sessions.Set(ctx, sessionKeyPrefix+token, data, s.sessionTTL); err != nil {
		s.log.Warn("failed to cache session", zap.Error(err))
	}
}

func (s *AuthService) forgetSession(ctx context.Context, token string) error {
	if s.sessions == nil || token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to drop cached session: %w", err)
	}
	return nil
}
