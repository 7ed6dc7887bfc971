package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"boilerplate/internal/repositories"
	"boilerplate/internal/server"
	"boilerplate/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStore struct{ err error }

func (s stubStore) Ping(ctx context.Context) error { return s.err }

func newTestApp(store stubStore) *fiber.App {
	authService := services.NewAuthService(repositories.NewMockUserRepository(), "test_jwt_secret")
	return server.New(server.Deps{
		AuthService: authService,
		Store:       store,
		Logger:      zap.NewNop(),
	})
}

func TestHello(t *testing.T) {
	app := newTestApp(stubStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello World! HOLY MOLY", string(body))
}

func TestHealth(t *testing.T) {
	resp, err := newTestApp(stubStore{}).Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = newTestApp(stubStore{err: errors.New("down")}).Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUserRoutesAreMounted(t *testing.T) {
	app := newTestApp(stubStore{})

	body, _ := json.Marshal(map[string]string{"email": "test@example.com", "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/users/auth", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
