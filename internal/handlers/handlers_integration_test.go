package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"boilerplate/internal/handlers"
	"boilerplate/internal/middleware"
	"boilerplate/internal/models"
	"boilerplate/internal/repositories"
	"boilerplate/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and the user routes.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}))

	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), "test_jwt_secret")

	app := fiber.New()
	app.Get("/", handlers.HandleHello)
	handlers.NewAuthHandler(authService, zap.NewNop()).RegisterRoutes(app.Group("/api"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestHelloRoute(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, handlers.HelloMessage, string(body))
}

func TestRegisterLoginAuthLogout(t *testing.T) {
	app := setupApp(t)

	// Test Registration
	resp, body := doJSON(t, app, http.MethodPost, "/api/users/register", map[string]string{
		"name":     "John",
		"lastname": "Doe",
		"email":    "test@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	userID := user["_id"].(string)
	assert.NotEmpty(t, userID)
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "token")

	// Duplicate registration
	resp, _ = doJSON(t, app, http.MethodPost, "/api/users/register", map[string]string{
		"email":    "test@example.com",
		"password": "password456",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password
	resp, body = doJSON(t, app, http.MethodPost, "/api/users/login", map[string]string{
		"email":    "test@example.com",
		"password": "wrongpassword",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["loginSuccess"])

	// Test Login
	resp, body = doJSON(t, app, http.MethodPost, "/api/users/login", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["loginSuccess"])
	assert.Equal(t, userID, body["userId"])
	token := body["token"].(string)
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.AuthCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)

	// Authenticated profile
	resp, body = doJSON(t, app, http.MethodGet, "/api/users/auth", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["isAuth"])
	profile := body["user"].(map[string]interface{})
	assert.Equal(t, userID, profile["_id"])
	assert.Equal(t, false, profile["isAdmin"])

	// Logout revokes the token
	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/logout", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/auth", nil, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"MissingEmail", map[string]string{"password": "password123"}},
		{"InvalidEmail", map[string]string{"email": "not-an-email", "password": "password123"}},
		{"ShortPassword", map[string]string{"email": "test@example.com", "password": "1234"}},
		{"LongName", map[string]string{"email": "test@example.com", "password": "password123", "name": string(bytes.Repeat([]byte("a"), 51))}},
		{"TooLongPassword", map[string]string{"email": "test@example.com", "password": string(bytes.Repeat([]byte("p"), 73))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/api/users/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, "errors")
		})
	}
}
