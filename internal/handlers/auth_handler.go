package handlers

import (
	"errors"
	"fmt"

	"boilerplate/internal/middleware"
	"boilerplate/internal/models"
	"boilerplate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for user registration and sessions.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		log:         log,
	}
}

// RegisterRoutes registers the user routes on router.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Post("/register", h.HandleRegister)
	users.Post("/login", h.HandleLogin)

	authRequired := middleware.AuthRequired(h.authService)
	users.Get("/auth", authRequired, h.HandleAuth)
	users.Get("/logout", authRequired, h.HandleLogout)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"max=50"`
	Lastname string `json:"lastname" validate:"max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=72"`
	Image    string `json:"image"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user. It never carries the password or token.
type UserResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Role     int    `json:"role"`
	Image    string `json:"image,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Lastname: u.Lastname,
		Email:    u.Email,
		Role:     u.Role,
		Image:    u.Image,
		IsAdmin:  u.IsAdmin(),
	}
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if errs := h.validationErrors(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
	}

	user := &models.User{
		Name:     req.Name,
		Lastname: req.Lastname,
		Email:    req.Email,
		Password: req.Password,
		Image:    req.Image,
	}
	if err := h.authService.RegisterUser(c.UserContext(), user); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Validation failed",
				"errors":  fieldErrors(verrs),
			})
		}
		h.log.Error("failed to register user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not register user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    newUserResponse(user),
	})
}

// HandleLogin checks credentials, issues a token and sets it as the auth cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"loginSuccess": false,
			"message":      "Invalid request body",
			"error":        err.Error(),
		})
	}
	if errs := h.validationErrors(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"loginSuccess": false,
			"message":      "Validation failed",
			"errors":       errs,
		})
	}

	user, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"loginSuccess": false,
				"message":      "Authentication failed",
			})
		}
		h.log.Error("failed to log in", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"loginSuccess": false,
			"message":      "Could not log in",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    user.Token,
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{
		"loginSuccess": true,
		"userId":       user.ID,
		"token":        user.Token,
	})
}

// HandleAuth returns the authenticated user's profile.
func (h *AuthHandler) HandleAuth(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"isAuth": true,
		"user":   newUserResponse(user),
	})
}

// HandleLogout revokes the authenticated user's token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.LogoutUser(c.UserContext(), user); err != nil {
		h.log.Error("failed to log out", zap.String("user_id", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not log out",
		})
	}
	c.ClearCookie(middleware.AuthCookie)
	return c.JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) validationErrors(v interface{}) map[string]string {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}
	return fieldErrors(validationErrors)
}

func fieldErrors(validationErrors validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return errorMessages
}
