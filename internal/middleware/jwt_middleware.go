package middleware

import (
	"errors"
	"strings"

	"boilerplate/internal/models"
	"boilerplate/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthCookie is the cookie carrying the session token.
const AuthCookie = "x_auth"

const userLocal = "user"

// AuthRequired is a Fiber middleware that resolves the session token to a user.
// The token is read from the x_auth cookie, falling back to "Authorization: Bearer <token>".
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(AuthCookie)
		if tokenString == "" {
			authHeader := c.Get(fiber.HeaderAuthorization)
			if authHeader == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"isAuth":  false,
					"message": "Authentication token is required",
				})
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"isAuth":  false,
					"message": "Authorization header format must be 'Bearer <token>'",
				})
			}
			tokenString = parts[1]
		}

		user, err := authService.FindByToken(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"isAuth":  false,
					"message": "Invalid or revoked token",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"isAuth":  false,
				"message": "Could not verify token",
			})
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}
