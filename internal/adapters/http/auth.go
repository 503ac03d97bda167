package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/flaira/flaira/internal/core/domain"
)

const userLocal = "user"

// AuthMiddleware resolves the Authorization bearer token to a user and stores
// it in Locals for the handlers behind it.
func AuthMiddleware(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || token == "" {
			return errUnauthorized(c, "missing bearer token")
		}

		user, err := deps.Auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				return errUnauthorized(c, "session expired")
			}
			return errUnauthorized(c, "invalid token")
		}

		c.Locals(userLocal, user)
		c.Locals("token", token)
		return c.Next()
	}
}

// currentUser returns the authenticated user set by AuthMiddleware.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(userLocal).(*domain.User)
	return u
}
