package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/flaira/flaira/internal/core/domain"
)

var validate = validator.New()

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
	Expires string       `json:"expires_at"`
}

// SignupHandler registers an account and returns a session token.
func SignupHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		user, session, err := deps.Auth.Signup(c.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			return errConflict(c, "could not create account")
		}

		return c.Status(201).JSON(authResponse{
			User:    user,
			Token:   session.Token,
			Expires: session.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
}

// LoginHandler verifies credentials and returns a session token.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if err := validate.Struct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		user, session, err := deps.Auth.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return errUnauthorized(c, "invalid email or password")
			}
			return errInternal(c, err.Error())
		}

		return c.JSON(authResponse{
			User:    user,
			Token:   session.Token,
			Expires: session.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
}

// LogoutHandler revokes the current session.
func LogoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals("token").(string)
		if token == "" {
			return errUnauthorized(c, "missing bearer token")
		}
		if err := deps.Auth.Logout(c.Context(), token); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(204)
	}
}

// MeHandler returns the authenticated user.
func MeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(currentUser(c))
	}
}
