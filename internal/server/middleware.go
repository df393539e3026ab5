package server

import (
	"context"
	"errors"

	"postboard/internal/middleware"
	"postboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns the API authentication middleware.
// It accepts a bearer token or the session cookie and answers 401 JSON otherwise.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.CurrentUserID(c); ok {
			return c.Next()
		}

		tc, err := middleware.ParseToken(s.config.JWTSecret, middleware.TokenFromRequest(c))
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, middleware.ErrMissingToken) {
				msg = "Authorization required"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
		}
		if middleware.IsTokenRevoked(c.UserContext(), s.redis, tc.JTI) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		c.Locals("userID", tc.UserID)
		c.Locals("username", tc.Username)
		c.Locals("claims", tc)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, tc.UserID))
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := s.userService.IsAdmin(c.UserContext(), currentUserID(c))
		if err != nil && !models.IsCode(err, models.CodeNotFound) {
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// LoginRequired sends anonymous visitors of an HTML page to the login form,
// remembering where they were going.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.CurrentUserID(c); ok {
			return c.Next()
		}
		return c.Redirect(loginURL(c.OriginalURL()), fiber.StatusFound)
	}
}
