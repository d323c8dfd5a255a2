// Package middleware provides the request middleware for the fiber app.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kobo/internal/services/auth"
	"kobo/internal/utils"
)

// Auth validates the bearer token and stores the claims on the request
// context under "claims".
type Auth struct {
	authService auth.Service
}

func NewAuth(authService auth.Service) *Auth {
	return &Auth{authService: authService}
}

func (m *Auth) Handler(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := m.authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return utils.Unauthorized(c, "invalid or expired token")
	}

	c.Locals("claims", claims)
	return c.Next()
}
