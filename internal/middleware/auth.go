package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mojtabasji/HistoryBox-sub000/internal/config"
	"github.com/mojtabasji/HistoryBox-sub000/pkg/auth"
)

// Locals keys set by the auth middleware.
const (
	LocalsSubject = "subject"
	LocalsPhone   = "phone"
)

func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := auth.ValidateSessionToken(parts[1], cfg.JWTSecretKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalsSubject, claims.Subject)
		if claims.Phone != "" {
			c.Locals(LocalsPhone, claims.Phone)
		}
		return c.Next()
	}
}

// OptionalAuth allows both authenticated and unauthenticated requests
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		claims, err := auth.ValidateSessionToken(parts[1], cfg.JWTSecretKey)
		if err != nil {
			return c.Next()
		}

		c.Locals(LocalsSubject, claims.Subject)
		if claims.Phone != "" {
			c.Locals(LocalsPhone, claims.Phone)
		}
		return c.Next()
	}
}

// Subject returns the authenticated external identity, or "" when anonymous.
func Subject(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocalsSubject).(string); ok {
		return s
	}
	return ""
}
