// Package middleware provides request-scoped logging, authentication, rate
// limiting, tracing and metrics middleware.
package middleware

import (
	"context"
	"strings"

	"rewear/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier resolves a bearer token into the caller identity.
type TokenVerifier interface {
	VerifyToken(token string) (*models.Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthRequired rejects requests without a valid bearer token and stores the
// resolved identity in Fiber locals ("userID", "role", "name") and in the
// user context for downstream logging.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		identity, err := verifier.VerifyToken(token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token"))
		}

		SetIdentity(c, identity)
		return c.Next()
	}
}

// SetIdentity stores the caller identity on the request.
func SetIdentity(c *fiber.Ctx, identity *models.Identity) {
	c.Locals("userID", identity.UserID)
	c.Locals("role", identity.Role)
	c.Locals("name", identity.Name)
	ctx := context.WithValue(c.UserContext(), UserIDKey, identity.UserID)
	c.SetUserContext(ctx)
}
