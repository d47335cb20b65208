package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/coursehub-api/internal/auth"
	"github.com/noah-isme/coursehub-api/internal/utils"
)

const identityLocal = "identity"

type identityKey struct{}

// Authenticate validates the bearer token and attaches the caller identity to the request.
// A missing token is rejected with 401; a token that fails verification with 403.
func Authenticate(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "authorization token required")
		}

		const bearer = "bearer "
		if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "authorization token required")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "authorization token required")
		}

		identity, err := tokens.Parse(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusForbidden, utils.CodeForbidden, "invalid or expired token")
		}

		c.Locals(identityLocal, identity)
		c.Locals("user_id", identity.UserID)
		c.Locals("user_role", identity.Role.String())
		c.SetUserContext(context.WithValue(c.UserContext(), identityKey{}, identity))

		return c.Next()
	}
}

// IdentityFromLocals returns the identity attached by Authenticate.
func IdentityFromLocals(c *fiber.Ctx) (auth.Identity, bool) {
	if c == nil {
		return auth.Identity{}, false
	}
	identity, ok := c.Locals(identityLocal).(auth.Identity)
	return identity, ok
}

// IdentityFromContext extracts the identity from a request context.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	if ctx == nil {
		return auth.Identity{}, false
	}
	identity, ok := ctx.Value(identityKey{}).(auth.Identity)
	return identity, ok
}
