package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/coursehub-api/internal/utils"
)

// RequireAdmin ensures the authenticated caller holds the admin role.
// It must be mounted after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromLocals(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, utils.CodeUnauthorized, "authentication required")
		}
		if !identity.Role.IsAdmin() {
			return utils.SendError(c, fiber.StatusForbidden, utils.CodeForbidden, "admin privileges required")
		}
		return c.Next()
	}
}
