package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/coursehub-api/internal/observability"
	"github.com/noah-isme/coursehub-api/internal/upload"
	"github.com/noah-isme/coursehub-api/internal/utils"
)

// FileIntake screens the multipart file in field against the policy before the
// handler runs. Requests without a file pass through so the handler can report it.
func FileIntake(policy upload.Policy, field, kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile(field)
		if err != nil || file == nil {
			return c.Next()
		}

		if err := policy.Screen(file.Header.Get(fiber.HeaderContentType), file.Size); err != nil {
			if errors.Is(err, upload.ErrTooLarge) {
				observability.UploadRejected().WithLabelValues(kind, "size").Inc()
				return utils.SendError(c, fiber.StatusRequestEntityTooLarge, utils.CodeValidation, "file exceeds the 50MB limit")
			}
			observability.UploadRejected().WithLabelValues(kind, "type").Inc()
			return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "unsupported file type, only PDF, PPT, PPTX and ZIP are allowed")
		}

		return c.Next()
	}
}
