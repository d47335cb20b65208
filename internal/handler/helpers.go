package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/auth"
	"github.com/noah-isme/coursehub-api/internal/middleware"
	"github.com/noah-isme/coursehub-api/internal/service"
)

// Guards are the per-route middlewares mounted in front of protected endpoints.
type Guards struct {
	Authenticate     fiber.Handler
	RequireAdmin     fiber.Handler
	MaterialIntake   fiber.Handler
	SubmissionIntake fiber.Handler
}

func (g Guards) authenticated(handlers ...fiber.Handler) []fiber.Handler {
	chain := compact(g.Authenticate)
	return append(chain, handlers...)
}

func (g Guards) admin(handlers ...fiber.Handler) []fiber.Handler {
	chain := compact(g.Authenticate, g.RequireAdmin)
	return append(chain, handlers...)
}

func compact(handlers ...fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			chain = append(chain, h)
		}
	}
	return chain
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func identityFromContext(c *fiber.Ctx) auth.Identity {
	identity, _ := middleware.IdentityFromLocals(c)
	return identity
}

func activityActorFromContext(c *fiber.Ctx) service.ActivityActor {
	identity := identityFromContext(c)
	return service.ActivityActor{
		ID:   identity.UserID,
		Role: identity.Role.String(),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := middleware.RequestLogger(base, c)
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// validationMessage renders validator errors as a short, client-facing sentence.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid request"
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fieldErr.Param()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", field))
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", field, fieldErr.Tag(), fieldErr.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(parts, "; ")
}
