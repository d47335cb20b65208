package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/utils"
)

// ErrorHandler is the application-wide fallback for errors returned by handlers and middleware.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	base := logger.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			switch {
			case fiberErr.Code == fiber.StatusNotFound:
				return utils.SendError(c, fiber.StatusNotFound, utils.CodeNotFound, "resource not found")
			case fiberErr.Code == fiber.StatusRequestEntityTooLarge:
				return utils.SendError(c, fiber.StatusRequestEntityTooLarge, utils.CodeValidation, "request body too large")
			case fiberErr.Code < fiber.StatusInternalServerError:
				return utils.SendError(c, fiberErr.Code, utils.CodeValidation, fiberErr.Message)
			}
		}

		requestLogger(base, c).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.CodeServerError, "internal server error")
	}
}

// NotFound answers every request that matched no route.
func NotFound(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusNotFound, utils.CodeNotFound, "route not found")
}
