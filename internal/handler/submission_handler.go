package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/internal/upload"
	"github.com/noah-isme/coursehub-api/internal/utils"
)

// SubmissionHandler accepts assignment submissions.
type SubmissionHandler struct {
	service service.SubmissionService
	guards  Guards
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs a submission handler.
func NewSubmissionHandler(service service.SubmissionService, guards Guards, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		guards:  guards,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register wires submission routes on the API root.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/assignments/:id/submit", h.guards.authenticated(compact(h.guards.SubmissionIntake, h.submit)...)...)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	response, err := h.service.Submit(c.UserContext(), activityActorFromContext(c), c.Params("id"), formFile(c, "file"))
	if err != nil {
		return h.handleError(c, err)
	}

	if response.Resubmitted {
		return utils.SendSuccess(c, "submission updated", response)
	}
	return utils.SendCreated(c, "submission received", response)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoFile):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeNoFile, "no file uploaded")
	case errors.Is(err, upload.ErrTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, utils.CodeValidation, "file exceeds the 50MB limit")
	case errors.Is(err, upload.ErrTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "unsupported file type, only PDF, PPT, PPTX and ZIP are allowed")
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, utils.CodeNotFound, "assignment not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("submission request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.CodeServerError, "internal server error")
	}
}
