package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/internal/utils"
)

// AssignmentHandler exposes the assignments of a course.
type AssignmentHandler struct {
	service service.AssignmentService
	guards  Guards
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(service service.AssignmentService, guards Guards, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		guards:  guards,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register wires assignment routes on the API root.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("/courses/:courseId/assignments", h.guards.authenticated(h.list)...)
	router.Post("/courses/:courseId/assignments", h.guards.admin(h.create)...)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(c.UserContext(), c.Params("courseId"), identityFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "", response)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	assignment, err := h.service.Create(c.UserContext(), activityActorFromContext(c), c.Params("courseId"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "assignment created", assignment)
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, validationMessage(err))
	case errors.Is(err, service.ErrInvalidDueDate):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, err.Error())
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, utils.CodeNotFound, "course not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("assignment request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.CodeServerError, "internal server error")
	}
}
