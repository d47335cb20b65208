package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/internal/utils"
)

// CourseHandler exposes the course catalogue.
type CourseHandler struct {
	service service.CourseService
	guards  Guards
	logger  zerolog.Logger
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(service service.CourseService, guards Guards, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		guards:  guards,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires course routes below /courses.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.guards.admin(h.create)...)
	router.Put("/:id", h.guards.admin(h.update)...)
	router.Post("/:courseId/chapters", h.guards.admin(h.createChapter)...)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	var req dto.CourseListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid query parameters")
	}

	response, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "", response)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "", response)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	course, err := h.service.Create(c.UserContext(), activityActorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	course, err := h.service.Update(c.UserContext(), activityActorFromContext(c), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) createChapter(c *fiber.Ctx) error {
	var payload dto.ChapterCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "invalid request body")
	}

	chapter, err := h.service.CreateChapter(c.UserContext(), activityActorFromContext(c), c.Params("courseId"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "chapter created", chapter)
}

func (h *CourseHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, validationMessage(err))
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, utils.CodeNotFound, "course not found")
	case errors.Is(err, service.ErrDuplicateCourse):
		return utils.SendError(c, fiber.StatusConflict, utils.CodeDuplicateCourse, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("course request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.CodeServerError, "internal server error")
	}
}
