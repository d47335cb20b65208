package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/internal/upload"
	"github.com/noah-isme/coursehub-api/internal/utils"
)

// MaterialHandler exposes course materials.
type MaterialHandler struct {
	service service.MaterialService
	guards  Guards
	logger  zerolog.Logger
}

// NewMaterialHandler constructs a material handler.
func NewMaterialHandler(service service.MaterialService, guards Guards, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service: service,
		guards:  guards,
		logger:  logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register wires material routes on the API root.
func (h *MaterialHandler) Register(router fiber.Router) {
	router.Get("/courses/:courseId/materials", h.list)
	router.Post("/materials/upload", h.guards.admin(compact(h.guards.MaterialIntake, h.upload)...)...)
}

func (h *MaterialHandler) list(c *fiber.Ctx) error {
	response, err := h.service.ListByCourse(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "", response)
}

func (h *MaterialHandler) upload(c *fiber.Ctx) error {
	payload := dto.MaterialUploadRequest{
		CourseID:  c.FormValue("courseId"),
		ChapterID: c.FormValue("chapterId"),
		Title:     c.FormValue("title"),
		Type:      c.FormValue("type"),
	}

	response, err := h.service.Upload(c.UserContext(), activityActorFromContext(c), payload, formFile(c, "file"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "material uploaded", response)
}

func (h *MaterialHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoFile):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeNoFile, "no file uploaded")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, validationMessage(err))
	case errors.Is(err, upload.ErrTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, utils.CodeValidation, "file exceeds the 50MB limit")
	case errors.Is(err, upload.ErrTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, utils.CodeValidation, "unsupported file type, only PDF, PPT, PPTX and ZIP are allowed")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, utils.CodeNotFound, "course not found")
	case errors.Is(err, service.ErrChapterNotFound):
		return utils.SendError(c, fiber.StatusNotFound, utils.CodeNotFound, "chapter not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("material request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, utils.CodeServerError, "internal server error")
	}
}

// formFile returns the uploaded file in field or nil when the request carries none.
func formFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}
