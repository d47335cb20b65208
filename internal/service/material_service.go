package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/observability"
	"github.com/noah-isme/coursehub-api/internal/repository"
	"github.com/noah-isme/coursehub-api/internal/upload"
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
	Remove(ctx context.Context, location string) error
}

// MaterialService lists and stores course materials.
type MaterialService interface {
	ListByCourse(ctx context.Context, courseID string) (dto.MaterialListResponse, error)
	Upload(ctx context.Context, actor ActivityActor, payload dto.MaterialUploadRequest, file *multipart.FileHeader) (dto.MaterialUploadResponse, error)
}

type materialService struct {
	materials repository.MaterialRepository
	courses   repository.CourseRepository
	chapters  repository.ChapterRepository
	storage   FileStorage
	policy    upload.Policy
	cache     *CourseListCache
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewMaterialService constructs the material service.
func NewMaterialService(
	materials repository.MaterialRepository,
	courses repository.CourseRepository,
	chapters repository.ChapterRepository,
	storage FileStorage,
	policy upload.Policy,
	cache *CourseListCache,
	activity ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) MaterialService {
	return &materialService{
		materials: materials,
		courses:   courses,
		chapters:  chapters,
		storage:   storage,
		policy:    policy,
		cache:     cache,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "material_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/coursehub-api/internal/service/material"),
	}
}

func (s *materialService) ListByCourse(ctx context.Context, courseID string) (dto.MaterialListResponse, error) {
	materials, err := s.materials.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.MaterialListResponse{}, err
	}
	return dto.MaterialListResponse{Materials: dto.NewMaterialResponseSlice(materials)}, nil
}

func (s *materialService) Upload(ctx context.Context, actor ActivityActor, payload dto.MaterialUploadRequest, file *multipart.FileHeader) (dto.MaterialUploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "material.upload")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().WithLabelValues("material").Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		span.SetAttributes(attribute.Bool("upload.file_present", false))
		span.SetStatus(codes.Error, "no file")
		return dto.MaterialUploadResponse{}, ErrNoFile
	}

	payload.CourseID = strings.TrimSpace(payload.CourseID)
	payload.ChapterID = strings.TrimSpace(payload.ChapterID)
	payload.Title = strings.TrimSpace(payload.Title)
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.MaterialUploadResponse{}, err
	}
	span.SetAttributes(
		attribute.String("material.course_id", payload.CourseID),
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	exists, err := s.courses.Exists(ctx, payload.CourseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course lookup failed")
		return dto.MaterialUploadResponse{}, err
	}
	if !exists {
		span.SetStatus(codes.Error, "course not found")
		return dto.MaterialUploadResponse{}, ErrCourseNotFound
	}

	var chapterID *string
	if payload.ChapterID != "" {
		chapter, err := s.chapters.GetByID(ctx, payload.ChapterID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			span.SetStatus(codes.Error, "chapter not found")
			return dto.MaterialUploadResponse{}, ErrChapterNotFound
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, "chapter lookup failed")
			return dto.MaterialUploadResponse{}, err
		case chapter.CourseID != payload.CourseID:
			span.SetStatus(codes.Error, "chapter outside course")
			return dto.MaterialUploadResponse{}, ErrChapterNotFound
		}
		chapterID = &chapter.ID
	}

	stored, err := storeFile(ctx, s.storage, s.policy, file, "material")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.MaterialUploadResponse{}, err
	}
	span.SetAttributes(attribute.String("upload.mime_type", stored.MimeType))

	materialType := strings.ToLower(strings.TrimSpace(payload.Type))
	if materialType == "" {
		materialType = upload.TypeLabel(stored.MimeType)
	}

	material := models.Material{
		CourseID:  payload.CourseID,
		ChapterID: chapterID,
		Title:     payload.Title,
		Type:      materialType,
		FileURL:   stored.Location,
		FileSize:  stored.Size,
		MimeType:  stored.MimeType,
	}
	if err := s.materials.Create(ctx, &material); err != nil {
		discardFile(s.storage, s.logger, stored.Location)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.MaterialUploadResponse{}, fmt.Errorf("failed to record material: %w", err)
	}

	observability.Uploads().WithLabelValues("material", materialType).Inc()
	observability.UploadBytes().WithLabelValues("material").Observe(float64(stored.Size))
	span.SetStatus(codes.Ok, "stored")

	s.cache.Invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "material.uploaded",
		EntityType: "material",
		EntityID:   material.ID,
		Metadata: map[string]interface{}{
			"course_id": material.CourseID,
			"type":      material.Type,
			"file_size": material.FileSize,
		},
	})

	return dto.MaterialUploadResponse{ID: material.ID, FileURL: material.FileURL}, nil
}
