package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
)

// CourseService exposes course catalogue use cases.
type CourseService interface {
	List(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error)
	Get(ctx context.Context, id string) (dto.CourseDetailResponse, error)
	Create(ctx context.Context, actor ActivityActor, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, actor ActivityActor, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	CreateChapter(ctx context.Context, actor ActivityActor, courseID string, payload dto.ChapterCreateRequest) (dto.ChapterResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	chapters  repository.ChapterRepository
	materials repository.MaterialRepository
	cache     *CourseListCache
	activity  ActivityRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(
	courses repository.CourseRepository,
	chapters repository.ChapterRepository,
	materials repository.MaterialRepository,
	cache *CourseListCache,
	activity ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:   courses,
		chapters:  chapters,
		materials: materials,
		cache:     cache,
		activity:  activity,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error) {
	req.Semester = strings.TrimSpace(req.Semester)
	req.Level = strings.ToLower(strings.TrimSpace(req.Level))
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseListResponse{}, err
	}

	filter := repository.CourseFilter{
		Semester: req.Semester,
		Level:    req.Level,
		Status:   req.Status,
	}
	if filter.Level == "all" {
		filter.Level = ""
	}

	cacheKey := fmt.Sprintf("%s|%s|%s", filter.Semester, filter.Level, filter.Status)
	cached, versionedKey, ok := s.cache.Get(ctx, cacheKey)
	if ok {
		return cached, nil
	}

	summaries, err := s.courses.List(ctx, filter)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	items := make([]dto.CourseSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, dto.CourseSummaryResponse{
			CourseResponse:  dto.NewCourseResponse(summary.Course),
			MaterialCount:   summary.MaterialCount,
			AssignmentCount: summary.AssignmentCount,
		})
	}

	response := dto.CourseListResponse{Courses: items, Total: len(items)}
	s.cache.Set(ctx, versionedKey, response)

	return response, nil
}

func (s *courseService) Get(ctx context.Context, id string) (dto.CourseDetailResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseDetailResponse{}, ErrCourseNotFound
		}
		return dto.CourseDetailResponse{}, err
	}

	chapters, err := s.chapters.ListByCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseDetailResponse{}, err
	}

	materials, err := s.materials.ListByCourse(ctx, course.ID)
	if err != nil {
		return dto.CourseDetailResponse{}, err
	}

	return dto.CourseDetailResponse{
		CourseResponse: dto.NewCourseResponse(course),
		Chapters:       dto.NewChapterResponseSlice(chapters),
		Materials:      dto.NewMaterialResponseSlice(materials),
	}, nil
}

func (s *courseService) Create(ctx context.Context, actor ActivityActor, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Code = strings.TrimSpace(payload.Code)
	payload.Semester = strings.TrimSpace(payload.Semester)
	payload.Level = strings.ToLower(strings.TrimSpace(payload.Level))
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:       payload.Title,
		Code:        payload.Code,
		Semester:    payload.Semester,
		Level:       models.CourseLevel(payload.Level),
		Status:      models.CourseStatusActive,
		Description: s.sanitize(payload.Description),
		Syllabus:    s.sanitize(payload.Syllabus),
		Schedule:    strings.TrimSpace(payload.Schedule),
		Location:    strings.TrimSpace(payload.Location),
	}

	if err := s.courses.CreateUnique(ctx, &course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.CourseResponse{}, ErrDuplicateCourse
		}
		return dto.CourseResponse{}, fmt.Errorf("failed to create course: %w", err)
	}

	s.cache.Invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "course.created",
		EntityType: "course",
		EntityID:   course.ID,
		Metadata:   map[string]interface{}{"code": course.Code, "semester": course.Semester},
	})
	s.logger.Info().Str("course_id", course.ID).Str("code", course.Code).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, actor ActivityActor, id string, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if payload.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*payload.Status))
		payload.Status = &status
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	changed := make([]string, 0, 4)
	if payload.Title != nil {
		course.Title = strings.TrimSpace(*payload.Title)
		changed = append(changed, "title")
	}
	if payload.Description != nil {
		course.Description = s.sanitize(*payload.Description)
		changed = append(changed, "description")
	}
	if payload.Syllabus != nil {
		course.Syllabus = s.sanitize(*payload.Syllabus)
		changed = append(changed, "syllabus")
	}
	if payload.Status != nil {
		course.Status = models.CourseStatus(*payload.Status)
		changed = append(changed, "status")
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, fmt.Errorf("failed to update course: %w", err)
	}

	s.cache.Invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "course.updated",
		EntityType: "course",
		EntityID:   course.ID,
		Metadata:   map[string]interface{}{"fields": changed},
	})

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) CreateChapter(ctx context.Context, actor ActivityActor, courseID string, payload dto.ChapterCreateRequest) (dto.ChapterResponse, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChapterResponse{}, err
	}

	exists, err := s.courses.Exists(ctx, courseID)
	if err != nil {
		return dto.ChapterResponse{}, err
	}
	if !exists {
		return dto.ChapterResponse{}, ErrCourseNotFound
	}

	chapter := models.Chapter{
		CourseID: courseID,
		Title:    payload.Title,
		Position: payload.Order,
	}
	if err := s.chapters.Create(ctx, &chapter); err != nil {
		return dto.ChapterResponse{}, fmt.Errorf("failed to create chapter: %w", err)
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "chapter.created",
		EntityType: "chapter",
		EntityID:   chapter.ID,
		Metadata:   map[string]interface{}{"course_id": courseID, "order": chapter.Position},
	})

	return dto.NewChapterResponse(chapter), nil
}

func (s *courseService) sanitize(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}
