package service

import (
	"bytes"
	"context"
	"crypto/subtle"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrSeedPayloadInvalid indicates the payload does not match the seed schema.
	ErrSeedPayloadInvalid = errors.New("seed payload does not match schema")
)

//go:embed schemas/seed_courses.schema.json
var seedCoursesSchema string

// SeedService loads the demo course catalogue.
type SeedService interface {
	SeedCourses(ctx context.Context, token string, payload []byte) (dto.SeedResponse, error)
}

type seedService struct {
	courses repository.CourseRepository
	cache   *CourseListCache
	schema  *jsonschema.Schema
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(courses repository.CourseRepository, cache *CourseListCache, enabled bool, token string, logger zerolog.Logger) (SeedService, error) {
	schema, err := jsonschema.CompileString("seed_courses.schema.json", seedCoursesSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile seed schema: %w", err)
	}

	return &seedService{
		courses: courses,
		cache:   cache,
		schema:  schema,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}, nil
}

func (s *seedService) SeedCourses(ctx context.Context, token string, payload []byte) (dto.SeedResponse, error) {
	if !s.enabled {
		return dto.SeedResponse{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return dto.SeedResponse{}, ErrSeedUnauthorized
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var document interface{}
	if err := decoder.Decode(&document); err != nil {
		return dto.SeedResponse{}, fmt.Errorf("%w: %v", ErrSeedPayloadInvalid, err)
	}
	if err := s.schema.Validate(document); err != nil {
		return dto.SeedResponse{}, fmt.Errorf("%w: %v", ErrSeedPayloadInvalid, err)
	}

	var request dto.SeedCoursesRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return dto.SeedResponse{}, fmt.Errorf("%w: %v", ErrSeedPayloadInvalid, err)
	}

	affected, err := s.courses.UpsertBatch(ctx, normalizeSeedCourses(request.Items))
	if err != nil {
		return dto.SeedResponse{}, err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info().Int64("affected", affected).Msg("courses seeded")
	return dto.SeedResponse{Affected: affected}, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func normalizeSeedCourses(items []dto.SeedCourse) []models.Course {
	courses := make([]models.Course, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, item := range items {
		status := models.CourseStatus(item.Status)
		if status == "" {
			status = models.CourseStatusActive
		}
		course := models.Course{
			Title:       strings.TrimSpace(item.Title),
			Code:        strings.TrimSpace(item.Code),
			Semester:    strings.TrimSpace(item.Semester),
			Level:       models.CourseLevel(item.Level),
			Status:      status,
			Description: item.Description,
			Syllabus:    item.Syllabus,
			Schedule:    item.Schedule,
			Location:    item.Location,
		}

		key := course.Code + "\x00" + course.Semester
		if index, ok := seen[key]; ok {
			courses[index] = course
			continue
		}
		seen[key] = len(courses)
		courses = append(courses, course)
	}
	return courses
}
