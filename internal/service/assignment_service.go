package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/auth"
	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
)

// AssignmentService lists and creates course assignments.
type AssignmentService interface {
	List(ctx context.Context, courseID string, caller auth.Identity) (dto.AssignmentListResponse, error)
	Create(ctx context.Context, actor ActivityActor, courseID string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	courses     repository.CourseRepository
	cache       *CourseListCache
	activity    ActivityRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	courses repository.CourseRepository,
	cache *CourseListCache,
	activity ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		courses:     courses,
		cache:       cache,
		activity:    activity,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, courseID string, caller auth.Identity) (dto.AssignmentListResponse, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	if caller.Role == models.RoleStudent {
		return s.annotate(ctx, assignments, caller.UserID)
	}
	return dto.AssignmentListResponse{Assignments: dto.NewAssignmentResponseSlice(assignments)}, nil
}

func (s *assignmentService) annotate(ctx context.Context, assignments []models.Assignment, studentID string) (dto.AssignmentListResponse, error) {
	ids := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.ID)
	}

	submissions, err := s.submissions.ListByStudent(ctx, studentID, ids)
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	byAssignment := make(map[string]models.Submission, len(submissions))
	for _, submission := range submissions {
		byAssignment[submission.AssignmentID] = submission
	}

	items := make([]dto.StudentAssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		item := dto.StudentAssignmentResponse{AssignmentResponse: dto.NewAssignmentResponse(assignment)}
		if submission, ok := byAssignment[assignment.ID]; ok {
			response := dto.NewSubmissionResponse(submission)
			item.Submitted = true
			item.Submission = &response
		}
		items = append(items, item)
	}

	return dto.AssignmentListResponse{Assignments: items}, nil
}

func (s *assignmentService) Create(ctx context.Context, actor ActivityActor, courseID string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	payload.DueDate = strings.TrimSpace(payload.DueDate)
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := payload.ParseDueDate()
	if err != nil {
		return dto.AssignmentResponse{}, ErrInvalidDueDate
	}

	exists, err := s.courses.Exists(ctx, courseID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if !exists {
		return dto.AssignmentResponse{}, ErrCourseNotFound
	}

	assignment := models.Assignment{
		CourseID:    courseID,
		Title:       payload.Title,
		Description: strings.TrimSpace(payload.Description),
		DueDate:     dueDate.UTC(),
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.cache.Invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "assignment.created",
		EntityType: "assignment",
		EntityID:   assignment.ID,
		Metadata:   map[string]interface{}{"course_id": courseID, "due_date": assignment.DueDate},
	})

	return dto.NewAssignmentResponse(assignment), nil
}
