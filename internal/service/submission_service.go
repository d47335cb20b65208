package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

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

// SubmissionService stores student hand-ins.
type SubmissionService interface {
	Submit(ctx context.Context, actor ActivityActor, assignmentID string, file *multipart.FileHeader) (dto.SubmitResponse, error)
}

type submissionService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	storage     FileStorage
	policy      upload.Policy
	activity    ActivityRecorder
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	storage FileStorage,
	policy upload.Policy,
	activity ActivityRecorder,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		assignments: assignments,
		submissions: submissions,
		storage:     storage,
		policy:      policy,
		activity:    activity,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/coursehub-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, actor ActivityActor, assignmentID string, file *multipart.FileHeader) (dto.SubmitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().WithLabelValues("submission").Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		span.SetStatus(codes.Error, "no file")
		return dto.SubmitResponse{}, ErrNoFile
	}
	span.SetAttributes(
		attribute.String("submission.assignment_id", assignmentID),
		attribute.Int64("upload.request_size", file.Size),
	)

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "assignment not found")
			return dto.SubmitResponse{}, ErrAssignmentNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "assignment lookup failed")
		return dto.SubmitResponse{}, err
	}

	submittedAt := s.now().UTC()
	status := models.StatusAt(assignment, submittedAt)
	span.SetAttributes(attribute.String("submission.status", string(status)))

	stored, err := storeFile(ctx, s.storage, s.policy, file, "submission")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.SubmitResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    actor.ID,
		FileURL:      stored.Location,
		FileSize:     stored.Size,
		Status:       status,
		SubmitTime:   submittedAt,
	}
	result, err := s.submissions.Upsert(ctx, &submission)
	if err != nil {
		discardFile(s.storage, s.logger, stored.Location)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.SubmitResponse{}, fmt.Errorf("failed to record submission: %w", err)
	}

	if result.PreviousFileURL != "" && result.PreviousFileURL != stored.Location {
		discardFile(s.storage, s.logger, result.PreviousFileURL)
	}

	observability.Uploads().WithLabelValues("submission", upload.TypeLabel(stored.MimeType)).Inc()
	observability.UploadBytes().WithLabelValues("submission").Observe(float64(stored.Size))
	span.SetStatus(codes.Ok, "stored")

	action := "submission.created"
	if !result.Created {
		action = "submission.updated"
	}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "submission",
		EntityID:   submission.ID,
		Metadata:   map[string]interface{}{"assignment_id": assignment.ID, "status": string(status)},
	})

	return dto.SubmitResponse{
		SubmissionID: submission.ID,
		Status:       string(submission.Status),
		Resubmitted:  !result.Created,
	}, nil
}
