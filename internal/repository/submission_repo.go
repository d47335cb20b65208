package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/coursehub-api/internal/models"
)

// UpsertResult reports what an upsert did.
type UpsertResult struct {
	Created         bool
	PreviousFileURL string
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	ListByStudent(ctx context.Context, studentID string, assignmentIDs []string) ([]models.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (models.Submission, error)
	Upsert(ctx context.Context, submission *models.Submission) (UpsertResult, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID string, assignmentIDs []string) ([]models.Submission, error) {
	submissions := make([]models.Submission, 0)
	if len(assignmentIDs) == 0 {
		return submissions, nil
	}

	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("assignment_id IN ?", assignmentIDs).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("student_id = ?", studentID).
		Take(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// Upsert keeps a single row per (assignment, student). An existing row is
// overwritten in place; the unique index resolves concurrent first submissions.
func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission) (UpsertResult, error) {
	var (
		result UpsertResult
		err    error
	)

	for attempt := 0; attempt < 2; attempt++ {
		result, err = r.upsertOnce(ctx, submission)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return result, err
		}
		submission.ID = ""
	}

	return result, translateDuplicate(err)
}

func (r *submissionRepository) upsertOnce(ctx context.Context, submission *models.Submission) (UpsertResult, error) {
	var result UpsertResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Submission
		err := tx.Where("assignment_id = ?", submission.AssignmentID).
			Where("student_id = ?", submission.StudentID).
			Take(&existing).Error

		switch {
		case err == nil:
			result.PreviousFileURL = existing.FileURL
			existing.FileURL = submission.FileURL
			existing.FileSize = submission.FileSize
			existing.Status = submission.Status
			existing.SubmitTime = submission.SubmitTime
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*submission = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(submission).Error; err != nil {
				return err
			}
			result.Created = true
			return nil
		default:
			return err
		}
	})

	return result, err
}
