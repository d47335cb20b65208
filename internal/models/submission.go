package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionStatus records whether work arrived before the deadline.
type SubmissionStatus string

const (
	// SubmissionStatusSubmitted indicates the work arrived on time.
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	// SubmissionStatusLate indicates the work arrived after the due date.
	SubmissionStatusLate SubmissionStatus = "late"
)

// StatusAt derives the submission status for work handed in at the given instant.
func StatusAt(assignment Assignment, at time.Time) SubmissionStatus {
	if assignment.IsPastDue(at) {
		return SubmissionStatusLate
	}
	return SubmissionStatusSubmitted
}

// Submission is the single current hand-in of a student for an assignment.
type Submission struct {
	ID           string           `gorm:"type:char(36);primaryKey" json:"id"`
	AssignmentID string           `gorm:"type:char(36);not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	StudentID    string           `gorm:"type:char(36);not null;uniqueIndex:idx_submissions_assignment_student;index" json:"student_id"`
	FileURL      string           `gorm:"size:512;not null" json:"file_url"`
	FileSize     int64            `json:"file_size"`
	Status       SubmissionStatus `gorm:"size:16;not null" json:"status"`
	SubmitTime   time.Time        `gorm:"not null" json:"submit_time"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was provided.
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
