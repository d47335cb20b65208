package dto

import (
	"time"

	"github.com/noah-isme/coursehub-api/internal/models"
)

// SubmissionResponse is the serialized submission row.
type SubmissionResponse struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	FileURL      string    `json:"file_url"`
	FileSize     int64     `json:"file_size"`
	Status       string    `json:"status"`
	SubmitTime   time.Time `json:"submit_time"`
}

// SubmitResponse is returned after a submission was stored.
type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Resubmitted  bool   `json:"resubmitted"`
}

// NewSubmissionResponse converts a submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		FileURL:      model.FileURL,
		FileSize:     model.FileSize,
		Status:       string(model.Status),
		SubmitTime:   model.SubmitTime,
	}
}
