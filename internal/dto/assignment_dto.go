package dto

import (
	"time"

	"github.com/noah-isme/coursehub-api/internal/models"
)

const isoLayout = time.RFC3339

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=20000"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// ParseDueDate converts the RFC3339 due date.
func (r AssignmentCreateRequest) ParseDueDate() (time.Time, error) {
	return time.Parse(isoLayout, r.DueDate)
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StudentAssignmentResponse annotates an assignment with the caller's own submission.
type StudentAssignmentResponse struct {
	AssignmentResponse
	Submitted  bool                `json:"submitted"`
	Submission *SubmissionResponse `json:"submission"`
}

// AssignmentListResponse wraps assignments of a course. Items are either
// AssignmentResponse or StudentAssignmentResponse depending on the caller.
type AssignmentListResponse struct {
	Assignments interface{} `json:"assignments"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
