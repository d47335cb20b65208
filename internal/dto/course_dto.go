package dto

import (
	"time"

	"github.com/noah-isme/coursehub-api/internal/models"
)

// CourseListRequest holds the optional course list filters.
type CourseListRequest struct {
	Semester string `query:"semester" validate:"omitempty,max=64"`
	Level    string `query:"level" validate:"omitempty,oneof=all undergraduate graduate"`
	Status   string `query:"status" validate:"omitempty,oneof=active archived"`
}

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Code        string `json:"code" validate:"required,max=32"`
	Semester    string `json:"semester" validate:"required,max=64"`
	Level       string `json:"level" validate:"required,oneof=undergraduate graduate"`
	Description string `json:"description" validate:"omitempty,max=20000"`
	Syllabus    string `json:"syllabus" validate:"omitempty,max=20000"`
	Schedule    string `json:"schedule" validate:"omitempty,max=128"`
	Location    string `json:"location" validate:"omitempty,max=128"`
}

// CourseUpdateRequest overwrites the supplied editable fields of a course.
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=20000"`
	Syllabus    *string `json:"syllabus" validate:"omitempty,max=20000"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

// CourseResponse is the serialized course row.
type CourseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Semester    string    `json:"semester"`
	Level       string    `json:"level"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Syllabus    string    `json:"syllabus"`
	Schedule    string    `json:"schedule"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseSummaryResponse is a listed course with related record counts.
type CourseSummaryResponse struct {
	CourseResponse
	MaterialCount   int64 `json:"material_count"`
	AssignmentCount int64 `json:"assignment_count"`
}

// CourseListResponse wraps the full, unpaginated course list.
type CourseListResponse struct {
	Courses []CourseSummaryResponse `json:"courses"`
	Total   int                     `json:"total"`
}

// ChapterCreateRequest describes a new chapter.
type ChapterCreateRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	Order int    `json:"order" validate:"gte=0"`
}

// ChapterResponse is the serialized chapter row.
type ChapterResponse struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// CourseDetailResponse is a course with its chapters and materials.
type CourseDetailResponse struct {
	CourseResponse
	Chapters  []ChapterResponse  `json:"chapters"`
	Materials []MaterialResponse `json:"materials"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Code:        course.Code,
		Semester:    course.Semester,
		Level:       string(course.Level),
		Status:      string(course.Status),
		Description: course.Description,
		Syllabus:    course.Syllabus,
		Schedule:    course.Schedule,
		Location:    course.Location,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}

// NewChapterResponse converts a chapter model into a DTO.
func NewChapterResponse(chapter models.Chapter) ChapterResponse {
	return ChapterResponse{
		ID:       chapter.ID,
		CourseID: chapter.CourseID,
		Title:    chapter.Title,
		Order:    chapter.Position,
	}
}

// NewChapterResponseSlice converts chapters into DTOs.
func NewChapterResponseSlice(chapters []models.Chapter) []ChapterResponse {
	responses := make([]ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		responses = append(responses, NewChapterResponse(chapter))
	}
	return responses
}
