package dto

import (
	"time"

	"github.com/noah-isme/coursehub-api/internal/models"
)

// MaterialUploadRequest holds the multipart form fields accompanying a material file.
type MaterialUploadRequest struct {
	CourseID  string `form:"courseId" validate:"required,max=36"`
	ChapterID string `form:"chapterId" validate:"omitempty,max=36"`
	Title     string `form:"title" validate:"required,max=255"`
	Type      string `form:"type" validate:"omitempty,max=32"`
}

// MaterialResponse is the serialized material row.
type MaterialResponse struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	ChapterID  *string   `json:"chapter_id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	FileURL    string    `json:"file_url"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MaterialUploadResponse is returned after a material was stored.
type MaterialUploadResponse struct {
	ID      string `json:"id"`
	FileURL string `json:"file_url"`
}

// MaterialListResponse wraps the materials of a course.
type MaterialListResponse struct {
	Materials []MaterialResponse `json:"materials"`
}

// NewMaterialResponse converts a model into a DTO.
func NewMaterialResponse(material models.Material) MaterialResponse {
	return MaterialResponse{
		ID:         material.ID,
		CourseID:   material.CourseID,
		ChapterID:  material.ChapterID,
		Title:      material.Title,
		Type:       material.Type,
		FileURL:    material.FileURL,
		FileSize:   material.FileSize,
		MimeType:   material.MimeType,
		UploadedAt: material.UploadedAt,
	}
}

// NewMaterialResponseSlice converts materials into DTOs.
func NewMaterialResponseSlice(materials []models.Material) []MaterialResponse {
	responses := make([]MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, NewMaterialResponse(material))
	}
	return responses
}
