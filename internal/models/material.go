package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Material is a file published for a course, optionally attached to a chapter.
type Material struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	CourseID   string    `gorm:"type:char(36);not null;index" json:"course_id"`
	ChapterID  *string   `gorm:"type:char(36);index" json:"chapter_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Type       string    `gorm:"size:32;not null" json:"type"`
	FileURL    string    `gorm:"size:512;not null" json:"file_url"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	MimeType   string    `gorm:"size:128" json:"mime_type"`
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

// TableName keeps the historical table name.
func (Material) TableName() string {
	return "course_materials"
}

// BeforeCreate assigns a UUID when none was provided.
func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
