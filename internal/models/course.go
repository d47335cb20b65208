package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseLevel is the academic level a course is offered at.
type CourseLevel string

const (
	CourseLevelUndergraduate CourseLevel = "undergraduate"
	CourseLevelGraduate      CourseLevel = "graduate"
)

// CourseStatus tracks whether a course is still running.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusArchived CourseStatus = "archived"
)

// Course is a single offering of a course code in a given semester.
type Course struct {
	ID          string       `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Code        string       `gorm:"size:32;not null;uniqueIndex:idx_courses_code_semester" json:"code"`
	Semester    string       `gorm:"size:64;not null;uniqueIndex:idx_courses_code_semester;index" json:"semester"`
	Level       CourseLevel  `gorm:"size:32;not null;index" json:"level"`
	Status      CourseStatus `gorm:"size:16;not null;default:active;index" json:"status"`
	Description string       `gorm:"type:text" json:"description"`
	Syllabus    string       `gorm:"type:text" json:"syllabus"`
	Schedule    string       `gorm:"size:128" json:"schedule"`
	Location    string       `gorm:"size:128" json:"location"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Chapters    []Chapter    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Materials   []Material   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Assignments []Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID and the default status.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CourseStatusActive
	}
	return nil
}

// Chapter groups materials inside a course.
type Chapter struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CourseID  string    `gorm:"type:char(36);not null;index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (Chapter) TableName() string {
	return "course_chapters"
}

// BeforeCreate assigns a UUID when none was provided.
func (ch *Chapter) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	return nil
}
