package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/coursehub-api/internal/models"
)

// CourseFilter narrows course listings. Empty fields do not filter.
type CourseFilter struct {
	Semester string
	Level    string
	Status   string
}

// CourseSummary is a course with the number of related materials and assignments.
type CourseSummary struct {
	Course          models.Course
	MaterialCount   int64
	AssignmentCount int64
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]CourseSummary, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	Exists(ctx context.Context, id string) (bool, error)
	CreateUnique(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	UpsertBatch(ctx context.Context, courses []models.Course) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// courseListRow is one course row with its child counts attached.
type courseListRow struct {
	ID              string
	Title           string
	Code            string
	Semester        string
	Level           models.CourseLevel
	Status          models.CourseStatus
	Description     string
	Syllabus        string
	Schedule        string
	Location        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	MaterialCount   int64
	AssignmentCount int64
}

// List returns the matching courses newest first. Material and assignment
// counts come from correlated subqueries in the same statement.
func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]CourseSummary, error) {
	materials := (models.Material{}).TableName()
	query := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Select("courses.*, " +
			"(SELECT COUNT(*) FROM " + materials + " m WHERE m.course_id = courses.id) AS material_count, " +
			"(SELECT COUNT(*) FROM assignments a WHERE a.course_id = courses.id) AS assignment_count")

	if filter.Semester != "" {
		query = query.Where("courses.semester = ?", filter.Semester)
	}
	if filter.Level != "" {
		query = query.Where("courses.level = ?", filter.Level)
	}
	if filter.Status != "" {
		query = query.Where("courses.status = ?", filter.Status)
	}

	var rows []courseListRow
	if err := query.Order("courses.created_at DESC").Order("courses.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]CourseSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, CourseSummary{
			Course: models.Course{
				ID:          row.ID,
				Title:       row.Title,
				Code:        row.Code,
				Semester:    row.Semester,
				Level:       row.Level,
				Status:      row.Status,
				Description: row.Description,
				Syllabus:    row.Syllabus,
				Schedule:    row.Schedule,
				Location:    row.Location,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			},
			MaterialCount:   row.MaterialCount,
			AssignmentCount: row.AssignmentCount,
		})
	}

	return summaries, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&course).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUnique inserts the course unless (code, semester) is already taken.
func (r *courseRepository) CreateUnique(ctx context.Context, course *models.Course) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Course{}).
			Where("code = ? AND semester = ?", course.Code, course.Semester).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(course).Error
	})
	return translateDuplicate(err)
}

// Update overwrites the editable columns of an existing course.
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).
		Model(course).
		Select("title", "description", "syllabus", "status", "updated_at").
		Updates(course).Error
}

// UpsertBatch inserts courses or refreshes the ones matching (code, semester).
func (r *courseRepository) UpsertBatch(ctx context.Context, courses []models.Course) (int64, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}, {Name: "semester"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "level", "status", "description", "syllabus", "schedule", "location", "updated_at"}),
	}).Create(&courses)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
