package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/coursehub-api/internal/models"
)

// ChapterRepository persists course chapters.
type ChapterRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Chapter, error)
	GetByID(ctx context.Context, id string) (models.Chapter, error)
	Create(ctx context.Context, chapter *models.Chapter) error
}

type chapterRepository struct {
	db *gorm.DB
}

// NewChapterRepository instantiates a GORM-backed repository.
func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Chapter, error) {
	chapters := make([]models.Chapter, 0)
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepository) GetByID(ctx context.Context, id string) (models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&chapter).Error; err != nil {
		return models.Chapter{}, err
	}
	return chapter, nil
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Create(chapter).Error
}
