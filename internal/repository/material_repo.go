package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/coursehub-api/internal/models"
)

// MaterialRepository persists metadata about uploaded course files.
type MaterialRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Material, error)
	Create(ctx context.Context, material *models.Material) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository constructs a repository for material records.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Material, error) {
	materials := make([]models.Material, 0)
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("uploaded_at DESC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}
