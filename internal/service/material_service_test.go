package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
	"github.com/noah-isme/coursehub-api/internal/upload"
)

type failingMaterialRepo struct {
	repository.MaterialRepository
}

func (failingMaterialRepo) Create(context.Context, *models.Material) error {
	return errDatabaseDown
}

func newMaterialFixture(t *testing.T, materials func(db *gorm.DB) repository.MaterialRepository) (MaterialService, *gorm.DB, *memoryStorage) {
	t.Helper()
	db := newTestDB(t)
	storage := newMemoryStorage()
	svc := NewMaterialService(
		materials(db),
		repository.NewCourseRepository(db),
		repository.NewChapterRepository(db),
		storage,
		upload.NewPolicy(upload.DefaultMaxBytes),
		nil,
		nil,
		newValidator(),
		testLogger(),
	)
	return svc, db, storage
}

func TestMaterialServiceUploadStoresFileAndMetadata(t *testing.T) {
	svc, db, storage := newMaterialFixture(t, repository.NewMaterialRepository)
	ctx := context.Background()
	course := seedCourse(t, db, "CS1", "S")
	chapter := models.Chapter{CourseID: course.ID, Title: "Intro", Position: 1}
	require.NoError(t, db.Create(&chapter).Error)

	file := newFileHeader(t, "week1.pdf", "application/pdf", samplePDF)
	response, err := svc.Upload(ctx, adminActor, dto.MaterialUploadRequest{
		CourseID:  course.ID,
		ChapterID: chapter.ID,
		Title:     "Week 1 slides",
	}, file)
	require.NoError(t, err)
	require.NotEmpty(t, response.ID)
	require.True(t, storage.has(response.FileURL))

	var stored models.Material
	require.NoError(t, db.First(&stored, "id = ?", response.ID).Error)
	require.Equal(t, "pdf", stored.Type)
	require.Equal(t, "application/pdf", stored.MimeType)
	require.Equal(t, int64(len(samplePDF)), stored.FileSize)
	require.NotNil(t, stored.ChapterID)
	require.Equal(t, chapter.ID, *stored.ChapterID)

	listed, err := svc.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, listed.Materials, 1)
}

func TestMaterialServiceUploadSniffsGenericContentType(t *testing.T) {
	svc, db, _ := newMaterialFixture(t, repository.NewMaterialRepository)
	course := seedCourse(t, db, "CS1", "S")

	file := newFileHeader(t, "notes", "application/octet-stream", samplePDF)
	response, err := svc.Upload(context.Background(), adminActor, dto.MaterialUploadRequest{CourseID: course.ID, Title: "Notes"}, file)
	require.NoError(t, err)

	var stored models.Material
	require.NoError(t, db.First(&stored, "id = ?", response.ID).Error)
	require.Equal(t, "application/pdf", stored.MimeType)
}

func TestMaterialServiceUploadRejections(t *testing.T) {
	svc, db, storage := newMaterialFixture(t, repository.NewMaterialRepository)
	ctx := context.Background()
	course := seedCourse(t, db, "CS1", "S")
	other := seedCourse(t, db, "CS2", "S")
	foreignChapter := models.Chapter{CourseID: other.ID, Title: "Elsewhere"}
	require.NoError(t, db.Create(&foreignChapter).Error)

	_, err := svc.Upload(ctx, adminActor, dto.MaterialUploadRequest{CourseID: course.ID, Title: "T"}, nil)
	require.ErrorIs(t, err, ErrNoFile)

	pdf := newFileHeader(t, "a.pdf", "application/pdf", samplePDF)
	_, err = svc.Upload(ctx, adminActor, dto.MaterialUploadRequest{CourseID: "missing", Title: "T"}, pdf)
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.Upload(ctx, adminActor, dto.MaterialUploadRequest{CourseID: course.ID, ChapterID: foreignChapter.ID, Title: "T"}, pdf)
	require.ErrorIs(t, err, ErrChapterNotFound)

	text := newFileHeader(t, "a.txt", "text/plain", []byte("hello"))
	_, err = svc.Upload(ctx, adminActor, dto.MaterialUploadRequest{CourseID: course.ID, Title: "T"}, text)
	require.ErrorIs(t, err, upload.ErrTypeNotAllowed)

	require.Zero(t, storage.count())
}

func TestMaterialServiceRemovesFileWhenMetadataInsertFails(t *testing.T) {
	svc, db, storage := newMaterialFixture(t, func(db *gorm.DB) repository.MaterialRepository {
		return failingMaterialRepo{MaterialRepository: repository.NewMaterialRepository(db)}
	})
	course := seedCourse(t, db, "CS1", "S")

	file := newFileHeader(t, "a.pdf", "application/pdf", samplePDF)
	_, err := svc.Upload(context.Background(), adminActor, dto.MaterialUploadRequest{CourseID: course.ID, Title: "T"}, file)
	require.True(t, errors.Is(err, errDatabaseDown))
	require.Zero(t, storage.count())
	require.Len(t, storage.removed, 1)
}
