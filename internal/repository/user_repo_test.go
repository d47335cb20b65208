package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/models"
)

func TestUserRepositoryCreateUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := models.User{Email: "li@example.edu", PasswordHash: "hash", Name: "Li", StudentID: "2024001"}
	require.NoError(t, repo.CreateUnique(ctx, &user))
	require.NotEmpty(t, user.ID)
	require.Equal(t, models.RoleStudent, user.Role)

	dup := models.User{Email: "li@example.edu", PasswordHash: "hash", Name: "Other"}
	require.ErrorIs(t, repo.CreateUnique(ctx, &dup), ErrDuplicate)

	found, err := repo.GetByEmail(ctx, "li@example.edu")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)
	require.Nil(t, found.LastLogin)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(ctx, user.ID, now))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLogin)
	require.WithinDuration(t, now, *reloaded.LastLogin, time.Second)
}

func TestChapterAndMaterialOrdering(t *testing.T) {
	db := setupTestDB(t)
	chapters := NewChapterRepository(db)
	materials := NewMaterialRepository(db)
	ctx := context.Background()

	course := models.Course{Title: "C", Code: "C1", Semester: "S", Level: models.CourseLevelGraduate}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, chapters.Create(ctx, &models.Chapter{CourseID: course.ID, Title: "Second", Position: 2}))
	require.NoError(t, chapters.Create(ctx, &models.Chapter{CourseID: course.ID, Title: "First", Position: 1}))

	listed, err := chapters.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "First", listed[0].Title)

	older := models.Material{CourseID: course.ID, Title: "Older", Type: "pdf", FileURL: "a", UploadedAt: time.Now().Add(-time.Hour)}
	newer := models.Material{CourseID: course.ID, Title: "Newer", Type: "pdf", FileURL: "b", UploadedAt: time.Now()}
	require.NoError(t, materials.Create(ctx, &older))
	require.NoError(t, materials.Create(ctx, &newer))

	files, err := materials.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "Newer", files[0].Title)
}

func TestActivityLogRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	for _, action := range []string{"course.created", "course.updated", "material.uploaded"} {
		require.NoError(t, repo.Create(ctx, &models.ActivityLog{ActorID: "admin-1", ActorRole: "admin", Action: action, EntityType: "course"}))
	}

	entries, total, err := repo.List(ctx, ActivityLogFilter{Action: "course.updated"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)

	paged, total, err := repo.List(ctx, ActivityLogFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
}
