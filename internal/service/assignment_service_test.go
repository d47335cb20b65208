package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/auth"
	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
)

func TestAssignmentServiceListAnnotatesStudentSubmissions(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewCourseRepository(db),
		nil,
		nil,
		newValidator(),
		testLogger(),
	)
	ctx := context.Background()

	course := seedCourse(t, db, "CS1", "S")
	later := seedAssignment(t, db, course.ID, time.Now().Add(48*time.Hour))
	sooner := seedAssignment(t, db, course.ID, time.Now().Add(24*time.Hour))
	require.NoError(t, db.Create(&models.Submission{
		AssignmentID: later.ID,
		StudentID:    "student-1",
		FileURL:      "uploads/x.pdf",
		Status:       models.SubmissionStatusSubmitted,
		SubmitTime:   time.Now(),
	}).Error)

	student := auth.Identity{UserID: "student-1", Role: models.RoleStudent}
	response, err := svc.List(ctx, course.ID, student)
	require.NoError(t, err)

	items, ok := response.Assignments.([]dto.StudentAssignmentResponse)
	require.True(t, ok)
	require.Len(t, items, 2)
	require.Equal(t, sooner.ID, items[0].ID)
	require.False(t, items[0].Submitted)
	require.Nil(t, items[0].Submission)
	require.True(t, items[1].Submitted)
	require.NotNil(t, items[1].Submission)
	require.Equal(t, "uploads/x.pdf", items[1].Submission.FileURL)

	admin := auth.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	raw, err := svc.List(ctx, course.ID, admin)
	require.NoError(t, err)
	_, ok = raw.Assignments.([]dto.AssignmentResponse)
	require.True(t, ok)
}

func TestAssignmentServiceCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewCourseRepository(db),
		nil,
		nil,
		newValidator(),
		testLogger(),
	)
	ctx := context.Background()
	course := seedCourse(t, db, "CS1", "S")

	created, err := svc.Create(ctx, adminActor, course.ID, dto.AssignmentCreateRequest{Title: "Essay", DueDate: "2024-06-01T23:59:00+08:00"})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 6, 1, 15, 59, 0, 0, time.UTC), created.DueDate)

	_, err = svc.Create(ctx, adminActor, "missing", dto.AssignmentCreateRequest{Title: "Essay", DueDate: "2024-06-01T23:59:00Z"})
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.Create(ctx, adminActor, course.ID, dto.AssignmentCreateRequest{Title: "Essay", DueDate: "tomorrow"})
	require.Error(t, err)
}
