package handler_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
)

func TestUploadMaterialThenList(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	course := env.seedCourse(t, "CS500", "2024春季", models.CourseLevelUndergraduate)

	resp := env.doMultipart(t, "/api/v1/materials/upload", admin,
		map[string]string{"courseId": course.ID, "title": "Lecture 1", "type": "slides"},
		&filePart{filename: "lecture1.pdf", contentType: "application/pdf", content: samplePDF})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var uploaded dto.MaterialUploadResponse
	decodeData(t, resp, &uploaded)
	require.NotEmpty(t, uploaded.ID)
	require.NotEmpty(t, uploaded.FileURL)
	require.Equal(t, 1, env.storage.count())

	var list dto.MaterialListResponse
	decodeData(t, env.doJSON(t, http.MethodGet, "/api/v1/courses/"+course.ID+"/materials", "", nil), &list)
	require.Len(t, list.Materials, 1)
	require.Equal(t, "Lecture 1", list.Materials[0].Title)
	require.Equal(t, uploaded.FileURL, list.Materials[0].FileURL)
}

func TestUploadMaterialWithoutFile(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	course := env.seedCourse(t, "CS501", "2024春季", models.CourseLevelUndergraduate)

	resp := env.doMultipart(t, "/api/v1/materials/upload", admin,
		map[string]string{"courseId": course.ID, "title": "Lecture 1"}, nil)
	requireError(t, resp, fiber.StatusBadRequest, "NO_FILE")
}

func TestUploadMaterialRejectsDisallowedFiles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	course := env.seedCourse(t, "CS502", "2024春季", models.CourseLevelUndergraduate)
	fields := map[string]string{"courseId": course.ID, "title": "Notes"}

	resp := env.doMultipart(t, "/api/v1/materials/upload", admin, fields,
		&filePart{filename: "notes.txt", contentType: "text/plain", content: []byte("plain text")})
	requireError(t, resp, fiber.StatusBadRequest, "VALIDATION_ERROR")

	oversized := append(append([]byte{}, samplePDF...), bytes.Repeat([]byte("0"), testUploadMaxSize)...)
	resp = env.doMultipart(t, "/api/v1/materials/upload", admin, fields,
		&filePart{filename: "huge.pdf", contentType: "application/pdf", content: oversized})
	requireError(t, resp, fiber.StatusRequestEntityTooLarge, "VALIDATION_ERROR")

	// A generic declared type is resolved by sniffing the content.
	resp = env.doMultipart(t, "/api/v1/materials/upload", admin, fields,
		&filePart{filename: "notes.bin", contentType: "application/octet-stream", content: []byte("just some text")})
	requireError(t, resp, fiber.StatusBadRequest, "VALIDATION_ERROR")

	require.Zero(t, env.storage.count())
	var count int64
	require.NoError(t, env.db.Model(&models.Material{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUploadMaterialUnknownCourseOrChapter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	course := env.seedCourse(t, "CS503", "2024春季", models.CourseLevelUndergraduate)
	other := env.seedCourse(t, "CS504", "2024春季", models.CourseLevelUndergraduate)
	foreign := models.Chapter{CourseID: other.ID, Title: "Elsewhere"}
	require.NoError(t, env.db.Create(&foreign).Error)
	file := &filePart{filename: "lecture.pdf", contentType: "application/pdf", content: samplePDF}

	resp := env.doMultipart(t, "/api/v1/materials/upload", admin,
		map[string]string{"courseId": "missing", "title": "Lecture"}, file)
	requireError(t, resp, fiber.StatusNotFound, "NOT_FOUND")

	resp = env.doMultipart(t, "/api/v1/materials/upload", admin,
		map[string]string{"courseId": course.ID, "chapterId": foreign.ID, "title": "Lecture"}, file)
	requireError(t, resp, fiber.StatusNotFound, "NOT_FOUND")

	require.Zero(t, env.storage.count())
}

func TestUploadMaterialRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	student := env.tokenFor(t, env.createUser(t, "student@example.edu", models.RoleStudent))
	course := env.seedCourse(t, "CS505", "2024春季", models.CourseLevelUndergraduate)

	resp := env.doMultipart(t, "/api/v1/materials/upload", student,
		map[string]string{"courseId": course.ID, "title": "Lecture"},
		&filePart{filename: "lecture.pdf", contentType: "application/pdf", content: samplePDF})
	requireError(t, resp, fiber.StatusForbidden, "FORBIDDEN")
}
