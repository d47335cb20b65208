package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/noah-isme/coursehub-api/internal/auth"
	"github.com/noah-isme/coursehub-api/internal/config"
	"github.com/noah-isme/coursehub-api/internal/handler"
	"github.com/noah-isme/coursehub-api/internal/middleware"
	"github.com/noah-isme/coursehub-api/internal/models"
	"github.com/noah-isme/coursehub-api/internal/repository"
	"github.com/noah-isme/coursehub-api/internal/router"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/internal/upload"
)

const (
	testSeedToken     = "seed-secret"
	testUploadMaxSize = 4 * 1024
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	tokens  *auth.TokenManager
	storage *memoryStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.New(io.Discard)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Chapter{},
		&models.Material{},
		&models.Assignment{},
		&models.Submission{},
		&models.ActivityLog{},
	))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)
	policy := upload.NewPolicy(testUploadMaxSize)
	storage := newMemoryStorage()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	cache := service.NewCourseListCache(nil, time.Minute, logger)
	activityService := service.NewActivityService(activityRepo, nil, logger)
	seedService, err := service.NewSeedService(courseRepo, cache, true, testSeedToken, logger)
	require.NoError(t, err)

	guards := handler.Guards{
		Authenticate:     middleware.Authenticate(tokens),
		RequireAdmin:     middleware.RequireAdmin(),
		MaterialIntake:   middleware.FileIntake(policy, "file", "material"),
		SubmissionIntake: middleware.FileIntake(policy, "file", "submission"),
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(logger)})
	router.Register(app, config.Config{AppName: "Course Hub API", AppEnv: "test"}, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, validate, logger), logger),
		CourseHandler:     handler.NewCourseHandler(service.NewCourseService(courseRepo, chapterRepo, materialRepo, cache, activityService, validate, logger), guards, logger),
		MaterialHandler:   handler.NewMaterialHandler(service.NewMaterialService(materialRepo, courseRepo, chapterRepo, storage, policy, cache, activityService, validate, logger), guards, logger),
		AssignmentHandler: handler.NewAssignmentHandler(service.NewAssignmentService(assignmentRepo, submissionRepo, courseRepo, cache, activityService, validate, logger), guards, logger),
		SubmissionHandler: handler.NewSubmissionHandler(service.NewSubmissionService(assignmentRepo, submissionRepo, storage, policy, activityService, logger), guards, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, guards, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, logger),
		Database:          sqlDB,
	})

	return &testEnv{app: app, db: db, tokens: tokens, storage: storage}
}

func (e *testEnv) createUser(t *testing.T, email string, role models.Role) models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{Email: email, PasswordHash: hash, Name: "Test " + string(role), StudentID: "S-" + email, Role: role}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, _, err := e.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	require.NoError(t, err)
	return token
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	return e.tokenFor(t, e.createUser(t, "admin-"+uuid.NewString()[:8]+"@example.edu", models.RoleAdmin))
}

func (e *testEnv) seedCourse(t *testing.T, code, semester string, level models.CourseLevel) models.Course {
	t.Helper()
	course := models.Course{Title: "Course " + code, Code: code, Semester: semester, Level: level, Status: models.CourseStatusActive}
	require.NoError(t, e.db.Create(&course).Error)
	return course
}

func (e *testEnv) seedAssignment(t *testing.T, courseID string, due time.Time) models.Assignment {
	t.Helper()
	assignment := models.Assignment{CourseID: courseID, Title: "Homework", DueDate: due}
	require.NoError(t, e.db.Create(&assignment).Error)
	return assignment
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return e.do(t, req)
}

type filePart struct {
	filename    string
	contentType string
	content     []byte
}

func (e *testEnv) doMultipart(t *testing.T, path, token string, fields map[string]string, file *filePart) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, file.filename))
		if file.contentType != "" {
			header.Set("Content-Type", file.contentType)
		}
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return e.do(t, req)
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()

	var payload envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func decodeData(t *testing.T, resp *http.Response, target interface{}) envelope {
	t.Helper()
	payload := decodeEnvelope(t, resp)
	require.True(t, payload.Success, "expected success envelope, got %+v", payload.Error)
	require.NoError(t, json.Unmarshal(payload.Data, target))
	return payload
}

func requireError(t *testing.T, resp *http.Response, status int, code string) envelope {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)
	payload := decodeEnvelope(t, resp)
	require.False(t, payload.Success)
	require.NotNil(t, payload.Error)
	require.Equal(t, code, payload.Error.Code)
	return payload
}

// memoryStorage keeps uploaded files in memory.
type memoryStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
	counter int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	payload, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	location := fmt.Sprintf("uploads/%d-%s", m.counter, name)
	m.files[location] = payload
	return location, nil
}

func (m *memoryStorage) Remove(_ context.Context, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, location)
	m.removed = append(m.removed, location)
	return nil
}

func (m *memoryStorage) locations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for location := range m.files {
		out = append(out, location)
	}
	return out
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func jsonRequest(method, path, raw string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}
