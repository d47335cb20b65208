package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursehub-api/internal/dto"
	"github.com/noah-isme/coursehub-api/internal/models"
)

const seedPayload = `{"items":[
	{"title":"Operating Systems","code":"CS310","semester":"2024春季","level":"undergraduate"},
	{"title":"Distributed Systems","code":"CS610","semester":"2024春季","level":"graduate","status":"archived"}
]}`

func seedRequest(token, body string) *http.Request {
	req := jsonRequest(http.MethodPost, "/api/v1/seed/courses", body)
	if token != "" {
		req.Header.Set("X-Seed-Token", token)
	}
	return req
}

func TestSeedCourses(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, seedRequest(testSeedToken, seedPayload))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result dto.SeedResponse
	decodeData(t, resp, &result)
	require.Positive(t, result.Affected)

	// Seeding twice updates in place.
	resp = env.do(t, seedRequest(testSeedToken, seedPayload))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, env.db.Model(&models.Course{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestSeedCoursesRejectsBadTokenAndPayload(t *testing.T) {
	env := newTestEnv(t)

	requireError(t, env.do(t, seedRequest("", seedPayload)), fiber.StatusForbidden, "FORBIDDEN")
	requireError(t, env.do(t, seedRequest("wrong", seedPayload)), fiber.StatusForbidden, "FORBIDDEN")

	invalid := strings.Replace(seedPayload, `"level":"graduate"`, `"level":"doctoral"`, 1)
	requireError(t, env.do(t, seedRequest(testSeedToken, invalid)), fiber.StatusBadRequest, "VALIDATION_ERROR")
	requireError(t, env.do(t, seedRequest(testSeedToken, `{"items":`)), fiber.StatusBadRequest, "VALIDATION_ERROR")
}
