package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessCheck(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/health/live", s.LivenessCheck)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessCheck_DatabaseOnly(t *testing.T) {
	db, _ := setupMockDB(t)

	// No redis client configured; readiness only requires the database.
	s := &Server{db: db}
	app := fiber.New()
	app.Get("/health/ready", s.ReadinessCheck)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
