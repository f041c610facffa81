package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"athlos/internal/config"
	"athlos/internal/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAdminApp(t *testing.T, adminID uuid.UUID, requester *policy.Requester) *fiber.App {
	t.Helper()

	s := &Server{config: &config.Config{AdminProfileIDs: adminID.String()}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if requester != nil {
			c.Locals("requester", *requester)
		}
		return c.Next()
	})
	app.Post("/admin/ping", s.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestAdminRequired(t *testing.T) {
	adminID := uuid.New()

	t.Run("anonymous is denied", func(t *testing.T) {
		app := setupAdminApp(t, adminID, nil)

		req := httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("authenticated non-admin is denied", func(t *testing.T) {
		requester := policy.Requester{ProfileID: uuid.New(), Authenticated: true}
		app := setupAdminApp(t, adminID, &requester)

		req := httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("allow-listed admin passes", func(t *testing.T) {
		requester := policy.Requester{ProfileID: adminID, Authenticated: true}
		app := setupAdminApp(t, adminID, &requester)

		req := httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
