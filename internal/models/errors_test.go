package models

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondBody(t *testing.T, err error) (int, string) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, err)
	})

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	return resp.StatusCode, string(body)
}

func TestRespondWithError_StatusByCode(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewConstraintViolationError("Already liked"), http.StatusConflict},
		{NewPolicyDeniedError("Authentication required"), http.StatusForbidden},
		{NewValidationError("Handle too short"), http.StatusBadRequest},
		{NewNotFoundError("Post"), http.StatusNotFound},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := respondBody(t, tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
	}
}

func TestRespondWithError_HidesWrappedCause(t *testing.T) {
	cause := errors.New(`pq: duplicate key value violates unique constraint "idx_like_post_profile"`)

	status, body := respondBody(t, NewInternalError(cause))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "Internal server error")
	assert.NotContains(t, body, "duplicate key")
	assert.NotContains(t, body, "idx_like_post_profile")
}

func TestRespondWithError_HidesUnclassifiedErrors(t *testing.T) {
	status, body := respondBody(t, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body, "10.0.0.5")
}
