package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"athlos/internal/config"
	"athlos/internal/models"
	"athlos/internal/policy"
	"athlos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProfileRepository is a mock of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID, requester policy.Requester) (*models.Profile, error) {
	args := m.Called(ctx, id, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByHandle(ctx context.Context, handle string, requester policy.Requester) (*models.Profile, error) {
	args := m.Called(ctx, handle, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetVisibility(ctx context.Context, id uuid.UUID) (models.Visibility, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Visibility), args.Error(1)
}

func (m *MockProfileRepository) HandleTaken(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, handle, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Search(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Profile, error) {
	args := m.Called(ctx, query, limit, offset, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupProfileApp(t *testing.T, repo *MockProfileRepository) *fiber.App {
	t.Helper()

	cfg := &config.Config{}
	s := &Server{config: cfg}
	s.profileService = service.NewProfileService(repo, cfg)

	app := fiber.New()
	app.Get("/profiles/:id", s.GetProfile)
	app.Get("/profiles/handle/:handle", s.GetProfileByHandle)
	return app
}

func TestGetProfile(t *testing.T) {
	id := uuid.New()
	repo := new(MockProfileRepository)
	repo.On("GetByID", mock.Anything, id, policy.Anonymous).
		Return(&models.Profile{ID: id, Handle: strPtr("runner42")}, nil)

	app := setupProfileApp(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/profiles/"+id.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestGetProfile_NotFound(t *testing.T) {
	id := uuid.New()
	repo := new(MockProfileRepository)
	repo.On("GetByID", mock.Anything, id, policy.Anonymous).
		Return(nil, models.NewNotFoundError("Profile"))

	app := setupProfileApp(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/profiles/"+id.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetProfileByHandle(t *testing.T) {
	id := uuid.New()
	repo := new(MockProfileRepository)
	repo.On("GetByHandle", mock.Anything, "runner42", policy.Anonymous).
		Return(&models.Profile{ID: id, Handle: strPtr("runner42")}, nil)

	app := setupProfileApp(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/profiles/handle/runner42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	repo.AssertExpectations(t)
}

func strPtr(s string) *string { return &s }
