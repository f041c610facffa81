package service

import (
	"context"
	"testing"

	"athlos/internal/models"
	"athlos/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	createFn        func(context.Context, *models.Profile) error
	getByIDFn       func(context.Context, uuid.UUID, policy.Requester) (*models.Profile, error)
	getByHandleFn   func(context.Context, string, policy.Requester) (*models.Profile, error)
	getVisibilityFn func(context.Context, uuid.UUID) (models.Visibility, error)
	handleTakenFn   func(context.Context, string, uuid.UUID) (bool, error)
	updateFn        func(context.Context, *models.Profile) error
	searchFn        func(context.Context, string, int, int, policy.Requester) ([]*models.Profile, error)
	deleteFn        func(context.Context, uuid.UUID) error
}

func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id uuid.UUID, requester policy.Requester) (*models.Profile, error) {
	return s.getByIDFn(ctx, id, requester)
}
func (s *profileRepoStub) GetByHandle(ctx context.Context, handle string, requester policy.Requester) (*models.Profile, error) {
	return s.getByHandleFn(ctx, handle, requester)
}
func (s *profileRepoStub) GetVisibility(ctx context.Context, id uuid.UUID) (models.Visibility, error) {
	return s.getVisibilityFn(ctx, id)
}
func (s *profileRepoStub) HandleTaken(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error) {
	return s.handleTakenFn(ctx, handle, excludeID)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) Search(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Profile, error) {
	return s.searchFn(ctx, query, limit, offset, requester)
}
func (s *profileRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn: func(_ context.Context, _ *models.Profile) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID, _ policy.Requester) (*models.Profile, error) {
			return &models.Profile{ID: id}, nil
		},
		getByHandleFn: func(_ context.Context, _ string, _ policy.Requester) (*models.Profile, error) {
			return &models.Profile{}, nil
		},
		getVisibilityFn: func(_ context.Context, _ uuid.UUID) (models.Visibility, error) {
			return models.VisibilityPublic, nil
		},
		handleTakenFn: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) { return false, nil },
		updateFn:      func(_ context.Context, _ *models.Profile) error { return nil },
		searchFn: func(_ context.Context, _ string, _, _ int, _ policy.Requester) ([]*models.Profile, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
}

func TestParseMentionIDs_SkipsLegacyEntries(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	tags := []string{a.String(), "training", b.String(), "not a uuid", a.String()}

	ids := ParseMentionIDs(context.Background(), tags)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestParseMentionIDs_AllLegacy(t *testing.T) {
	ids := ParseMentionIDs(context.Background(), []string{"swimming", "pb", "5k"})
	assert.Empty(t, ids)
}

func TestValidateTags(t *testing.T) {
	assert.NoError(t, ValidateTags(nil))
	assert.NoError(t, ValidateTags([]string{uuid.New().String()}))
	assertCode(t, ValidateTags([]string{"training"}), models.CodeValidationFailed)
}

func TestMentionService_ResolveMentions_HidesUnreadableProfiles(t *testing.T) {
	visible := uuid.New()
	hidden := uuid.New()

	repo := noopProfileRepo()
	repo.getByIDFn = func(_ context.Context, id uuid.UUID, _ policy.Requester) (*models.Profile, error) {
		if id == hidden {
			return nil, models.NewNotFoundError("Profile")
		}
		return &models.Profile{ID: id}, nil
	}

	svc := NewMentionService(repo)
	tags := []string{visible.String(), hidden.String(), "legacy label"}

	profiles, err := svc.ResolveMentions(context.Background(), tags, policy.Anonymous)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, visible, profiles[0].ID)
}
