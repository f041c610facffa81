package service

import (
	"context"
	"errors"
	"testing"

	"athlos/internal/models"
	"athlos/internal/policy"
	"athlos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint, policy.Requester) (*models.Post, error)
	getByProfileIDFn func(context.Context, uuid.UUID, int, int, policy.Requester) ([]*models.Post, error)
	listFn           func(context.Context, int, int, policy.Requester) ([]*models.Post, error)
	searchFn         func(context.Context, string, int, int, policy.Requester) ([]*models.Post, error)
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
	likeFn           func(context.Context, uint, policy.Requester) error
	unlikeFn         func(context.Context, uint, policy.Requester) error
	saveFn           func(context.Context, uint, policy.Requester) error
	unsaveFn         func(context.Context, uint, policy.Requester) error
	getSavedFn       func(context.Context, int, int, policy.Requester) ([]*models.Post, error)
	repairCounterFn  func(context.Context, repository.PostCounter) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, requester policy.Requester) (*models.Post, error) {
	return s.getByIDFn(ctx, id, requester)
}
func (s *postRepoStub) GetByProfileID(ctx context.Context, profileID uuid.UUID, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	return s.getByProfileIDFn(ctx, profileID, limit, offset, requester)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, requester)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, requester)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, postID uint, requester policy.Requester) error {
	return s.likeFn(ctx, postID, requester)
}
func (s *postRepoStub) Unlike(ctx context.Context, postID uint, requester policy.Requester) error {
	return s.unlikeFn(ctx, postID, requester)
}
func (s *postRepoStub) Save(ctx context.Context, postID uint, requester policy.Requester) error {
	return s.saveFn(ctx, postID, requester)
}
func (s *postRepoStub) Unsave(ctx context.Context, postID uint, requester policy.Requester) error {
	return s.unsaveFn(ctx, postID, requester)
}
func (s *postRepoStub) GetSaved(ctx context.Context, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	return s.getSavedFn(ctx, limit, offset, requester)
}
func (s *postRepoStub) RepairCounter(ctx context.Context, counter repository.PostCounter) (int64, error) {
	return s.repairCounterFn(ctx, counter)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint, _ policy.Requester) (*models.Post, error) {
			return &models.Post{}, nil
		},
		getByProfileIDFn: func(_ context.Context, _ uuid.UUID, _, _ int, _ policy.Requester) ([]*models.Post, error) {
			return nil, nil
		},
		listFn: func(_ context.Context, _, _ int, _ policy.Requester) ([]*models.Post, error) { return nil, nil },
		searchFn: func(_ context.Context, _ string, _, _ int, _ policy.Requester) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		likeFn:          func(_ context.Context, _ uint, _ policy.Requester) error { return nil },
		unlikeFn:        func(_ context.Context, _ uint, _ policy.Requester) error { return nil },
		saveFn:          func(_ context.Context, _ uint, _ policy.Requester) error { return nil },
		unsaveFn:        func(_ context.Context, _ uint, _ policy.Requester) error { return nil },
		getSavedFn:      func(_ context.Context, _, _ int, _ policy.Requester) ([]*models.Post, error) { return nil, nil },
		repairCounterFn: func(_ context.Context, _ repository.PostCounter) (int64, error) { return 0, nil },
	}
}

// assertCode asserts that err is an AppError with the given taxonomy code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestPostService_CreatePost_RejectsMalformedTags(t *testing.T) {
	svc := NewPostService(noopPostRepo(), nil)
	requester := policy.ForProfile(uuid.New())

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Requester: requester,
		Caption:   "morning intervals",
		Tags:      []string{"not-a-profile-id"},
	})
	assertCode(t, err, models.CodeValidationFailed)
}

func TestPostService_CreatePost_AcceptsMentionTags(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 42
		created = post
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint, _ policy.Requester) (*models.Post, error) {
		return created, nil
	}

	svc := NewPostService(repo, nil)
	requester := policy.ForProfile(uuid.New())
	mention := uuid.New().String()

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		Requester: requester,
		Caption:   "race day",
		Tags:      []string{mention},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), post.ID)
	assert.Equal(t, []string{mention}, []string(post.Tags))
	assert.Equal(t, models.VisibilityPublic, post.Visibility)
}

func TestPostService_CreatePost_RequiresAuth(t *testing.T) {
	svc := NewPostService(noopPostRepo(), nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Requester: policy.Anonymous,
		Caption:   "anonymous post",
	})
	assertCode(t, err, models.CodePolicyDenied)
}

func TestPostService_UpdatePost_OwnerOnly(t *testing.T) {
	owner := uuid.New()
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint, _ policy.Requester) (*models.Post, error) {
		return &models.Post{ID: 1, ProfileID: owner}, nil
	}

	svc := NewPostService(repo, nil)
	caption := "edited"

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		Requester: policy.ForProfile(uuid.New()),
		PostID:    1,
		Caption:   &caption,
	})
	assertCode(t, err, models.CodePolicyDenied)
}

func TestPostService_DeletePost_OwnerOnly(t *testing.T) {
	owner := uuid.New()
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint, _ policy.Requester) (*models.Post, error) {
		return &models.Post{ID: 1, ProfileID: owner}, nil
	}
	deleted := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}

	svc := NewPostService(repo, nil)

	err := svc.DeletePost(context.Background(), 1, policy.ForProfile(uuid.New()))
	assertCode(t, err, models.CodePolicyDenied)
	assert.False(t, deleted)

	err = svc.DeletePost(context.Background(), 1, policy.ForProfile(owner))
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestPostService_LikePost_PropagatesConflict(t *testing.T) {
	repo := noopPostRepo()
	repo.likeFn = func(_ context.Context, _ uint, _ policy.Requester) error {
		return models.NewConstraintViolationError("Like already exists")
	}

	svc := NewPostService(repo, nil)

	_, err := svc.LikePost(context.Background(), 7, policy.ForProfile(uuid.New()))
	assertCode(t, err, models.CodeConstraintViolation)
}

func TestPostService_SearchPosts_RequiresQuery(t *testing.T) {
	svc := NewPostService(noopPostRepo(), nil)

	_, err := svc.SearchPosts(context.Background(), "", 20, 0, policy.Anonymous)
	assertCode(t, err, models.CodeValidationFailed)
}
