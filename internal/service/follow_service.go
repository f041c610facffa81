package service

import (
	"context"

	"athlos/internal/models"
	"athlos/internal/policy"
	"athlos/internal/repository"

	"github.com/google/uuid"
)

// FollowService implements the follow request lifecycle.
type FollowService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
}

// NewFollowService creates a new follow service.
func NewFollowService(followRepo repository.FollowRepository, profileRepo repository.ProfileRepository) *FollowService {
	return &FollowService{followRepo: followRepo, profileRepo: profileRepo}
}

// RequestFollow creates a follow from the requester to target. Following a
// public profile is accepted immediately; followers/private profiles get a
// pending request the target must decide on. Self-follows are rejected before
// any row is written.
func (s *FollowService) RequestFollow(ctx context.Context, target uuid.UUID, requester policy.Requester) (*models.Follow, error) {
	if !requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	if requester.ProfileID == target {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	// The target of a fresh request is usually not readable to the requester
	// yet (that is what the follow is for), so the lookup must bypass the
	// readability scope. Only the visibility value is consulted.
	visibility, err := s.profileRepo.GetVisibility(ctx, target)
	if err != nil {
		return nil, err
	}

	existing, err := s.followRepo.GetBetween(ctx, requester.ProfileID, target)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConstraintViolationError("Follow already exists")
	}

	status := models.FollowStatusPending
	if visibility == models.VisibilityPublic {
		status = models.FollowStatusAccepted
	}

	follow := &models.Follow{
		FollowerID:  requester.ProfileID,
		FollowingID: target,
		Status:      status,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return nil, err
	}
	return follow, nil
}

// RespondToFollow lets the target of a pending request accept or reject it.
func (s *FollowService) RespondToFollow(ctx context.Context, followID uint, accept bool, requester policy.Requester) (*models.Follow, error) {
	follow, err := s.followRepo.GetByID(ctx, followID, requester)
	if err != nil {
		return nil, err
	}
	if !requester.Owns(follow.FollowingID) {
		return nil, models.NewPolicyDeniedError("Only the requested profile can respond to a follow request")
	}
	if follow.Status != models.FollowStatusPending {
		return nil, models.NewValidationError("Follow request has already been decided")
	}

	status := models.FollowStatusRejected
	if accept {
		status = models.FollowStatusAccepted
	}
	if err := s.followRepo.UpdateStatus(ctx, followID, status); err != nil {
		return nil, err
	}
	follow.Status = status
	return follow, nil
}

// Unfollow removes the requester's follow of target; removing a follow that
// does not exist is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, target uuid.UUID, requester policy.Requester) error {
	if !requester.Authenticated {
		return models.NewPolicyDeniedError("Authentication required")
	}
	return s.followRepo.Delete(ctx, requester.ProfileID, target)
}

func (s *FollowService) GetFollowers(ctx context.Context, profileID uuid.UUID, limit, offset int, requester policy.Requester) ([]models.Profile, error) {
	// Follower lists hang off the profile: you may see them iff you may see
	// the profile itself.
	if _, err := s.profileRepo.GetByID(ctx, profileID, requester); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, profileID, normalizeLimit(limit), offset)
}

func (s *FollowService) GetFollowing(ctx context.Context, profileID uuid.UUID, limit, offset int, requester policy.Requester) ([]models.Profile, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID, requester); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowing(ctx, profileID, normalizeLimit(limit), offset)
}

func (s *FollowService) GetPendingRequests(ctx context.Context, requester policy.Requester) ([]models.Follow, error) {
	if !requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	return s.followRepo.GetPendingRequests(ctx, requester)
}
