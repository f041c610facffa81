package repository

import (
	"context"
	"errors"

	"athlos/internal/models"
	"athlos/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow relationship operations.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	GetBetween(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	GetByID(ctx context.Context, id uint, requester policy.Requester) (*models.Follow, error)
	GetFollowers(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]models.Profile, error)
	GetFollowing(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]models.Profile, error)
	GetPendingRequests(ctx context.Context, requester policy.Requester) ([]models.Follow, error)
	UpdateStatus(ctx context.Context, followID uint, status models.FollowStatus) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return translateError(err, "Follow")
	}
	return nil
}

// GetBetween returns the follow row from followerID to followingID, or nil
// when none exists.
func (r *followRepository) GetBetween(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

func (r *followRepository) GetByID(ctx context.Context, id uint, requester policy.Requester) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Scopes(policy.FollowParty(requester)).
		Preload("Follower").
		Preload("Following").
		First(&follow, "follows.id = ?", id).Error; err != nil {
		return nil, translateError(err, "Follow")
	}
	return &follow, nil
}

func (r *followRepository) GetFollowers(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).
		Table("profiles").
		Joins("JOIN follows f ON f.follower_id = profiles.id").
		Where("f.following_id = ? AND f.status = ?", profileID, models.FollowStatusAccepted).
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *followRepository) GetFollowing(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).
		Table("profiles").
		Joins("JOIN follows f ON f.following_id = profiles.id").
		Where("f.follower_id = ? AND f.status = ?", profileID, models.FollowStatusAccepted).
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// GetPendingRequests returns follow requests awaiting the requester's decision.
func (r *followRepository) GetPendingRequests(ctx context.Context, requester policy.Requester) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("following_id = ? AND status = ?", requester.ProfileID, models.FollowStatusPending).
		Preload("Follower").
		Order("created_at ASC").
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) UpdateStatus(ctx context.Context, followID uint, status models.FollowStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("id = ?", followID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
