package repository

import (
	"context"
	"fmt"

	"athlos/internal/cache"
	"athlos/internal/models"
	"athlos/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID, requester policy.Requester) (*models.Profile, error)
	GetByHandle(ctx context.Context, handle string, requester policy.Requester) (*models.Profile, error)
	GetVisibility(ctx context.Context, id uuid.UUID) (models.Visibility, error)
	HandleTaken(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, profile *models.Profile) error
	Search(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return translateError(err, "Profile")
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID, requester policy.Requester) (*models.Profile, error) {
	var profile models.Profile

	var err error
	if !requester.Authenticated {
		// Anonymous reads only ever see public rows, which makes them safe to cache.
		key := cache.ProfileKey(id.String())
		err = cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
			return r.db.WithContext(ctx).
				Scopes(policy.ProfileReadable(requester)).
				First(&profile, "profiles.id = ?", id).Error
		})
	} else {
		err = r.db.WithContext(ctx).
			Scopes(policy.ProfileReadable(requester)).
			First(&profile, "profiles.id = ?", id).Error
	}
	if err != nil {
		return nil, translateError(err, "Profile")
	}
	return &profile, nil
}

func (r *profileRepository) GetByHandle(ctx context.Context, handle string, requester policy.Requester) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Scopes(policy.ProfileReadable(requester)).
		Where("LOWER(profiles.handle) = LOWER(?)", handle).
		First(&profile).Error; err != nil {
		return nil, translateError(err, "Profile")
	}
	return &profile, nil
}

// GetVisibility reports a profile's visibility without the readability scope.
// Follow requests need it: the target of a pending request is typically not
// yet readable to the requester, and the visibility value alone decides
// whether the follow auto-accepts or waits for a decision.
func (r *profileRepository) GetVisibility(ctx context.Context, id uuid.UUID) (models.Visibility, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Select("visibility").
		First(&profile, "id = ?", id).Error; err != nil {
		return "", translateError(err, "Profile")
	}
	return profile.Visibility, nil
}

// HandleTaken reports whether any profile other than excludeID already holds
// the handle, compared case-insensitively. The unique index on LOWER(handle)
// remains the authority; this pre-check only exists to produce a friendlier
// conflict before the write.
func (r *profileRepository) HandleTaken(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("LOWER(handle) = LOWER(?) AND id != ?", handle, excludeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return translateError(err, "Profile")
	}
	cache.Invalidate(ctx, cache.ProfileKey(profile.ID.String()))
	return nil
}

func (r *profileRepository) Search(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Profile, error) {
	var profiles []*models.Profile
	like := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Scopes(policy.ProfileReadable(requester)).
		Where("profiles.handle ILIKE ? OR profiles.full_name ILIKE ?", like, like).
		Order("profiles.handle ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// Delete removes the profile and everything cascading from it. The cascade
// also takes the profile's likes, comments and saves off other authors'
// posts, so those posts' counters come down in the same transaction; the
// profile's own posts disappear with it and need no adjustment.
func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, counter := range PostCounters {
			sql := fmt.Sprintf(`
				UPDATE posts SET %[1]s = GREATEST(posts.%[1]s - sub.removed, 0)
				FROM (
					SELECT post_id, COUNT(*) AS removed
					FROM %[2]s
					WHERE profile_id = ?
					GROUP BY post_id
				) sub
				WHERE posts.id = sub.post_id AND posts.profile_id != ?`,
				string(counter), counter.childTable(),
			)
			if err := tx.Exec(sql, id, id).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Profile{}, "id = ?", id).Error
	})
	if err != nil {
		return translateError(err, "Profile")
	}
	cache.Invalidate(ctx, cache.ProfileKey(id.String()))
	return nil
}
