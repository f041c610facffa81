package repository

import (
	"context"

	"athlos/internal/models"
	"athlos/internal/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SportSettingsRepository defines the interface for per-sport settings operations.
type SportSettingsRepository interface {
	Upsert(ctx context.Context, settings *models.SportSettings) error
	Get(ctx context.Context, sportKey string, requester policy.Requester) (*models.SportSettings, error)
	List(ctx context.Context, requester policy.Requester) ([]models.SportSettings, error)
	Delete(ctx context.Context, sportKey string, requester policy.Requester) error
}

// sportSettingsRepository implements SportSettingsRepository
type sportSettingsRepository struct {
	db *gorm.DB
}

// NewSportSettingsRepository creates a new sport settings repository.
func NewSportSettingsRepository(db *gorm.DB) SportSettingsRepository {
	return &sportSettingsRepository{db: db}
}

// Upsert writes the settings blob for the (profile, sport) pair, relying on
// the unique index to collapse concurrent writers onto one row.
func (r *sportSettingsRepository) Upsert(ctx context.Context, settings *models.SportSettings) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "sport_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_at"}),
		}).
		Create(settings).Error; err != nil {
		return translateError(err, "Sport settings")
	}
	return nil
}

func (r *sportSettingsRepository) Get(ctx context.Context, sportKey string, requester policy.Requester) (*models.SportSettings, error) {
	var settings models.SportSettings
	if err := r.db.WithContext(ctx).
		Scopes(policy.OwnedBy(requester)).
		Where("sport_key = ?", sportKey).
		First(&settings).Error; err != nil {
		return nil, translateError(err, "Sport settings")
	}
	return &settings, nil
}

func (r *sportSettingsRepository) List(ctx context.Context, requester policy.Requester) ([]models.SportSettings, error) {
	var settings []models.SportSettings
	if err := r.db.WithContext(ctx).
		Scopes(policy.OwnedBy(requester)).
		Order("sport_key ASC").
		Find(&settings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return settings, nil
}

func (r *sportSettingsRepository) Delete(ctx context.Context, sportKey string, requester policy.Requester) error {
	res := r.db.WithContext(ctx).
		Scopes(policy.OwnedBy(requester)).
		Where("sport_key = ?", sportKey).
		Delete(&models.SportSettings{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Sport settings")
	}
	return nil
}
