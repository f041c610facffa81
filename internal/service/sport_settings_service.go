package service

import (
	"context"
	"encoding/json"
	"regexp"

	"athlos/internal/models"
	"athlos/internal/policy"
	"athlos/internal/repository"
)

// SportSettingsService implements per-sport settings CRUD. Settings are
// strictly private: every operation is scoped to the requester's own rows.
type SportSettingsService struct {
	repo repository.SportSettingsRepository
}

var sportKeyRegex = regexp.MustCompile(`^[a-z0-9_]{2,50}$`)

// NewSportSettingsService creates a new sport settings service.
func NewSportSettingsService(repo repository.SportSettingsRepository) *SportSettingsService {
	return &SportSettingsService{repo: repo}
}

func (s *SportSettingsService) Put(ctx context.Context, sportKey string, settings json.RawMessage, requester policy.Requester) (*models.SportSettings, error) {
	if !requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	if !sportKeyRegex.MatchString(sportKey) {
		return nil, models.NewValidationError("Invalid sport key")
	}
	if len(settings) == 0 || !json.Valid(settings) {
		return nil, models.NewValidationError("Settings must be a valid JSON document")
	}

	row := &models.SportSettings{
		ProfileID: requester.ProfileID,
		SportKey:  sportKey,
		Settings:  settings,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *SportSettingsService) Get(ctx context.Context, sportKey string, requester policy.Requester) (*models.SportSettings, error) {
	if !requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	return s.repo.Get(ctx, sportKey, requester)
}

func (s *SportSettingsService) List(ctx context.Context, requester policy.Requester) ([]models.SportSettings, error) {
	if !requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	return s.repo.List(ctx, requester)
}

func (s *SportSettingsService) Delete(ctx context.Context, sportKey string, requester policy.Requester) error {
	if !requester.Authenticated {
		return models.NewPolicyDeniedError("Authentication required")
	}
	return s.repo.Delete(ctx, sportKey, requester)
}
