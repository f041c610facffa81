package service

import (
	"context"
	"net/url"
	"strings"

	"athlos/internal/config"
	"athlos/internal/models"
	"athlos/internal/policy"
	"athlos/internal/repository"
	"athlos/internal/validation"

	"github.com/google/uuid"
)

// ProfileService implements profile reads and owner-scoped updates.
type ProfileService struct {
	profileRepo     repository.ProfileRepository
	handleValidator *validation.HandleValidator
	cfg             *config.Config
}

// UpdateProfileInput carries the fields a profile owner may change. Nil
// pointers mean "leave unchanged".
type UpdateProfileInput struct {
	Requester  policy.Requester
	ProfileID  uuid.UUID
	Handle     *string
	FirstName  *string
	LastName   *string
	Bio        *string
	AvatarURL  *string
	Visibility *string
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.ProfileRepository, cfg *config.Config) *ProfileService {
	reserved := cfg.ReservedHandleList()
	if len(reserved) == 0 {
		reserved = validation.DefaultReservedHandles
	}
	return &ProfileService{
		profileRepo:     profileRepo,
		handleValidator: validation.NewHandleValidator(reserved),
		cfg:             cfg,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID, requester policy.Requester) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id, requester)
}

func (s *ProfileService) GetProfileByHandle(ctx context.Context, handle string, requester policy.Requester) (*models.Profile, error) {
	return s.profileRepo.GetByHandle(ctx, handle, requester)
}

func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Profile, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.profileRepo.Search(ctx, query, limit, offset, requester)
}

// UpdateProfile applies owner edits. Handle changes are validated, normalized
// and pre-checked for conflicts; the unique index on LOWER(handle) remains
// the final authority, so a losing race still comes back as a conflict.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	if !in.Requester.Owns(in.ProfileID) {
		return nil, models.NewPolicyDeniedError("You can only update your own profile")
	}

	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID, in.Requester)
	if err != nil {
		return nil, err
	}

	if in.Handle != nil {
		normalized, err := s.handleValidator.Validate(*in.Handle)
		if err != nil {
			return nil, err
		}
		taken, err := s.profileRepo.HandleTaken(ctx, normalized, in.ProfileID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConstraintViolationError("Handle already taken")
		}
		profile.Handle = &normalized
	}

	if in.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		profile.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.FirstName != nil || in.LastName != nil {
		profile.FullName = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	}
	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		profile.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		if err := s.validateImageURL(*in.AvatarURL); err != nil {
			return nil, err
		}
		profile.AvatarURL = *in.AvatarURL
	}
	if in.Visibility != nil {
		v := models.Visibility(*in.Visibility)
		if !v.Valid() {
			return nil, models.NewValidationError("Invalid visibility")
		}
		profile.Visibility = v
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// validateImageURL enforces the fixed allow-list of image hosts. The list is
// deployment configuration; callers cannot extend it per request.
func (s *ProfileService) validateImageURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return models.NewValidationError("Image URL is not a valid URL")
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return models.NewValidationError("Image URL must be an http(s) URL")
	}
	if !s.cfg.IsAllowedImageHost(parsed.Hostname()) {
		return models.NewValidationError("Image URL host is not on the allow-list")
	}
	return nil
}

// DeleteProfile removes the requester's own profile. Child rows (posts,
// likes, follows) go with it via foreign key cascade.
func (s *ProfileService) DeleteProfile(ctx context.Context, id uuid.UUID, requester policy.Requester) error {
	if !requester.Owns(id) {
		return models.NewPolicyDeniedError("You can only delete your own profile")
	}
	return s.profileRepo.Delete(ctx, id)
}
