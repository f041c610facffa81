package service

import (
	"context"
	"errors"
	"log/slog"

	"athlos/internal/middleware"
	"athlos/internal/models"
	"athlos/internal/observability"
	"athlos/internal/policy"
	"athlos/internal/repository"

	"github.com/google/uuid"
)

// MentionService resolves post tag entries into mentioned profiles.
//
// Tag entries are profile IDs. Historical rows also contain freeform label
// text from before mentions existed; those entries are skipped on read, never
// rejected, so one bad legacy entry cannot make a post unrenderable. New
// writes are held to the strict format (see ValidateTags).
type MentionService struct {
	profileRepo repository.ProfileRepository
}

// NewMentionService creates a new mention service.
func NewMentionService(profileRepo repository.ProfileRepository) *MentionService {
	return &MentionService{profileRepo: profileRepo}
}

// ParseMentionIDs extracts the well-formed profile IDs from a tags array.
// Non-conforming entries are skipped with an info log and a metric bump;
// duplicates are collapsed.
func ParseMentionIDs(ctx context.Context, tags []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	seen := make(map[uuid.UUID]struct{}, len(tags))
	for _, tag := range tags {
		id, err := uuid.Parse(tag)
		if err != nil {
			observability.MentionEntriesSkipped.Inc()
			middleware.Logger.InfoContext(ctx, "Skipping non-conforming tag entry",
				slog.String("entry", tag),
			)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ValidateTags enforces the strict mention format on write: every entry must
// be a profile ID. Legacy freeform entries are tolerated on read only.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if _, err := uuid.Parse(tag); err != nil {
			return models.NewValidationError("Tag entries must be profile IDs")
		}
	}
	return nil
}

// ResolveMentions loads the mentioned profiles a requester is allowed to see.
// Mentions of profiles the requester cannot read simply do not resolve; the
// response never reveals whether the profile exists.
func (s *MentionService) ResolveMentions(ctx context.Context, tags []string, requester policy.Requester) ([]*models.Profile, error) {
	ids := ParseMentionIDs(ctx, tags)
	profiles := make([]*models.Profile, 0, len(ids))
	for _, id := range ids {
		profile, err := s.profileRepo.GetByID(ctx, id, requester)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
