// Package seed provides helpers to create development and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"athlos/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// sportKeys are realistic sport identifiers used for sport settings and for
// legacy free-text tag entries.
var sportKeys = []string{
	"trail_running", "road_cycling", "swimming", "triathlon", "climbing",
	"crossfit", "rowing", "skiing", "surfing", "tennis",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests; the Build* methods
// never touch the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		//nolint:gosec // Weak random number generator is fine for seeding
		r: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildProfile constructs a sample profile without persisting it.
// Optional override functions may modify the generated profile before use.
func (f *Factory) BuildProfile(overrides ...func(*models.Profile)) *models.Profile {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	handle := f.generateHandle(first, last)

	profile := &models.Profile{
		ID:         uuid.New(),
		Handle:     &handle,
		FirstName:  first,
		LastName:   last,
		FullName:   first + " " + last,
		Email:      gofakeit.Email(),
		Bio:        gofakeit.Sentence(12),
		AvatarURL:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Visibility: f.randomVisibility(),
	}

	for _, override := range overrides {
		override(profile)
	}
	return profile
}

// CreateProfile constructs and persists a sample profile.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	profile := f.BuildProfile(overrides...)
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// BuildPost constructs a post for the given author without persisting it.
// Tags are drawn from mentionPool (profile IDs); roughly one post in ten also
// carries a legacy free-text tag so the mention resolver's skip path stays
// exercised in dev environments.
func (f *Factory) BuildPost(author *models.Profile, mentionPool []uuid.UUID, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		ProfileID:  author.ID,
		Caption:    gofakeit.Sentence(f.r.Intn(15) + 3),
		Tags:       f.randomTags(mentionPool, author.ID),
		Visibility: f.randomVisibility(),
	}

	if f.r.Intn(3) > 0 {
		post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// BuildSportSettings constructs a sport settings row for the given profile.
func (f *Factory) BuildSportSettings(profileID uuid.UUID, sportKey string) *models.SportSettings {
	settings := fmt.Sprintf(
		`{"units":"%s","weekly_goal_hours":%d,"share_workouts":%t}`,
		[]string{"metric", "imperial"}[f.r.Intn(2)],
		f.r.Intn(15)+1,
		f.r.Intn(2) == 0,
	)
	return &models.SportSettings{
		ProfileID: profileID,
		SportKey:  sportKey,
		Settings:  []byte(settings),
	}
}

func (f *Factory) generateHandle(first, last string) string {
	formats := []string{"%s%s", "%s_%s", "%s%d"}
	format := formats[f.r.Intn(len(formats))]

	var handle string
	switch format {
	case "%s%d":
		handle = fmt.Sprintf(format, first, f.r.Intn(10000))
	default:
		handle = fmt.Sprintf(format, first, last)
	}
	handle = strings.ToLower(handle)
	if len(handle) > 30 {
		handle = handle[:30]
	}
	return handle
}

func (f *Factory) randomVisibility() models.Visibility {
	// mostly public so the anonymous feed has content
	switch f.r.Intn(10) {
	case 0:
		return models.VisibilityPrivate
	case 1, 2:
		return models.VisibilityFollowers
	default:
		return models.VisibilityPublic
	}
}

func (f *Factory) randomTags(mentionPool []uuid.UUID, author uuid.UUID) pq.StringArray {
	var tags pq.StringArray
	if len(mentionPool) > 0 {
		for i := 0; i < f.r.Intn(4); i++ {
			candidate := mentionPool[f.r.Intn(len(mentionPool))]
			if candidate == author {
				continue
			}
			tags = append(tags, candidate.String())
		}
	}
	if f.r.Intn(10) == 0 {
		tags = append(tags, sportKeys[f.r.Intn(len(sportKeys))])
	}
	return tags
}
