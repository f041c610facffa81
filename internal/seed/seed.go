package seed

import (
	"context"
	"fmt"
	"log"

	"athlos/internal/models"
	"athlos/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder populates the database with realistic development data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE sport_settings, follows, comments, saved_posts, likes, posts, profiles RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedCommunity creates profiles, posts with mentions, follows and sport
// settings. It returns the created profiles and posts for further seeding.
func (s *Seeder) SeedCommunity(numProfiles, numPosts int) ([]*models.Profile, []*models.Post, error) {
	log.Printf("🌱 Seeding %d profiles and %d posts...", numProfiles, numPosts)

	profiles := make([]*models.Profile, 0, numProfiles)
	for i := 0; i < numProfiles; i++ {
		profile, err := s.factory.CreateProfile()
		if err != nil {
			return nil, nil, fmt.Errorf("create profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	log.Printf("✓ %d profiles created", len(profiles))

	mentionPool := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		mentionPool = append(mentionPool, p.ID)
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := profiles[s.factory.r.Intn(len(profiles))]
		posts = append(posts, s.factory.BuildPost(author, mentionPool))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, nil, fmt.Errorf("create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := s.seedFollows(profiles); err != nil {
		return nil, nil, fmt.Errorf("create follows: %w", err)
	}

	if err := s.seedSportSettings(profiles); err != nil {
		return nil, nil, fmt.Errorf("create sport settings: %w", err)
	}

	return profiles, posts, nil
}

// SeedEngagement creates likes, saves and comments on the given posts, then
// reconciles the denormalized counters through the repair path so the caches
// start out consistent.
func (s *Seeder) SeedEngagement(profiles []*models.Profile, posts []*models.Post) error {
	r := s.factory.r

	var likes []models.Like
	var saves []models.SavedPost
	var comments []models.Comment
	for _, post := range posts {
		for _, p := range profiles {
			if r.Intn(4) == 0 {
				likes = append(likes, models.Like{PostID: post.ID, ProfileID: p.ID})
			}
			if r.Intn(10) == 0 {
				saves = append(saves, models.SavedPost{PostID: post.ID, ProfileID: p.ID})
			}
			if r.Intn(8) == 0 {
				comments = append(comments, models.Comment{
					PostID:    post.ID,
					ProfileID: p.ID,
					Content:   gofakeit.Sentence(r.Intn(12) + 2),
				})
			}
		}
	}

	if len(likes) > 0 {
		if err := s.db.Create(&likes).Error; err != nil {
			return fmt.Errorf("create likes: %w", err)
		}
	}
	if len(saves) > 0 {
		if err := s.db.Create(&saves).Error; err != nil {
			return fmt.Errorf("create saves: %w", err)
		}
	}
	if len(comments) > 0 {
		if err := s.db.Create(&comments).Error; err != nil {
			return fmt.Errorf("create comments: %w", err)
		}
	}
	log.Printf("✓ %d likes, %d saves, %d comments created", len(likes), len(saves), len(comments))

	// Engagement rows were inserted without touching the counter caches;
	// bring the caches in line the same way the admin repair endpoint does.
	repo := repository.NewPostRepository(s.db)
	for _, counter := range repository.PostCounters {
		if _, err := repo.RepairCounter(context.Background(), counter); err != nil {
			return fmt.Errorf("repair %s: %w", counter, err)
		}
	}
	log.Println("✓ Post counters reconciled")

	return nil
}

func (s *Seeder) seedFollows(profiles []*models.Profile) error {
	r := s.factory.r

	var follows []models.Follow
	seen := make(map[[2]string]bool)
	for _, follower := range profiles {
		for i := 0; i < r.Intn(6); i++ {
			target := profiles[r.Intn(len(profiles))]
			if target.ID == follower.ID {
				continue
			}
			key := [2]string{follower.ID.String(), target.ID.String()}
			if seen[key] {
				continue
			}
			seen[key] = true

			status := models.FollowStatusAccepted
			if target.Visibility != models.VisibilityPublic && r.Intn(2) == 0 {
				status = models.FollowStatusPending
			}
			follows = append(follows, models.Follow{
				FollowerID:  follower.ID,
				FollowingID: target.ID,
				Status:      status,
			})
		}
	}

	if len(follows) == 0 {
		return nil
	}
	if err := s.db.Create(&follows).Error; err != nil {
		return err
	}
	log.Printf("✓ %d follows created", len(follows))
	return nil
}

func (s *Seeder) seedSportSettings(profiles []*models.Profile) error {
	r := s.factory.r

	var rows []*models.SportSettings
	for _, p := range profiles {
		used := make(map[string]bool)
		for i := 0; i < r.Intn(3); i++ {
			key := sportKeys[r.Intn(len(sportKeys))]
			if used[key] {
				continue
			}
			used[key] = true
			rows = append(rows, s.factory.BuildSportSettings(p.ID, key))
		}
	}

	if len(rows) == 0 {
		return nil
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return err
	}
	log.Printf("✓ %d sport settings created", len(rows))
	return nil
}
