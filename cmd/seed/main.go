// Command seed runs the database seeder for Athlos.
package main

import (
	"flag"
	"log"

	"athlos/internal/config"
	"athlos/internal/database"
	"athlos/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 50, "Number of profiles to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d profiles, %d posts, clean=%v\n", *numProfiles, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	profiles, posts, err := s.SeedCommunity(*numProfiles, *numPosts)
	if err != nil {
		log.Fatalf("❌ Community seeding failed: %v", err)
	}

	if err := s.SeedEngagement(profiles, posts); err != nil {
		log.Fatalf("❌ Engagement seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
}
