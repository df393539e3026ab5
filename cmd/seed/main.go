// Command main runs the database seeder for Postboard.
package main

import (
	"context"
	"flag"
	"log"

	"postboard/internal/bootstrap"
	"postboard/internal/config"
	"postboard/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	maxComments := flag.Int("comments", 3, "Maximum comments per post")
	maxFollows := flag.Int("follows", 5, "Maximum authors each user follows")
	maxDays := flag.Int("days", 90, "Spread post dates over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store the seed password unhashed (tests only)")
	dryRun := flag.Bool("dry-run", false, "Build entities without writing them")
	randomSeed := flag.Int64("seed", 0, "Random seed; 0 uses the clock")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		MaxComments: *maxComments,
		MaxFollows:  *maxFollows,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *skipBcrypt,
		DryRun:      *dryRun,
		MaxDays:     *maxDays,
		BatchSize:   100,
		RandomSeed:  *randomSeed,
	})

	result, err := s.Seed()
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! users=%d groups=%d posts=%d comments=%d follows=%d",
		result.Users, result.Groups, result.Posts, result.Comments, result.Follows)
	log.Printf("📧 All test users have the password: %s", seed.DefaultPassword)
}
