// Command main runs the database seeder for ReWear.
package main

import (
	"context"
	"flag"
	"log"

	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of listings to create")
	numRatings := flag.Int("ratings", 40, "Number of ratings to create")
	numMessages := flag.Int("messages", 80, "Number of messages to create")
	shouldClean := flag.Bool("clean", false, "Delete existing users, listings and activity before seeding")
	fast := flag.Bool("fast", false, "Use a low bcrypt cost for generated passwords")
	demo := flag.Bool("demo", false, "Insert the demo catalog instead of generated data")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	ctx := context.Background()

	if *demo {
		if err := seed.Categories(db); err != nil {
			log.Fatalf("❌ Category seeding failed: %v", err)
		}
		if err := seed.Demo(ctx, db); err != nil {
			log.Fatalf("❌ Demo seeding failed: %v", err)
		}
		return
	}

	log.Printf("Target: %d users, %d posts, %d ratings, %d messages, clean=%v",
		*numUsers, *numPosts, *numRatings, *numMessages, *shouldClean)

	report, err := seed.Seed(ctx, db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		NumRatings:  *numRatings,
		NumMessages: *numMessages,
		ShouldClean: *shouldClean,
		SkipBcrypt:  *fast,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! users=%d posts=%d favorites=%d messages=%d ratings=%d",
		report.Users, report.Posts, report.Favorites, report.Messages, report.Ratings)
	log.Printf("📧 All generated users have the password: %s", seed.DefaultPassword)
}
