// Command seed runs the database seeder for HowUDoin.
package main

import (
	"flag"
	"log"

	"howudoin/internal/config"
	"howudoin/internal/database"
	"howudoin/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numGroups := flag.Int("groups", 10, "Number of groups to create")
	numMessages := flag.Int("messages", 500, "Number of messages to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Seed(seed.Options{
		NumUsers:    *numUsers,
		NumGroups:   *numGroups,
		NumMessages: *numMessages,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is populated with test data.")
	log.Println("All seeded users have the password: password123")
}
