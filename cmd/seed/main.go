// Command seed fills the configured store with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"socialhub/internal/bootstrap"
	"socialhub/internal/config"
	"socialhub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	maxDays := flag.Int("days", 30, "Spread post timestamps over this many past days")
	fixture := flag.String("fixture", "", "Apply a YAML fixture instead of generated data")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StoreBackend == config.StoreMemory {
		log.Fatalf("❌ STORE_BACKEND=memory does not persist; pick postgres, sqlite or badger")
	}

	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	ctx := context.Background()
	s := seed.NewSeeder(rt.Users, rt.Posts, *randSeed)

	if *fixture != "" {
		log.Printf("Applying fixture: %s\n", *fixture)
		f, err := seed.LoadFixtureFile(*fixture)
		if err != nil {
			log.Fatalf("❌ Fixture load failed: %v", err)
		}
		if err := s.ApplyFixture(ctx, f); err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
		log.Println("✨ Fixture applied.")
		return
	}

	log.Printf("Target: %d users, %d posts\n", *numUsers, *numPosts)
	if err := s.Run(ctx, seed.Options{NumUsers: *numUsers, NumPosts: *numPosts, MaxDays: *maxDays}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	log.Println("✨ All done! Your store is now populated with test data.")
	log.Printf("📧 All generated users have the password: %s\n", seed.DefaultPassword)
}
