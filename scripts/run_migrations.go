package main

import (
	"context"
	"log"
	"os"

	"github.com/safar/nava-store/internal/config"
	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down]")
	}

	direction := database.Direction(os.Args[1])
	if direction != database.DirectionUp && direction != database.DirectionDown {
		log.Fatal("Direction must be 'up' or 'down'")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	ran, err := database.Migrate(ctx, db, migrations.FS, direction)
	if err != nil {
		log.Fatalf("Migrate %s: %v", direction, err)
	}

	for _, filename := range ran {
		log.Printf("Ran migration: %s", filename)
	}
	log.Printf("Successfully ran %d migration(s) %s", len(ran), direction)
}
