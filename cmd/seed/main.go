package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/catalog"
	"github.com/safar/nava-store/internal/config"
	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/identity"
	"github.com/safar/nava-store/internal/logging"
	"github.com/safar/nava-store/internal/seed"
	"github.com/safar/nava-store/internal/store"
	"github.com/safar/nava-store/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	if _, err := database.Migrate(ctx, db, migrations.FS, database.DirectionUp); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	products := store.NewProductStore(db)
	cat := catalog.NewService(products, store.NewOfferStore(db), store.NewFavouriteStore(db), logger)
	accounts := identity.NewService(store.NewUserStore(db), identity.NewBcryptHasher(), logger)

	res, err := seed.Run(ctx, accounts, cat, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, logger)
	if err != nil {
		logger.Fatal("seed", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.Bool("admin_created", res.AdminCreated),
		zap.Int("products", res.Products),
		zap.Int("offers", res.Offers))
}
