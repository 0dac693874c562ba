package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/api"
	"github.com/safar/nava-store/internal/cart"
	"github.com/safar/nava-store/internal/catalog"
	"github.com/safar/nava-store/internal/config"
	"github.com/safar/nava-store/internal/database"
	"github.com/safar/nava-store/internal/identity"
	"github.com/safar/nava-store/internal/logging"
	"github.com/safar/nava-store/internal/order"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database")

	if cfg.Database.AutoMigrate {
		ran, err := database.Migrate(ctx, db, migrations.FS, database.DirectionUp)
		if err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Strings("files", ran))
	}

	products := store.NewProductStore(db)
	orders := store.NewOrderStore(db)

	carts := cart.NewService(cart.NewMemoryStore(), products, logger.Named("cart"))

	server := api.NewServer(api.Deps{
		Catalog: catalog.NewService(
			products,
			store.NewOfferStore(db),
			store.NewFavouriteStore(db),
			logger.Named("catalog"),
		),
		Carts:        carts,
		Orders:       order.NewManager(orders, carts, logger.Named("order")),
		OrderCounter: orders,
		Accounts:     identity.NewService(store.NewUserStore(db), identity.NewBcryptHasher(), logger.Named("identity")),
		Sessions:     identity.NewSessionCodec(cfg.Session.Secret),
		CookieName:   cfg.Session.CookieName,
		Logger:       logger.Named("http"),
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown server", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
