// Command api runs the vendor catalog HTTP server.
//
// @title        Vendor Catalog API
// @version      1.0
// @description  Multi-tenant vendor catalog backend: vendors, products, announcements and customer requests.
// @BasePath     /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mercatino/vendor-api/internal/api"
	mongodb "github.com/mercatino/vendor-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mercatino/vendor-api/internal/infrastructure/db/redis"
	"github.com/mercatino/vendor-api/internal/infrastructure/mail"
	"github.com/mercatino/vendor-api/internal/infrastructure/storage"
	"github.com/mercatino/vendor-api/internal/pkg/config"
	"github.com/mercatino/vendor-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer func() { _ = rdb.Close() }()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("creating indexes")
	}

	store, err := storage.NewFileAssetStore(afero.NewOsFs(), cfg.Assets.ServerRoot, cfg.Assets.UploadRoot)
	if err != nil {
		log.Fatal().Err(err).Msg("initialising asset store")
	}

	mailer := mail.NewSMTPMailer(cfg.SMTP.Addr)

	e := api.NewRouter(cfg, db, rdb, store, mailer)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("vendor api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewVendorRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewProductRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewAnnouncementRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewRequestRepository(db).EnsureIndexes(ctx)
}
