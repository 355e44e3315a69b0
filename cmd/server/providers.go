package main

import (
	"context"
	"database/sql"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/The-One-Reborn-developer/servis-plus/internal/config"
	"github.com/The-One-Reborn-developer/servis-plus/internal/handler"
	"github.com/The-One-Reborn-developer/servis-plus/internal/hub"
	"github.com/The-One-Reborn-developer/servis-plus/internal/repository/mongo"
	"github.com/The-One-Reborn-developer/servis-plus/internal/repository/postgres"
	"github.com/The-One-Reborn-developer/servis-plus/internal/service"
	"github.com/The-One-Reborn-developer/servis-plus/internal/storage"
)

func provideContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}

func providePostgresDB(cfg *config.Config) (*sql.DB, func(), error) {
	db, err := postgres.NewDB(cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Close() }
	return db, cleanup, nil
}

func provideMongoDB(ctx context.Context, cfg *config.Config) (*mongodriver.Database, func(), error) {
	db, err := mongo.NewDB(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Client().Disconnect(ctx) }
	return db, cleanup, nil
}

func provideFileStorage(cfg *config.Config) (*storage.FileStorage, error) {
	return storage.NewFileStorage(cfg.AttachmentsDir)
}

func provideHandler(delivery *service.DeliveryService, h *hub.Hub, logger *zap.Logger, cfg *config.Config) *handler.Handler {
	return handler.New(delivery, h, logger, cfg.AttachmentsDir)
}
