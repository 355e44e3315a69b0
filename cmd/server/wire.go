//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/The-One-Reborn-developer/servis-plus/internal/config"
	"github.com/The-One-Reborn-developer/servis-plus/internal/hub"
	"github.com/The-One-Reborn-developer/servis-plus/internal/logger"
	"github.com/The-One-Reborn-developer/servis-plus/internal/repository/mongo"
	"github.com/The-One-Reborn-developer/servis-plus/internal/repository/postgres"
	"github.com/The-One-Reborn-developer/servis-plus/internal/service"
	"github.com/The-One-Reborn-developer/servis-plus/internal/storage"
)

// InitializeApp creates a new application.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		// Database & Context Providers
		wire.NewSet(
			provideContext,
			providePostgresDB,
			provideMongoDB,
			provideFileStorage,
			wire.Bind(new(service.IFileStorage), new(*storage.FileStorage)),
		),
		// Repository Providers
		wire.NewSet(
			postgres.NewBidRepository,
			wire.Bind(new(service.IBidRepository), new(*postgres.BidRepository)),

			postgres.NewUserRepository,
			wire.Bind(new(service.IUserRepository), new(*postgres.UserRepository)),

			mongo.NewChatRepository,
			wire.Bind(new(service.IChatRepository), new(*mongo.ChatRepository)),
		),
		// Service Providers
		wire.NewSet(
			service.NewBidService,
			wire.Bind(new(service.IBidService), new(*service.BidService)),

			service.NewChatService,
			wire.Bind(new(service.IChatService), new(*service.ChatService)),

			service.NewUserService,
			wire.Bind(new(service.IUserService), new(*service.UserService)),

			service.NewDeliveryService,
		),
		// Hub Provider
		wire.NewSet(
			hub.NewHub,
			wire.Bind(new(service.IRelay), new(*hub.Hub)),
		),
		// Handler Provider
		provideHandler,
		// App Provider
		wire.NewSet(
			wire.Struct(new(App), "*"),
		),
	)
	return nil, nil, nil
}
