package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"github.com/shred03/filestore-bot/config"
)

var Module = fx.Module("database",
	fx.Provide(NewMongoDatabaseWithLifecycle),
)

func NewMongoDatabaseWithLifecycle(
	lc fx.Lifecycle,
	cfg *config.MongoConfig,
	logger zerolog.Logger,
) (*mongo.Database, error) {
	client, db, err := NewMongoDatabase(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := Ping(ctx, client); err != nil {
				return err
			}
			logger.Info().
				Str("database", cfg.Database).
				Msg("Connected to MongoDB")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing MongoDB connection")
			return client.Disconnect(ctx)
		},
	})

	return db, nil
}
