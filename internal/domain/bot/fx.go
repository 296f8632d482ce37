// Package bot contains the bot domain module
package bot

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"

	"github.com/shred03/filestore-bot/config"
	"github.com/shred03/filestore-bot/internal/domain/bot/audit"
	telegramDelivery "github.com/shred03/filestore-bot/internal/domain/bot/delivery/telegram"
	"github.com/shred03/filestore-bot/internal/domain/bot/deps"
	"github.com/shred03/filestore-bot/internal/domain/bot/repository/koyeb"
	"github.com/shred03/filestore-bot/internal/domain/bot/repository/mongodb"
	"github.com/shred03/filestore-bot/internal/domain/bot/repository/shortener"
	"github.com/shred03/filestore-bot/internal/domain/bot/repository/tmdb"
	"github.com/shred03/filestore-bot/internal/domain/bot/usecase/buissines"
	"github.com/shred03/filestore-bot/internal/domain/bot/workers"
	"github.com/shred03/filestore-bot/internal/infrastructure/telegram"
	"github.com/shred03/filestore-bot/pkg/previewcache"
)

// Module provides bot domain components for fx dependency injection
var Module = fx.Module("bot",
	// Repositories
	fx.Provide(provideFileRepository),
	fx.Provide(provideUserRepository),
	fx.Provide(providePostRepository),

	// External clients
	fx.Provide(provideMovieDatabase),
	fx.Provide(provideLinkShortener),
	fx.Provide(provideRedeployer),

	// Audit
	fx.Provide(audit.NewChannelLogger),
	fx.Provide(provideAuditLogger),

	// Preview cache
	fx.Provide(providePreviewCache),

	// UseCase
	fx.Provide(buissines.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Workers
	workers.Module,

	// Wire cyclic dependencies and register routes
	fx.Invoke(wireAndRegister),
)

func provideFileRepository(db *mongo.Database, logger zerolog.Logger) deps.FileRepository {
	return mongodb.NewFileRepository(db, logger)
}

func provideUserRepository(db *mongo.Database, logger zerolog.Logger) deps.UserRepository {
	return mongodb.NewUserRepository(db, logger)
}

func providePostRepository(db *mongo.Database, logger zerolog.Logger) deps.PostRepository {
	return mongodb.NewPostRepository(db, logger)
}

func provideMovieDatabase(cfg *config.PostConfig, logger zerolog.Logger) deps.MovieDatabase {
	return tmdb.NewClient(cfg, logger)
}

func provideLinkShortener(cfg *config.PostConfig, logger zerolog.Logger) deps.LinkShortener {
	return shortener.NewClient(cfg, logger)
}

func provideRedeployer(cfg *config.DeployConfig, logger zerolog.Logger) deps.Redeployer {
	return koyeb.NewClient(cfg, logger)
}

func provideAuditLogger(channelLogger *audit.ChannelLogger) deps.AuditLogger {
	return channelLogger
}

func providePreviewCache(lc fx.Lifecycle) *previewcache.Cache {
	cache := previewcache.New()
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cache.Stop()
			return nil
		},
	})
	return cache
}

// provideTelegramHandlers creates Telegram handlers with the infrastructure bot
func provideTelegramHandlers(uc *buissines.UseCase, bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, bot, logger)
}

// wireAndRegister resolves cyclic dependencies and registers routes.
// Handlers implements deps.TelegramSender and deps.MembershipOracle, and is
// itself built from the UseCase, so the links are closed with setters here.
func wireAndRegister(
	uc *buissines.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	scheduler *workers.RetractionScheduler,
	channelLogger *audit.ChannelLogger,
	bot *telegram.Bot,
) {
	uc.SetSender(handlers)
	uc.SetMembershipOracle(handlers)
	uc.SetScheduler(scheduler)

	scheduler.SetSender(handlers)
	channelLogger.SetSender(handlers)

	router.RegisterRoutes(bot.Raw())
}
