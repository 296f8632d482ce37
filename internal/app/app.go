// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/shred03/filestore-bot/config"
	"github.com/shred03/filestore-bot/internal/domain"
	"github.com/shred03/filestore-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, telegram bot, health endpoint)
		infrastructure.Module,

		// Domain (bot business logic)
		domain.Module,
	)
}
