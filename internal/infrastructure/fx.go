// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/shred03/filestore-bot/internal/infrastructure/database"
	"github.com/shred03/filestore-bot/internal/infrastructure/health"
	"github.com/shred03/filestore-bot/internal/infrastructure/logger"
	"github.com/shred03/filestore-bot/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	telegram.Module,
	health.Module,
)
