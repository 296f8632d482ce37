package health

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/shred03/filestore-bot/config"
)

// Module provides the health server for fx dependency injection
var Module = fx.Module("health",
	fx.Provide(provideServer),
	fx.Invoke(registerLifecycle),
)

func provideServer(cfg *config.ServiceConfig, logger zerolog.Logger) *Server {
	return NewServer(cfg.Port, logger)
}

func registerLifecycle(lc fx.Lifecycle, srv *Server) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			srv.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Stop(ctx)
		},
	})
}
