package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("bot-workers",
	fx.Provide(provideRetractionScheduler),
	fx.Invoke(registerRetractionLifecycle),
)

func provideRetractionScheduler(logger zerolog.Logger) *RetractionScheduler {
	return NewRetractionScheduler(logger.With().Str("component", "retraction-scheduler").Logger())
}

// registerRetractionLifecycle registers retraction scheduler lifecycle hooks
func registerRetractionLifecycle(lc fx.Lifecycle, scheduler *RetractionScheduler) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
