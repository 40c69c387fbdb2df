package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"travel-booking/internal/pkg/config"
	"travel-booking/internal/usecase/outbox"
	"travel-booking/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var WorkersModule = fx.Module("workers",
	fx.Invoke(StartWorkers),
)

// StartWorkers runs the hold-expiry sweeper and the outbox relay for the lifetime of the app.
func StartWorkers(lc fx.Lifecycle, cfg config.Config, sw *sweeper.Sweeper, relay *outbox.Relay, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if cfg.Sweeper.Enabled {
				wg.Add(1)
				go func() {
					defer wg.Done()
					sw.Run(ctx)
				}()
				logger.Info("Hold expiry sweeper started", "interval", cfg.Sweeper.Interval)
			}
			if cfg.Outbox.Enabled {
				wg.Add(1)
				go func() {
					defer wg.Done()
					relay.Run(ctx)
				}()
				logger.Info("Outbox relay started", "interval", cfg.Outbox.Interval)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
