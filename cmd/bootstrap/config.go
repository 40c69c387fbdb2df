package bootstrap

import (
	"travel-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		func(cfg config.Config) config.SweeperConfig { return cfg.Sweeper },
		func(cfg config.Config) config.OutboxConfig { return cfg.Outbox },
	),
)
