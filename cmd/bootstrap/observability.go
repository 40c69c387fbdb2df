package bootstrap

import (
	"context"
	"log/slog"

	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/metrics"
	"travel-booking/internal/pkg/tracing"

	"go.uber.org/fx"
)

var ObservabilityModule = fx.Module("observability",
	fx.Provide(
		metrics.New,
	),
	fx.Invoke(SetupTracing),
)

func SetupTracing(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) error {
	shutdown, err := tracing.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		return err
	}
	if cfg.Telemetry.OTLPEndpoint != "" {
		logger.Info("OpenTelemetry exporter enabled", "endpoint", cfg.Telemetry.OTLPEndpoint)
	}
	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return nil
}
