package bootstrap

import (
	"context"
	"log/slog"

	"travel-booking/internal/infra/db"
	"travel-booking/internal/infra/memstore"
	"travel-booking/internal/infra/uow"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/metrics"
	"travel-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork picks the storage backend named by STORAGE_DRIVER.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (shared.UnitOfWork, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memstore.NewUoW(memstore.NewStore(logger)), nil
	}

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return uow.NewPostgresUoW(pool, m, logger), nil
}
