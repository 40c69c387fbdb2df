package outbox

import (
	"context"
	"log/slog"
	"time"

	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/metrics"
	"travel-booking/internal/usecase/shared"
)

type Publisher interface {
	Publish(ctx context.Context, ev shared.OutboxEvent) error
}

// Relay forwards committed outbox rows to the Publisher. It never runs inside a
// booking transaction, so broker latency cannot extend a seat lock.
type Relay struct {
	uow       shared.UnitOfWork
	publisher Publisher
	cfg       config.OutboxConfig
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewRelay(
	uow shared.UnitOfWork,
	publisher Publisher,
	cfg config.OutboxConfig,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Relay {
	return &Relay{uow: uow, publisher: publisher, cfg: cfg, clock: clk, metrics: m, logger: logger}
}

func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.logger.Info("Outbox relay started", "interval", r.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.Error("Outbox relay failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many events went out.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		published = 0
		events, err := tx.Outbox().FetchPending(ctx, r.cfg.BatchSize, r.cfg.MaxAttempts)
		if err != nil {
			return err
		}
		for _, ev := range events {
			if perr := r.publisher.Publish(ctx, ev); perr != nil {
				r.metrics.OutboxPublished.WithLabelValues("failed").Inc()
				r.logger.Warn("Outbox publish failed",
					"event_id", ev.ID, "topic", ev.Topic, "attempt", ev.Attempts+1, "error", perr)
				if err := tx.Outbox().MarkFailed(ctx, ev.ID, perr.Error()); err != nil {
					return err
				}
				continue
			}
			if err := tx.Outbox().MarkPublished(ctx, ev.ID, r.clock.Now()); err != nil {
				return err
			}
			r.metrics.OutboxPublished.WithLabelValues("published").Inc()
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		r.logger.Debug("Outbox batch relayed", "count", published)
	}
	return published, nil
}
