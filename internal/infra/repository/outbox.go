package repository

import (
	"context"
	"log/slog"
	"time"

	"travel-booking/internal/pkg/pgconv"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertOutboxSQL = `
INSERT INTO outbox_events (id, topic, aggregate_id, payload, attempts, created_at)
VALUES ($1, $2, $3, $4, 0, $5)`

	// SKIP LOCKED lets several relays drain the outbox without claiming the same row.
	fetchPendingOutboxSQL = `
SELECT id, topic, aggregate_id, payload, attempts, last_error, created_at, published_at
FROM outbox_events
WHERE published_at IS NULL AND attempts < $2
ORDER BY created_at
LIMIT $1
FOR UPDATE SKIP LOCKED`

	markOutboxPublishedSQL = `
UPDATE outbox_events SET published_at = $2 WHERE id = $1`

	markOutboxFailedSQL = `
UPDATE outbox_events SET attempts = attempts + 1, last_error = $2 WHERE id = $1`
)

type OutboxRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewOutboxRepository(db DBTX, logger *slog.Logger) *OutboxRepository {
	return &OutboxRepository{db: db, logger: logger}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, ev shared.OutboxEvent) error {
	if _, err := r.db.Exec(ctx, insertOutboxSQL, ev.ID, ev.Topic, ev.AggregateID, ev.Payload, ev.CreatedAt); err != nil {
		return wrapErr(r.logger, "failed to enqueue outbox event", err)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit, maxAttempts int) ([]shared.OutboxEvent, error) {
	rows, err := r.db.Query(ctx, fetchPendingOutboxSQL, limit, maxAttempts)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to fetch outbox events", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.OutboxEvent, error) {
		var (
			ev          shared.OutboxEvent
			attempts    int32
			lastError   pgtype.Text
			publishedAt pgtype.Timestamptz
		)
		err := row.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &attempts, &lastError, &ev.CreatedAt, &publishedAt)
		ev.Attempts = int(attempts)
		ev.LastError = pgconv.TextFromPgtype(lastError)
		ev.PublishedAt = pgconv.TimePtrFromPgtype(publishedAt)
		return ev, err
	})
	if err != nil {
		return nil, wrapErr(r.logger, "failed to scan outbox events", err)
	}
	return events, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := r.db.Exec(ctx, markOutboxPublishedSQL, id, at); err != nil {
		return wrapErr(r.logger, "failed to mark outbox event published", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	if _, err := r.db.Exec(ctx, markOutboxFailedSQL, id, reason); err != nil {
		return wrapErr(r.logger, "failed to mark outbox event failed", err)
	}
	return nil
}
