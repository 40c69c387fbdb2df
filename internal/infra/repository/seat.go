package repository

import (
	"context"
	"log/slog"
	"time"

	"travel-booking/internal/domain/seat"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/pgconv"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	seatColumns = `trip_id, seat_id, status, holder_booking_id, hold_expires_at, version`

	insertSeatSQL = `
INSERT INTO seat_records (` + seatColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)`

	selectSeatsByTripSQL = `
SELECT ` + seatColumns + `
FROM seat_records
WHERE trip_id = $1
ORDER BY seat_id`

	// Rows are locked in seat id order so concurrent holders never deadlock.
	lockSeatsSQL = `
SELECT ` + seatColumns + `
FROM seat_records
WHERE trip_id = $1 AND seat_id = ANY($2)
ORDER BY seat_id
FOR UPDATE`

	updateSeatSQL = `
UPDATE seat_records
SET status = $3, holder_booking_id = $4, hold_expires_at = $5, version = $6
WHERE trip_id = $1 AND seat_id = $2`

	selectExpiredHoldsSQL = `
SELECT s.trip_id, s.seat_id, s.holder_booking_id, s.version, s.hold_expires_at
FROM seat_records s
JOIN bookings b ON b.id = s.holder_booking_id
WHERE s.status = 'held'
  AND s.hold_expires_at <= $1
  AND b.status <> 'payment_submitted'
ORDER BY s.hold_expires_at, s.trip_id, s.seat_id
LIMIT $2`
)

type SeatRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewSeatRepository(db DBTX, logger *slog.Logger) *SeatRepository {
	return &SeatRepository{db: db, logger: logger}
}

func (r *SeatRepository) CreateAll(ctx context.Context, records []*seat.Record) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(insertSeatSQL, seatArgs(rec)...)
	}
	if err := sendBatch(ctx, r.db, batch); err != nil {
		return wrapErr(r.logger, "failed to create seat records", err)
	}
	return nil
}

func (r *SeatRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*seat.Record, error) {
	rows, err := r.db.Query(ctx, selectSeatsByTripSQL, tripID)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to list seats", err)
	}
	records, err := pgx.CollectRows(rows, scanSeat)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to scan seats", err)
	}
	return records, nil
}

func (r *SeatRepository) LockForUpdate(ctx context.Context, tripID uuid.UUID, seatIDs []string) ([]*seat.Record, error) {
	rows, err := r.db.Query(ctx, lockSeatsSQL, tripID, seatIDs)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to lock seats", err)
	}
	records, err := pgx.CollectRows(rows, scanSeat)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to scan locked seats", err)
	}
	return records, nil
}

// Save writes records previously returned by LockForUpdate in the same transaction.
func (r *SeatRepository) Save(ctx context.Context, records []*seat.Record) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(updateSeatSQL, seatArgs(rec)...)
	}
	if err := sendBatch(ctx, r.db, batch); err != nil {
		return wrapErr(r.logger, "failed to save seats", err)
	}
	return nil
}

func (r *SeatRepository) ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]shared.ExpiredHold, error) {
	rows, err := r.db.Query(ctx, selectExpiredHoldsSQL, now, limit)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to list expired holds", err)
	}
	holds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.ExpiredHold, error) {
		var h shared.ExpiredHold
		err := row.Scan(&h.TripID, &h.SeatID, &h.BookingID, &h.Version, &h.HoldExpiresAt)
		return h, err
	})
	if err != nil {
		return nil, wrapErr(r.logger, "failed to scan expired holds", err)
	}
	return holds, nil
}

func seatArgs(rec *seat.Record) []any {
	return []any{
		rec.TripID(),
		rec.SeatID(),
		rec.Status().String(),
		pgconv.NullableUUID(rec.HolderID()),
		pgconv.NullableTime(rec.HoldExpiresAt()),
		rec.Version(),
	}
}

func scanSeat(row pgx.CollectableRow) (*seat.Record, error) {
	var (
		tripID    uuid.UUID
		seatID    string
		status    string
		holder    pgtype.UUID
		expiresAt pgtype.Timestamptz
		version   int64
	)
	if err := row.Scan(&tripID, &seatID, &status, &holder, &expiresAt, &version); err != nil {
		return nil, err
	}
	st := seat.Status(status)
	if !st.IsValid() {
		return nil, errs.New("unknown seat status " + status)
	}
	return seat.ReconstructRecord(
		tripID, seatID, st, pgconv.UUIDFromPgtype(holder), pgconv.TimeFromPgtype(expiresAt), version,
	), nil
}
