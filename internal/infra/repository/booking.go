package repository

import (
	"context"
	"log/slog"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/money"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/pgconv"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	bookingColumns = `id, trip_id, passenger_id, seat_ids, status, total_amount,
       payment_proof_ref, hold_expires_at, version, created_at, updated_at`

	insertBookingSQL = `
INSERT INTO bookings (` + bookingColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	selectBookingSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1`

	selectBookingForUpdateSQL = selectBookingSQL + `
FOR UPDATE`

	updateBookingSQL = `
UPDATE bookings
SET seat_ids = $3, status = $4, total_amount = $5, payment_proof_ref = $6,
    hold_expires_at = $7, updated_at = $8, version = version + 1
WHERE id = $1 AND version = $2`

	listBookingsByPassengerSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE passenger_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

	listBookingsByPassengerAfterSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE passenger_id = $1 AND (created_at, id) < ($3, $4)
ORDER BY created_at DESC, id DESC
LIMIT $2`
)

type BookingRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewBookingRepository(db DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{db: db, logger: logger}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if _, err := r.db.Exec(ctx, insertBookingSQL,
		b.ID(), b.TripID(), b.PassengerID(), nonNil(b.SeatIDs()), b.Status().String(), b.TotalAmount().Amount(),
		pgconv.NullableText(b.PaymentProofRef()), pgconv.NullableTime(b.HoldExpiresAt()),
		b.Version(), b.CreatedAt(), b.UpdatedAt(),
	); err != nil {
		return wrapErr(r.logger, "failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, selectBookingSQL, id)
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, selectBookingForUpdateSQL, id)
}

func (r *BookingRepository) findOne(ctx context.Context, sql string, id uuid.UUID) (*booking.Booking, error) {
	rows, err := r.db.Query(ctx, sql, id)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find booking", err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBooking)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find booking", err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, updateBookingSQL,
		b.ID(), b.Version(), nonNil(b.SeatIDs()), b.Status().String(), b.TotalAmount().Amount(),
		pgconv.NullableText(b.PaymentProofRef()), pgconv.NullableTime(b.HoldExpiresAt()), b.UpdatedAt(),
	)
	if err != nil {
		return wrapErr(r.logger, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindVersionConflict, "booking version changed", nil)
	}
	b.BumpVersion()
	return nil
}

func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID uuid.UUID, after *shared.PageKey, limit int) ([]*booking.Booking, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		rows, err = r.db.Query(ctx, listBookingsByPassengerSQL, passengerID, limit)
	} else {
		rows, err = r.db.Query(ctx, listBookingsByPassengerAfterSQL, passengerID, limit, after.CreatedAt, after.ID)
	}
	if err != nil {
		return nil, wrapErr(r.logger, "failed to list bookings", err)
	}
	bookings, err := pgx.CollectRows(rows, scanBooking)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to scan bookings", err)
	}
	return bookings, nil
}

func scanBooking(row pgx.CollectableRow) (*booking.Booking, error) {
	var (
		id, tripID, passengerID uuid.UUID
		seatIDs                 []string
		status                  string
		total                   int64
		proof                   pgtype.Text
		holdExpiresAt           pgtype.Timestamptz
		version                 int64
		createdAt, updatedAt    pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &tripID, &passengerID, &seatIDs, &status, &total,
		&proof, &holdExpiresAt, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	st, err := booking.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	amount, err := money.New(total)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(
		id, tripID, passengerID, seatIDs, st, amount,
		pgconv.TextFromPgtype(proof), pgconv.TimeFromPgtype(holdExpiresAt), version,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
