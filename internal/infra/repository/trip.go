package repository

import (
	"context"
	"log/slog"
	"time"

	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/trip"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertTripSQL = `
INSERT INTO trips (id, origin, destination, departure_at, price_per_seat, max_seats_per_booking, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertTripSeatSQL = `
INSERT INTO trip_seats (trip_id, seat_id, position, reservable)
VALUES ($1, $2, $3, $4)`

	selectTripSQL = `
SELECT id, origin, destination, departure_at, price_per_seat, max_seats_per_booking, created_at
FROM trips
WHERE id = $1`

	selectTripSeatsSQL = `
SELECT seat_id, reservable
FROM trip_seats
WHERE trip_id = $1
ORDER BY position`
)

type TripRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewTripRepository(db DBTX, logger *slog.Logger) *TripRepository {
	return &TripRepository{db: db, logger: logger}
}

func (r *TripRepository) Create(ctx context.Context, t *trip.Trip) error {
	if _, err := r.db.Exec(ctx, insertTripSQL,
		t.ID(), t.Origin(), t.Destination(), t.DepartureAt(),
		t.PricePerSeat().Amount(), t.MaxSeatsPerBooking(), t.CreatedAt(),
	); err != nil {
		return wrapErr(r.logger, "failed to create trip", err)
	}

	batch := &pgx.Batch{}
	for i, s := range t.Layout() {
		batch.Queue(insertTripSeatSQL, t.ID(), s.ID, i, s.Reservable)
	}
	if err := sendBatch(ctx, r.db, batch); err != nil {
		return wrapErr(r.logger, "failed to create trip layout", err)
	}
	return nil
}

func (r *TripRepository) FindByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	var (
		tripID                 uuid.UUID
		origin, destination    string
		departureAt, createdAt time.Time
		pricePerSeat           int64
		maxSeatsPerBooking     int32
	)
	err := r.db.QueryRow(ctx, selectTripSQL, id).Scan(
		&tripID, &origin, &destination, &departureAt, &pricePerSeat, &maxSeatsPerBooking, &createdAt,
	)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find trip", err)
	}

	rows, err := r.db.Query(ctx, selectTripSeatsSQL, id)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to load trip layout", err)
	}
	layout, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (trip.Seat, error) {
		var s trip.Seat
		err := row.Scan(&s.ID, &s.Reservable)
		return s, err
	})
	if err != nil {
		return nil, wrapErr(r.logger, "failed to scan trip layout", err)
	}

	price, err := money.New(pricePerSeat)
	if err != nil {
		return nil, wrapErr(r.logger, "stored trip price is invalid", err)
	}
	return trip.ReconstructTrip(
		tripID, origin, destination, departureAt, layout, price, int(maxSeatsPerBooking), createdAt,
	), nil
}
