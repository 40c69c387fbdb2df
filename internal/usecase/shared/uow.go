package shared

import (
	"context"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/seat"
	"travel-booking/internal/domain/trip"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one transaction.
type Tx interface {
	Trips() TripRepository
	Seats() SeatRepository
	Bookings() BookingRepository
	Validations() ValidationRepository
	Outbox() OutboxRepository
}

type TripRepository interface {
	Create(ctx context.Context, t *trip.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
}

type SeatRepository interface {
	CreateAll(ctx context.Context, records []*seat.Record) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*seat.Record, error)
	// LockForUpdate returns the requested records ordered by seat id and keeps them
	// exclusively locked until the transaction ends. Unknown seats are omitted.
	LockForUpdate(ctx context.Context, tripID uuid.UUID, seatIDs []string) ([]*seat.Record, error)
	Save(ctx context.Context, records []*seat.Record) error
	ListExpiredHolds(ctx context.Context, now time.Time, limit int) ([]ExpiredHold, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// Update writes b if the stored version still equals b.Version(), then bumps it.
	Update(ctx context.Context, b *booking.Booking) error
	// ListByPassenger pages newest first; after is the last key of the previous page.
	ListByPassenger(ctx context.Context, passengerID uuid.UUID, after *PageKey, limit int) ([]*booking.Booking, error)
}

// PageKey is a keyset position over (created_at, id) descending.
type PageKey struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type ValidationRepository interface {
	Insert(ctx context.Context, rec *payment.ValidationRecord) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.ValidationRecord, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, ev OutboxEvent) error
	// FetchPending claims unpublished events, skipping rows another relay already holds.
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// ExpiredHold is a held seat observed past its expiry.
type ExpiredHold struct {
	TripID        uuid.UUID
	SeatID        string
	BookingID     uuid.UUID
	Version       int64
	HoldExpiresAt time.Time
}

type OutboxEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	PublishedAt *time.Time
}
