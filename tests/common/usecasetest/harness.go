//go:build unit || e2e

package usecasetest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/trip"
	"travel-booking/internal/infra/lease"
	"travel-booking/internal/infra/memstore"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/metrics"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/inventory"
	"travel-booking/internal/usecase/ledger"
	"travel-booking/internal/usecase/outbox"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"
	"travel-booking/internal/usecase/sweeper"
	"travel-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var Epoch = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

const (
	HoldDuration      = 15 * time.Minute
	PaymentReviewHold = 24 * time.Hour
	PricePerSeat      = 150000
)

// Harness wires the booking engine against the in-memory storage driver.
type Harness struct {
	Store    *memstore.Store
	UoW      shared.UnitOfWork
	Clock    *clock.MockClock
	Metrics  *metrics.Metrics
	Policy   *access.Policy
	Trips    commands.TripCommands
	Bookings commands.BookingCommands
	TripQ    queries.TripQueries
	BookingQ queries.BookingQueries
	Sweeper  *sweeper.Sweeper
	Logger   *slog.Logger

	Admin access.Actor
}

type RendererFunc func(data queries.TicketData) ([]byte, error)

func (f RendererFunc) Render(data queries.TicketData) ([]byte, error) { return f(data) }

func New(t *testing.T) *Harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMockClock(Epoch)
	store := memstore.NewStore(logger)
	uow := memstore.NewUoW(store)
	m := metrics.New()
	policy := access.NewPolicy()
	inv := inventory.New(clk, logger)
	ldg := ledger.New(clk, logger)

	bookingCfg := config.BookingConfig{
		HoldDuration:      HoldDuration,
		PaymentReviewHold: PaymentReviewHold,
		DefaultMaxSeats:   6,
	}
	sweeperCfg := config.SweeperConfig{
		Enabled:     true,
		Interval:    time.Minute,
		BatchSize:   100,
		Concurrency: 4,
		MaxRetries:  3,
		LeaseTTL:    time.Second,
	}
	renderer := RendererFunc(func(data queries.TicketData) ([]byte, error) {
		return []byte("ticket:" + data.Booking.ID.String()), nil
	})

	return &Harness{
		Store:    store,
		UoW:      uow,
		Clock:    clk,
		Metrics:  m,
		Policy:   policy,
		Trips:    commands.NewTripUseCase(uow, policy, bookingCfg, clk, logger),
		Bookings: commands.NewBookingUseCase(uow, policy, inv, ldg, bookingCfg, clk, m, logger),
		TripQ:    queries.NewTripQueries(uow, policy, inv),
		BookingQ: queries.NewBookingQueries(uow, policy, ldg, renderer),
		Sweeper:  sweeper.New(uow, policy, inv, lease.NewLocalLease(clk), sweeperCfg, clk, m, logger),
		Logger:   logger,
		Admin:    access.NewActor(uuid.New(), access.RoleAdmin),
	}
}

func (h *Harness) Relay(publisher outbox.Publisher, maxAttempts int) *outbox.Relay {
	cfg := config.OutboxConfig{Enabled: true, Interval: time.Second, BatchSize: 50, MaxAttempts: maxAttempts}
	return outbox.NewRelay(h.UoW, publisher, cfg, h.Clock, h.Metrics, h.Logger)
}

func Passenger() access.Actor {
	return access.NewActor(uuid.New(), access.RoleCustomer)
}

// ScheduleTrip schedules the default seven-seater departing two days after the harness clock.
func (h *Harness) ScheduleTrip(t *testing.T, mutate ...func(*builder.TripBuilder)) *trip.Trip {
	t.Helper()
	b := builder.NewTripBuilder().With(func(b *builder.TripBuilder) {
		b.Now = h.Clock.Now()
		b.DepartureAt = h.Clock.Now().Add(48 * time.Hour)
		b.PricePerSeat = PricePerSeat
	})
	for _, m := range mutate {
		b.With(m)
	}
	tr, err := h.Trips.ScheduleTrip(context.Background(), h.Admin, commands.ScheduleTripRequest{
		Origin:             b.Origin,
		Destination:        b.Destination,
		DepartureAt:        b.DepartureAt,
		Layout:             b.Layout,
		PricePerSeat:       b.PricePerSeat,
		MaxSeatsPerBooking: b.MaxSeatsPerBooking,
	})
	require.NoError(t, err)
	return tr
}

// Hold starts a booking for actor and selects seatIDs on it.
func (h *Harness) Hold(t *testing.T, actor access.Actor, tripID uuid.UUID, seatIDs ...string) *booking.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := h.Bookings.StartBooking(ctx, actor, tripID, uuid.Nil)
	require.NoError(t, err)
	b, err = h.Bookings.SelectSeats(ctx, actor, b.ID(), seatIDs)
	require.NoError(t, err)
	return b
}

// Submit drives a fresh booking up to PaymentSubmitted.
func (h *Harness) Submit(t *testing.T, actor access.Actor, tripID uuid.UUID, seatIDs ...string) *booking.Booking {
	t.Helper()
	ctx := context.Background()
	b := h.Hold(t, actor, tripID, seatIDs...)
	b, err := h.Bookings.ProceedToPayment(ctx, actor, b.ID())
	require.NoError(t, err)
	b, err = h.Bookings.SubmitPayment(ctx, actor, b.ID(), "transfer-receipt-001.jpg")
	require.NoError(t, err)
	return b
}

// SeatStatuses returns the availability view keyed by seat id.
func (h *Harness) SeatStatuses(t *testing.T, tripID uuid.UUID) map[string]string {
	t.Helper()
	view, err := h.TripQ.SeatAvailability(context.Background(), h.Admin, tripID)
	require.NoError(t, err)
	out := make(map[string]string, len(view.Seats))
	for _, s := range view.Seats {
		out[s.SeatID] = s.Status
	}
	return out
}
