//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"travel-booking/internal/domain/payment"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"
	"travel-booking/tests/common/usecasetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMyBookings_PagesNewestFirst(t *testing.T) {
	h := usecasetest.New(t)
	ctx := context.Background()
	tr := h.ScheduleTrip(t)
	passenger := usecasetest.Passenger()

	var created []uuid.UUID
	for range 5 {
		b, err := h.Bookings.StartBooking(ctx, passenger, tr.ID(), uuid.Nil)
		require.NoError(t, err)
		created = append(created, b.ID())
		h.Clock.Add(time.Minute)
	}
	// someone else's booking never shows up
	_, err := h.Bookings.StartBooking(ctx, usecasetest.Passenger(), tr.ID(), uuid.Nil)
	require.NoError(t, err)

	page1, next, err := h.BookingQ.ListMyBookings(ctx, passenger, nil, 2)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []uuid.UUID{created[4], created[3]}, ids(page1))

	page2, next, err := h.BookingQ.ListMyBookings(ctx, passenger, next, 2)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []uuid.UUID{created[2], created[1]}, ids(page2))

	page3, next, err := h.BookingQ.ListMyBookings(ctx, passenger, next, 2)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []uuid.UUID{created[0]}, ids(page3))
}

func TestListMyBookings_InvalidCursor(t *testing.T) {
	h := usecasetest.New(t)
	_, _, err := h.BookingQ.ListMyBookings(context.Background(), usecasetest.Passenger(), &queries.Cursor{After: "not-a-cursor"}, 10)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestCursor_RoundTrip(t *testing.T) {
	key := shared.PageKey{CreatedAt: time.Date(2026, 3, 2, 8, 0, 0, 123456000, time.UTC), ID: uuid.New()}
	got, err := queries.DecodeCursor(queries.EncodeCursor(key))
	require.NoError(t, err)
	assert.True(t, key.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, key.ID, got.ID)

	none, err := queries.DecodeCursor(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-3))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}

func TestTicket(t *testing.T) {
	h := usecasetest.New(t)
	ctx := context.Background()
	tr := h.ScheduleTrip(t)
	passenger := usecasetest.Passenger()
	b := h.Submit(t, passenger, tr.ID(), "2A")

	_, err := h.BookingQ.Ticket(ctx, passenger, b.ID())
	require.ErrorIs(t, err, errs.ErrInvalidTransition, "no ticket before confirmation")

	_, err = h.Bookings.ValidatePayment(ctx, h.Admin, b.ID(), payment.DecisionApproved, "")
	require.NoError(t, err)

	pdf, err := h.BookingQ.Ticket(ctx, passenger, b.ID())
	require.NoError(t, err)
	assert.Equal(t, "ticket:"+b.ID().String(), string(pdf))

	_, err = h.BookingQ.Ticket(ctx, usecasetest.Passenger(), b.ID())
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestSeatAvailability(t *testing.T) {
	h := usecasetest.New(t)
	ctx := context.Background()
	tr := h.ScheduleTrip(t)
	h.Hold(t, usecasetest.Passenger(), tr.ID(), "2A", "2B")

	view, err := h.TripQ.SeatAvailability(ctx, usecasetest.Passenger(), tr.ID())
	require.NoError(t, err)
	assert.Equal(t, tr.ID(), view.TripID)
	assert.Equal(t, 5, view.Available)
	require.Len(t, view.Seats, 8)
	assert.Equal(t, queries.SeatStatusView{SeatID: "1A", Status: queries.SeatNotReservable}, view.Seats[0])
	assert.Equal(t, queries.SeatStatusView{SeatID: "2A", Status: "held"}, view.Seats[2])

	_, err = h.TripQ.SeatAvailability(ctx, usecasetest.Passenger(), uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func ids(views []*queries.BookingView) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}
