//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/money"
	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []booking.Status{
	booking.StatusDraft,
	booking.StatusSeatsSelected,
	booking.StatusAwaitingPayment,
	booking.StatusPaymentSubmitted,
	booking.StatusConfirmed,
	booking.StatusRejected,
	booking.StatusCancelled,
	booking.StatusExpired,
}

func newDraft(t *testing.T, now time.Time) *booking.Booking {
	t.Helper()
	b, err := booking.New(uuid.New(), uuid.New(), now)
	require.NoError(t, err)
	return b
}

func inStatus(status booking.Status, now time.Time) *booking.Booking {
	return booking.Reconstruct(
		uuid.New(), uuid.New(), uuid.New(),
		[]string{"2A"},
		status,
		money.MustNew(150000),
		"",
		now.Add(time.Hour),
		1,
		now, now,
	)
}

func TestNew(t *testing.T) {
	now := time.Now()

	t.Run("starts as draft", func(t *testing.T) {
		b := newDraft(t, now)
		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusDraft, b.Status())
		assert.Equal(t, int64(1), b.Version())
		assert.Empty(t, b.SeatIDs())
		assert.False(t, b.HasHeldSeats())
	})

	t.Run("requires trip and passenger", func(t *testing.T) {
		_, err := booking.New(uuid.Nil, uuid.New(), now)
		require.ErrorIs(t, err, errs.ErrValidation)

		_, err = booking.New(uuid.New(), uuid.Nil, now)
		require.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestHappyPath(t *testing.T) {
	now := time.Now()
	b := newDraft(t, now)

	require.NoError(t, b.SelectSeats([]string{"2A", "3A"}, now.Add(15*time.Minute), now))
	assert.Equal(t, booking.StatusSeatsSelected, b.Status())
	assert.Equal(t, []string{"2A", "3A"}, b.SeatIDs())
	assert.True(t, b.HasHeldSeats())

	require.NoError(t, b.ProceedToPayment(money.MustNew(300000), now))
	assert.Equal(t, booking.StatusAwaitingPayment, b.Status())
	assert.Equal(t, int64(300000), b.TotalAmount().Amount())

	require.NoError(t, b.SubmitPayment("  transfer-123.jpg ", now.Add(24*time.Hour), now))
	assert.Equal(t, booking.StatusPaymentSubmitted, b.Status())
	assert.Equal(t, "transfer-123.jpg", b.PaymentProofRef())
	assert.Equal(t, now.Add(24*time.Hour), b.HoldExpiresAt())

	require.NoError(t, b.Confirm(now))
	assert.Equal(t, booking.StatusConfirmed, b.Status())
	assert.True(t, b.HoldExpiresAt().IsZero())
	assert.False(t, b.HasHeldSeats())
}

func TestSubmitPayment(t *testing.T) {
	now := time.Now()

	t.Run("blank proof", func(t *testing.T) {
		b := inStatus(booking.StatusAwaitingPayment, now)
		require.ErrorIs(t, b.SubmitPayment("   ", now, now), errs.ErrValidation)
		assert.Equal(t, booking.StatusAwaitingPayment, b.Status())
	})

	t.Run("proof too long", func(t *testing.T) {
		b := inStatus(booking.StatusAwaitingPayment, now)
		require.ErrorIs(t, b.SubmitPayment(strings.Repeat("x", 513), now, now), errs.ErrValidation)
	})

	t.Run("state is checked before proof", func(t *testing.T) {
		b := inStatus(booking.StatusSeatsSelected, now)
		require.ErrorIs(t, b.SubmitPayment("", now, now), errs.ErrInvalidTransition)
	})
}

func TestSelectSeats_RequiresSeats(t *testing.T) {
	now := time.Now()
	b := newDraft(t, now)

	require.ErrorIs(t, b.SelectSeats(nil, now, now), errs.ErrValidation)
	assert.Equal(t, booking.StatusDraft, b.Status())
}

func TestTransitionTable(t *testing.T) {
	now := time.Now()

	commands := map[string]struct {
		target booking.Status
		apply  func(b *booking.Booking) error
	}{
		"select seats": {booking.StatusSeatsSelected, func(b *booking.Booking) error {
			return b.SelectSeats([]string{"2A"}, now.Add(time.Minute), now)
		}},
		"proceed": {booking.StatusAwaitingPayment, func(b *booking.Booking) error {
			return b.ProceedToPayment(money.MustNew(1), now)
		}},
		"submit": {booking.StatusPaymentSubmitted, func(b *booking.Booking) error {
			return b.SubmitPayment("proof", now.Add(time.Hour), now)
		}},
		"confirm": {booking.StatusConfirmed, func(b *booking.Booking) error { return b.Confirm(now) }},
		"reject":  {booking.StatusRejected, func(b *booking.Booking) error { return b.Reject(now) }},
		"cancel":  {booking.StatusCancelled, func(b *booking.Booking) error { return b.Cancel(now) }},
		"expire":  {booking.StatusExpired, func(b *booking.Booking) error { return b.Expire(now) }},
	}

	for name, cmd := range commands {
		for _, from := range allStatuses {
			t.Run(name+" from "+from.String(), func(t *testing.T) {
				b := inStatus(from, now)
				if from == booking.StatusDraft {
					b = newDraft(t, now)
				}

				err := cmd.apply(b)

				if booking.CanTransition(from, cmd.target) {
					require.NoError(t, err)
					assert.Equal(t, cmd.target, b.Status())
					return
				}
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
				assert.Equal(t, from, b.Status(), "rejected command leaves status unchanged")
			})
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range allStatuses {
		terminal := s == booking.StatusConfirmed || s == booking.StatusRejected ||
			s == booking.StatusCancelled || s == booking.StatusExpired
		assert.Equal(t, terminal, s.IsTerminal(), s.String())
		for _, to := range allStatuses {
			if terminal {
				assert.False(t, booking.CanTransition(s, to))
			}
		}
	}
}

func TestTransitionsNeverReturnToDraft(t *testing.T) {
	for _, from := range allStatuses {
		assert.False(t, booking.CanTransition(from, booking.StatusDraft), from.String())
	}
}

func TestParseStatus(t *testing.T) {
	s, err := booking.ParseStatus("payment_submitted")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPaymentSubmitted, s)

	_, err = booking.ParseStatus("paid")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestTransitionError(t *testing.T) {
	b := inStatus(booking.StatusConfirmed, time.Now())

	err := b.Cancel(time.Now())

	var te *booking.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, booking.StatusConfirmed, te.From)
	assert.Equal(t, "cannot cancel a booking in status confirmed", err.Error())
}
