//go:build unit

package inventory_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"travel-booking/internal/domain/seat"
	"travel-booking/internal/infra/memstore"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/inventory"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uow    shared.UnitOfWork
	clock  *clock.MockClock
	inv    *inventory.Inventory
	tripID uuid.UUID
}

func newFixture(t *testing.T, seatIDs ...string) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMockClock(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	f := &fixture{
		uow:    memstore.NewUoW(memstore.NewStore(logger)),
		clock:  clk,
		inv:    inventory.New(clk, logger),
		tripID: uuid.New(),
	}
	records := make([]*seat.Record, 0, len(seatIDs))
	for _, id := range seatIDs {
		records = append(records, seat.NewAvailable(f.tripID, id))
	}
	require.NoError(t, f.uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Seats().CreateAll(ctx, records)
	}))
	return f
}

func (f *fixture) within(fn func(ctx context.Context, tx shared.Tx) error) error {
	return f.uow.Within(context.Background(), fn)
}

func (f *fixture) hold(t *testing.T, bookingID uuid.UUID, seatIDs ...string) {
	t.Helper()
	require.NoError(t, f.within(func(ctx context.Context, tx shared.Tx) error {
		_, err := f.inv.Hold(ctx, tx, f.tripID, seatIDs, bookingID, 15*time.Minute)
		return err
	}))
}

func (f *fixture) availability(t *testing.T) map[string]seat.Status {
	t.Helper()
	var out map[string]seat.Status
	require.NoError(t, f.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var err error
		out, err = f.inv.QueryAvailability(ctx, tx, f.tripID)
		return err
	}))
	return out
}

func TestHold(t *testing.T) {
	t.Run("claims every seat and stamps the expiry", func(t *testing.T) {
		f := newFixture(t, "2A", "2B", "2C")
		bookingID := uuid.New()

		var expiresAt time.Time
		require.NoError(t, f.within(func(ctx context.Context, tx shared.Tx) error {
			var err error
			expiresAt, err = f.inv.Hold(ctx, tx, f.tripID, []string{"2A", "2B"}, bookingID, 15*time.Minute)
			return err
		}))
		assert.Equal(t, f.clock.Now().Add(15*time.Minute), expiresAt)
		assert.Equal(t, map[string]seat.Status{
			"2A": seat.StatusHeld,
			"2B": seat.StatusHeld,
			"2C": seat.StatusAvailable,
		}, f.availability(t))
	})

	t.Run("all or nothing on conflict", func(t *testing.T) {
		f := newFixture(t, "2A", "2B", "2C")
		f.hold(t, uuid.New(), "2B")

		err := f.within(func(ctx context.Context, tx shared.Tx) error {
			_, herr := f.inv.Hold(ctx, tx, f.tripID, []string{"2C", "2B", "2A"}, uuid.New(), time.Minute)
			return herr
		})
		var conflict *seat.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"2B"}, conflict.SeatIDs)
		assert.ErrorIs(t, err, errs.ErrSeatConflict)
		assert.Equal(t, seat.StatusAvailable, f.availability(t)["2A"])
		assert.Equal(t, seat.StatusAvailable, f.availability(t)["2C"])
	})

	tests := []struct {
		name    string
		seatIDs []string
		wantErr error
	}{
		{name: "empty request", seatIDs: nil, wantErr: errs.ErrValidation},
		{name: "duplicate seat", seatIDs: []string{"2A", "2A"}, wantErr: errs.ErrValidation},
		{name: "unknown seat", seatIDs: []string{"9Z"}, wantErr: errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "2A")
			err := f.within(func(ctx context.Context, tx shared.Tx) error {
				_, herr := f.inv.Hold(ctx, tx, f.tripID, tt.seatIDs, uuid.New(), time.Minute)
				return herr
			})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRelease(t *testing.T) {
	f := newFixture(t, "2A", "2B")
	owner, other := uuid.New(), uuid.New()
	f.hold(t, owner, "2A")
	f.hold(t, other, "2B")

	err := f.within(func(ctx context.Context, tx shared.Tx) error {
		return f.inv.Release(ctx, tx, f.tripID, []string{"2A", "2B"}, owner)
	})
	require.ErrorIs(t, err, seat.ErrNotHeldByCaller)
	assert.True(t, errs.Is(err, errs.ErrHoldExpiredOrMismatch))
	assert.Equal(t, seat.StatusHeld, f.availability(t)["2A"], "a failed release changes nothing")

	require.NoError(t, f.within(func(ctx context.Context, tx shared.Tx) error {
		return f.inv.Release(ctx, tx, f.tripID, []string{"2A"}, owner)
	}))
	assert.Equal(t, seat.StatusAvailable, f.availability(t)["2A"])

	require.NoError(t, f.within(func(ctx context.Context, tx shared.Tx) error {
		return f.inv.Release(ctx, tx, f.tripID, []string{"2A"}, owner)
	}), "releasing an available seat is a no-op")
}

func TestConfirm(t *testing.T) {
	t.Run("books a live hold", func(t *testing.T) {
		f := newFixture(t, "2A")
		bookingID := uuid.New()
		f.hold(t, bookingID, "2A")

		require.NoError(t, f.within(func(ctx context.Context, tx shared.Tx) error {
			return f.inv.Confirm(ctx, tx, f.tripID, []string{"2A"}, bookingID)
		}))
		assert.Equal(t, seat.StatusBooked, f.availability(t)["2A"])
	})

	t.Run("refuses a lapsed hold", func(t *testing.T) {
		f := newFixture(t, "2A")
		bookingID := uuid.New()
		f.hold(t, bookingID, "2A")
		f.clock.Add(16 * time.Minute)

		err := f.within(func(ctx context.Context, tx shared.Tx) error {
			return f.inv.Confirm(ctx, tx, f.tripID, []string{"2A"}, bookingID)
		})
		require.ErrorIs(t, err, errs.ErrHoldExpiredOrMismatch)
	})

	t.Run("refuses someone else's hold", func(t *testing.T) {
		f := newFixture(t, "2A")
		f.hold(t, uuid.New(), "2A")

		err := f.within(func(ctx context.Context, tx shared.Tx) error {
			return f.inv.Confirm(ctx, tx, f.tripID, []string{"2A"}, uuid.New())
		})
		require.ErrorIs(t, err, errs.ErrHoldExpiredOrMismatch)
	})
}

func TestExpireIfPast(t *testing.T) {
	observe := func(t *testing.T, f *fixture) map[string]int64 {
		t.Helper()
		versions := map[string]int64{}
		require.NoError(t, f.uow.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			records, err := tx.Seats().ListByTrip(ctx, f.tripID)
			for _, r := range records {
				versions[r.SeatID()] = r.Version()
			}
			return err
		}))
		return versions
	}
	expire := func(t *testing.T, f *fixture, bookingID uuid.UUID, expected map[string]int64) inventory.ExpiryResult {
		t.Helper()
		var res inventory.ExpiryResult
		require.NoError(t, f.within(func(ctx context.Context, tx shared.Tx) error {
			var err error
			res, err = f.inv.ExpireIfPast(ctx, tx, f.tripID, bookingID, expected)
			return err
		}))
		return res
	}

	t.Run("reclaims holds that are still as observed", func(t *testing.T) {
		f := newFixture(t, "2A", "2B")
		bookingID := uuid.New()
		f.hold(t, bookingID, "2A", "2B")
		seen := observe(t, f)
		f.clock.Add(15 * time.Minute)

		res := expire(t, f, bookingID, seen)
		assert.Equal(t, inventory.Reclaimed, res.Outcome())
		assert.Equal(t, []string{"2A", "2B"}, res.Reclaimed)
		assert.Equal(t, seat.StatusAvailable, f.availability(t)["2A"])
	})

	t.Run("a confirm after the observation wins", func(t *testing.T) {
		f := newFixture(t, "2A")
		bookingID := uuid.New()
		f.hold(t, bookingID, "2A")
		seen := observe(t, f)
		require.NoError(t, f.within(func(ctx context.Context, tx shared.Tx) error {
			return f.inv.Confirm(ctx, tx, f.tripID, []string{"2A"}, bookingID)
		}))
		f.clock.Add(time.Hour)

		res := expire(t, f, bookingID, seen)
		assert.Equal(t, inventory.AlreadyChanged, res.Outcome())
		assert.Equal(t, seat.StatusBooked, f.availability(t)["2A"])
	})

	t.Run("a live hold is left alone", func(t *testing.T) {
		f := newFixture(t, "2A")
		bookingID := uuid.New()
		f.hold(t, bookingID, "2A")

		res := expire(t, f, bookingID, observe(t, f))
		assert.Equal(t, inventory.AlreadyChanged, res.Outcome())
		assert.Equal(t, seat.StatusHeld, f.availability(t)["2A"])
	})
}
