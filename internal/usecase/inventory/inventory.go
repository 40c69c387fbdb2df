// Package inventory owns every seat status change. Each operation runs inside the
// caller's transaction against seat rows locked for that transaction, so mutations
// for one trip are serialized and all-or-nothing.
package inventory

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"travel-booking/internal/domain/seat"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ExpiryOutcome string

const (
	Reclaimed      ExpiryOutcome = "reclaimed"
	AlreadyChanged ExpiryOutcome = "already_changed"
)

// ExpiryResult splits the observed seats into those reclaimed and those that moved on.
type ExpiryResult struct {
	Reclaimed      []string
	AlreadyChanged []string
}

func (r ExpiryResult) Outcome() ExpiryOutcome {
	if len(r.AlreadyChanged) > 0 || len(r.Reclaimed) == 0 {
		return AlreadyChanged
	}
	return Reclaimed
}

type Inventory struct {
	clock  clock.Clock
	logger *slog.Logger
}

func New(clk clock.Clock, logger *slog.Logger) *Inventory {
	return &Inventory{clock: clk, logger: logger}
}

// QueryAvailability returns the status of every reservable seat on the trip.
func (inv *Inventory) QueryAvailability(ctx context.Context, tx shared.Tx, tripID uuid.UUID) (map[string]seat.Status, error) {
	records, err := tx.Seats().ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]seat.Status, len(records))
	for _, r := range records {
		out[r.SeatID()] = r.Status()
	}
	return out, nil
}

// Hold claims every requested seat for bookingID, or none of them. A refusal lists
// the contested seats in request order.
func (inv *Inventory) Hold(
	ctx context.Context,
	tx shared.Tx,
	tripID uuid.UUID,
	seatIDs []string,
	bookingID uuid.UUID,
	holdDuration time.Duration,
) (time.Time, error) {
	records, err := inv.lock(ctx, tx, tripID, seatIDs)
	if err != nil {
		return time.Time{}, err
	}

	var contested []string
	for _, id := range seatIDs {
		if !records[id].IsHoldable() {
			contested = append(contested, id)
		}
	}
	if len(contested) > 0 {
		inv.logger.Warn("Seat hold refused",
			"trip_id", tripID, "booking_id", bookingID, "contested", contested)
		return time.Time{}, &seat.ConflictError{SeatIDs: contested}
	}

	expiresAt := inv.clock.Now().Add(holdDuration)
	changed := make([]*seat.Record, 0, len(seatIDs))
	for _, id := range seatIDs {
		if err := records[id].Hold(bookingID, expiresAt); err != nil {
			return time.Time{}, err
		}
		changed = append(changed, records[id])
	}
	if err := tx.Seats().Save(ctx, changed); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// Release returns seats held by bookingID to availability. Seats already available
// are skipped; a seat held by anyone else fails the whole call.
func (inv *Inventory) Release(ctx context.Context, tx shared.Tx, tripID uuid.UUID, seatIDs []string, bookingID uuid.UUID) error {
	records, err := inv.lock(ctx, tx, tripID, seatIDs)
	if err != nil {
		return err
	}

	changed := make([]*seat.Record, 0, len(seatIDs))
	for _, id := range seatIDs {
		ok, err := records[id].Release(bookingID)
		if err != nil {
			return err
		}
		if ok {
			changed = append(changed, records[id])
		}
	}
	return tx.Seats().Save(ctx, changed)
}

// Confirm turns live holds of bookingID into bookings.
func (inv *Inventory) Confirm(ctx context.Context, tx shared.Tx, tripID uuid.UUID, seatIDs []string, bookingID uuid.UUID) error {
	records, err := inv.lock(ctx, tx, tripID, seatIDs)
	if err != nil {
		return err
	}

	now := inv.clock.Now()
	changed := make([]*seat.Record, 0, len(seatIDs))
	for _, id := range seatIDs {
		if err := records[id].Confirm(bookingID, now); err != nil {
			return err
		}
		changed = append(changed, records[id])
	}
	return tx.Seats().Save(ctx, changed)
}

// Extend moves the expiry of live holds of bookingID to until.
func (inv *Inventory) Extend(ctx context.Context, tx shared.Tx, tripID uuid.UUID, seatIDs []string, bookingID uuid.UUID, until time.Time) error {
	records, err := inv.lock(ctx, tx, tripID, seatIDs)
	if err != nil {
		return err
	}

	now := inv.clock.Now()
	changed := make([]*seat.Record, 0, len(seatIDs))
	for _, id := range seatIDs {
		before := records[id].Version()
		if err := records[id].Extend(bookingID, until, now); err != nil {
			return err
		}
		if records[id].Version() != before {
			changed = append(changed, records[id])
		}
	}
	return tx.Seats().Save(ctx, changed)
}

// ExpireIfPast reclaims the observed expired holds of bookingID. A seat is only
// reclaimed when its version still equals the one the sweeper saw, so a Confirm or
// Extend that slipped in between is never undone.
func (inv *Inventory) ExpireIfPast(
	ctx context.Context,
	tx shared.Tx,
	tripID uuid.UUID,
	bookingID uuid.UUID,
	expected map[string]int64,
) (ExpiryResult, error) {
	seatIDs := make([]string, 0, len(expected))
	for id := range expected {
		seatIDs = append(seatIDs, id)
	}
	sort.Strings(seatIDs)

	records, err := tx.Seats().LockForUpdate(ctx, tripID, seatIDs)
	if err != nil {
		return ExpiryResult{}, err
	}
	byID := make(map[string]*seat.Record, len(records))
	for _, r := range records {
		byID[r.SeatID()] = r
	}

	now := inv.clock.Now()
	var result ExpiryResult
	changed := make([]*seat.Record, 0, len(seatIDs))
	for _, id := range seatIDs {
		r, ok := byID[id]
		if !ok || !r.ExpireIfPast(bookingID, expected[id], now) {
			result.AlreadyChanged = append(result.AlreadyChanged, id)
			continue
		}
		result.Reclaimed = append(result.Reclaimed, id)
		changed = append(changed, r)
	}
	if err := tx.Seats().Save(ctx, changed); err != nil {
		return ExpiryResult{}, err
	}
	return result, nil
}

func (inv *Inventory) lock(ctx context.Context, tx shared.Tx, tripID uuid.UUID, seatIDs []string) (map[string]*seat.Record, error) {
	if len(seatIDs) == 0 {
		return nil, errs.NewValidationError("seatIds", "at least one seat is required")
	}
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return nil, errs.NewValidationError("seatIds", "seat "+id+" requested twice")
		}
		seen[id] = struct{}{}
	}
	records, err := tx.Seats().LockForUpdate(ctx, tripID, seatIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*seat.Record, len(records))
	for _, r := range records {
		byID[r.SeatID()] = r
	}
	for _, id := range seatIDs {
		if _, ok := byID[id]; !ok {
			return nil, errs.NewNotFoundError("seat", id)
		}
	}
	return byID, nil
}
