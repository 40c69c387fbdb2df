package memstore

import (
	"bytes"
	"context"
	"sort"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/seat"
	"travel-booking/internal/domain/trip"
	"travel-booking/internal/infra"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type tripRepo struct{ tx *memTx }

func (r tripRepo) Create(_ context.Context, t *trip.Trip) error {
	if err := r.tx.writable("create trip"); err != nil {
		return err
	}
	if _, exists := r.tx.trip(t.ID()); exists {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindDuplicateKey, "trip already exists", nil)
	}
	r.tx.trips[t.ID()] = t
	return nil
}

func (r tripRepo) FindByID(_ context.Context, id uuid.UUID) (*trip.Trip, error) {
	t, ok := r.tx.trip(id)
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "trip not found", nil)
	}
	return t, nil
}

type seatRepo struct{ tx *memTx }

func (r seatRepo) CreateAll(ctx context.Context, records []*seat.Record) error {
	if err := r.tx.writable("create seats"); err != nil {
		return err
	}
	for _, rec := range records {
		if err := r.tx.acquire(ctx, tripLockKey(rec.TripID())); err != nil {
			return err
		}
		staged, ok := r.tx.seats[rec.TripID()]
		if !ok {
			staged = make(map[string]*seat.Record)
			r.tx.seats[rec.TripID()] = staged
		}
		if _, dup := staged[rec.SeatID()]; dup {
			return infra.WrapRepoErr(r.tx.store.logger, infra.KindDuplicateKey, "seat record already exists", nil)
		}
		staged[rec.SeatID()] = rec.Clone()
		r.tx.seatCreates[rec.TripID()] = true
	}
	return nil
}

func (r seatRepo) ListByTrip(_ context.Context, tripID uuid.UUID) ([]*seat.Record, error) {
	return r.tx.seatRecords(tripID), nil
}

func (r seatRepo) LockForUpdate(ctx context.Context, tripID uuid.UUID, seatIDs []string) ([]*seat.Record, error) {
	if err := r.tx.acquire(ctx, tripLockKey(tripID)); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		wanted[id] = struct{}{}
	}
	all := r.tx.seatRecords(tripID)
	out := make([]*seat.Record, 0, len(seatIDs))
	for _, rec := range all {
		if _, ok := wanted[rec.SeatID()]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r seatRepo) Save(ctx context.Context, records []*seat.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.tx.writable("save seats"); err != nil {
		return err
	}
	for _, rec := range records {
		if err := r.tx.acquire(ctx, tripLockKey(rec.TripID())); err != nil {
			return err
		}
		staged, ok := r.tx.seats[rec.TripID()]
		if !ok {
			staged = make(map[string]*seat.Record)
			r.tx.seats[rec.TripID()] = staged
		}
		staged[rec.SeatID()] = rec.Clone()
	}
	return nil
}

// ListExpiredHolds skips holds of bookings under payment review, matching the SQL driver.
func (r seatRepo) ListExpiredHolds(_ context.Context, now time.Time, limit int) ([]shared.ExpiredHold, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []shared.ExpiredHold
	for tripID, records := range s.seats {
		for _, rec := range records {
			if !rec.HoldExpired(now) {
				continue
			}
			if b, ok := s.bookings[rec.HolderID()]; ok && b.Status() == booking.StatusPaymentSubmitted {
				continue
			}
			out = append(out, shared.ExpiredHold{
				TripID:        tripID,
				SeatID:        rec.SeatID(),
				BookingID:     rec.HolderID(),
				Version:       rec.Version(),
				HoldExpiresAt: rec.HoldExpiresAt(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].HoldExpiresAt.Equal(out[j].HoldExpiresAt) {
			return out[i].HoldExpiresAt.Before(out[j].HoldExpiresAt)
		}
		if out[i].TripID != out[j].TripID {
			return bytes.Compare(out[i].TripID[:], out[j].TripID[:]) < 0
		}
		return out[i].SeatID < out[j].SeatID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type bookingRepo struct{ tx *memTx }

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if err := r.tx.writable("create booking"); err != nil {
		return err
	}
	if _, exists := r.tx.booking(b.ID()); exists {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindDuplicateKey, "booking already exists", nil)
	}
	r.tx.bookings[b.ID()] = &stagedBooking{b: cloneBooking(b)}
	return nil
}

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.tx.booking(id)
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "booking not found", nil)
	}
	return b, nil
}

func (r bookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	if err := r.tx.acquire(ctx, bookingLockKey(id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r bookingRepo) Update(ctx context.Context, b *booking.Booking) error {
	if err := r.tx.writable("update booking"); err != nil {
		return err
	}
	if err := r.tx.acquire(ctx, bookingLockKey(b.ID())); err != nil {
		return err
	}
	current, ok := r.tx.booking(b.ID())
	if !ok || current.Version() != b.Version() {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindVersionConflict, "booking version changed", nil)
	}

	base := b.Version()
	if prev, staged := r.tx.bookings[b.ID()]; staged {
		base = prev.baseVersion
	}
	b.BumpVersion()
	r.tx.bookings[b.ID()] = &stagedBooking{b: cloneBooking(b), baseVersion: base}
	return nil
}

func (r bookingRepo) ListByPassenger(_ context.Context, passengerID uuid.UUID, after *shared.PageKey, limit int) ([]*booking.Booking, error) {
	s := r.tx.store
	s.mu.RLock()
	var out []*booking.Booking
	for _, b := range s.bookings {
		if b.PassengerID() == passengerID {
			out = append(out, cloneBooking(b))
		}
	}
	s.mu.RUnlock()

	newerFirst := func(a *booking.Booking, createdAt time.Time, id uuid.UUID) bool {
		if !a.CreatedAt().Equal(createdAt) {
			return a.CreatedAt().After(createdAt)
		}
		aid := a.ID()
		return bytes.Compare(aid[:], id[:]) > 0
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i], out[j].CreatedAt(), out[j].ID()) })

	if after != nil {
		filtered := out[:0]
		for _, b := range out {
			if !newerFirst(b, after.CreatedAt, after.ID) && b.ID() != after.ID {
				filtered = append(filtered, b)
			}
		}
		out = filtered
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type validationRepo struct{ tx *memTx }

func (r validationRepo) Insert(_ context.Context, rec *payment.ValidationRecord) error {
	if err := r.tx.writable("record payment validation"); err != nil {
		return err
	}
	if _, exists := r.tx.validation(rec.BookingID()); exists {
		return infra.WrapRepoErr(r.tx.store.logger, infra.KindDuplicateKey, "payment validation already exists", nil)
	}
	r.tx.validations[rec.BookingID()] = rec
	return nil
}

func (r validationRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*payment.ValidationRecord, error) {
	rec, ok := r.tx.validation(bookingID)
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.store.logger, infra.KindNotFound, "payment validation not found", nil)
	}
	return rec, nil
}

type outboxRepo struct{ tx *memTx }

func (r outboxRepo) Enqueue(_ context.Context, ev shared.OutboxEvent) error {
	if err := r.tx.writable("enqueue event"); err != nil {
		return err
	}
	r.tx.outbox = append(r.tx.outbox, &ev)
	return nil
}

func (r outboxRepo) FetchPending(ctx context.Context, limit, maxAttempts int) ([]shared.OutboxEvent, error) {
	if err := r.tx.acquire(ctx, outboxLockKey); err != nil {
		return nil, err
	}
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []shared.OutboxEvent
	for _, ev := range s.outbox {
		if ev.PublishedAt != nil || ev.Attempts >= maxAttempts {
			continue
		}
		out = append(out, *ev)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r outboxRepo) MarkPublished(_ context.Context, id uuid.UUID, at time.Time) error {
	if err := r.tx.writable("mark event published"); err != nil {
		return err
	}
	r.tx.outboxMarks[id] = outboxUpdate{publishedAt: &at}
	return nil
}

func (r outboxRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	if err := r.tx.writable("mark event failed"); err != nil {
		return err
	}
	r.tx.outboxMarks[id] = outboxUpdate{failure: reason}
	return nil
}

// Events returns a snapshot of every committed outbox row, oldest first.
func (s *Store) Events() []shared.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]shared.OutboxEvent, 0, len(s.outbox))
	for _, ev := range s.outbox {
		out = append(out, *ev)
	}
	return out
}
