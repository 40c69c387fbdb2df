package memstore

import (
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

type stagedBooking struct {
	b           *booking.Booking
	baseVersion int64 // committed version the first write was based on; 0 for creates
}

type outboxUpdate struct {
	publishedAt *time.Time
	failure     string
}

type memTx struct {
	store    *Store
	readOnly bool
	held     []string
	heldSet  map[string]struct{}

	trips       map[uuid.UUID]*trip.Trip
	seats       map[uuid.UUID]map[string]*seat.Record
	seatCreates map[uuid.UUID]bool
	bookings    map[uuid.UUID]*stagedBooking
	validations map[uuid.UUID]*payment.ValidationRecord
	outbox      []*shared.OutboxEvent
	outboxMarks map[uuid.UUID]outboxUpdate
}

func newTx(store *Store, readOnly bool) *memTx {
	return &memTx{
		store:       store,
		readOnly:    readOnly,
		heldSet:     make(map[string]struct{}),
		trips:       make(map[uuid.UUID]*trip.Trip),
		seats:       make(map[uuid.UUID]map[string]*seat.Record),
		seatCreates: make(map[uuid.UUID]bool),
		bookings:    make(map[uuid.UUID]*stagedBooking),
		validations: make(map[uuid.UUID]*payment.ValidationRecord),
		outboxMarks: make(map[uuid.UUID]outboxUpdate),
	}
}

func (t *memTx) Trips() shared.TripRepository             { return tripRepo{t} }
func (t *memTx) Seats() shared.SeatRepository             { return seatRepo{t} }
func (t *memTx) Bookings() shared.BookingRepository       { return bookingRepo{t} }
func (t *memTx) Validations() shared.ValidationRepository { return validationRepo{t} }
func (t *memTx) Outbox() shared.OutboxRepository          { return outboxRepo{t} }

// acquire takes key for the rest of the transaction. Re-acquiring is a no-op.
func (t *memTx) acquire(ctx context.Context, key string) error {
	if _, ok := t.heldSet[key]; ok {
		return nil
	}
	if err := t.store.locks.lock(ctx, key); err != nil {
		return infra.WrapRepoErr(t.store.logger, infra.KindDBFailure, "failed to acquire lock "+key, err)
	}
	t.heldSet[key] = struct{}{}
	t.held = append(t.held, key)
	return nil
}

func (t *memTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.locks.unlock(t.held[i])
	}
	t.held = nil
	t.heldSet = map[string]struct{}{}
}

func (t *memTx) writable(what string) error {
	if t.readOnly {
		return infra.WrapRepoErr(t.store.logger, infra.KindDBFailure, "cannot "+what+" in a read-only transaction", nil)
	}
	return nil
}

func tripLockKey(id uuid.UUID) string    { return "trip:" + id.String() }
func bookingLockKey(id uuid.UUID) string { return "booking:" + id.String() }

const outboxLockKey = "outbox"

// commit re-checks every optimistic guard against committed state and applies the
// staged writes atomically.
func (t *memTx) commit() error {
	if t.readOnly {
		return nil
	}
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.trips {
		if _, exists := s.trips[id]; exists {
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "trip already exists", nil)
		}
	}
	for tripID := range t.seatCreates {
		if _, exists := s.seats[tripID]; exists {
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "seat records already exist", nil)
		}
	}
	for id, sb := range t.bookings {
		current, exists := s.bookings[id]
		switch {
		case sb.baseVersion == 0 && exists:
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "booking already exists", nil)
		case sb.baseVersion != 0 && (!exists || current.Version() != sb.baseVersion):
			return infra.WrapRepoErr(s.logger, infra.KindVersionConflict, "booking version changed", nil)
		}
	}
	for id := range t.validations {
		if _, exists := s.validations[id]; exists {
			return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "payment validation already exists", nil)
		}
	}

	for id, tr := range t.trips {
		s.trips[id] = tr
	}
	for tripID, staged := range t.seats {
		committed, ok := s.seats[tripID]
		if !ok {
			committed = make(map[string]*seat.Record, len(staged))
			s.seats[tripID] = committed
		}
		for seatID, r := range staged {
			committed[seatID] = r.Clone()
		}
	}
	for id, sb := range t.bookings {
		s.bookings[id] = cloneBooking(sb.b)
	}
	for id, rec := range t.validations {
		s.validations[id] = rec
	}
	for _, ev := range s.outbox {
		mark, ok := t.outboxMarks[ev.ID]
		if !ok {
			continue
		}
		if mark.publishedAt != nil {
			ev.PublishedAt = mark.publishedAt
		} else {
			ev.Attempts++
			ev.LastError = mark.failure
		}
	}
	for _, ev := range t.outbox {
		cp := *ev
		s.outbox = append(s.outbox, &cp)
	}
	return nil
}

// Reads below see the transaction's own staged writes first.

func (t *memTx) trip(id uuid.UUID) (*trip.Trip, bool) {
	if tr, ok := t.trips[id]; ok {
		return tr, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	tr, ok := t.store.trips[id]
	return tr, ok
}

func (t *memTx) seatRecords(tripID uuid.UUID) []*seat.Record {
	t.store.mu.RLock()
	committed := t.store.seats[tripID]
	out := make(map[string]*seat.Record, len(committed))
	for id, r := range committed {
		out[id] = r.Clone()
	}
	t.store.mu.RUnlock()

	for id, r := range t.seats[tripID] {
		out[id] = r.Clone()
	}
	records := make([]*seat.Record, 0, len(out))
	for _, r := range out {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].SeatID() < records[j].SeatID() })
	return records
}

func (t *memTx) booking(id uuid.UUID) (*booking.Booking, bool) {
	if sb, ok := t.bookings[id]; ok {
		return cloneBooking(sb.b), true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	b, ok := t.store.bookings[id]
	if !ok {
		return nil, false
	}
	return cloneBooking(b), true
}

func (t *memTx) validation(bookingID uuid.UUID) (*payment.ValidationRecord, bool) {
	if rec, ok := t.validations[bookingID]; ok {
		return rec, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	rec, ok := t.store.validations[bookingID]
	return rec, ok
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.Reconstruct(
		b.ID(), b.TripID(), b.PassengerID(),
		b.SeatIDs(),
		b.Status(),
		b.TotalAmount(),
		b.PaymentProofRef(),
		b.HoldExpiresAt(),
		b.Version(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}
