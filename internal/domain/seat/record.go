package seat

import (
	"fmt"
	"strings"
	"time"

	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusHeld      Status = "held"
	StatusBooked    Status = "booked"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusHeld, StatusBooked:
		return true
	default:
		return false
	}
}

// ErrNotHeldByCaller matches errs.ErrHoldExpiredOrMismatch under errs.Is.
var ErrNotHeldByCaller = errs.Mark(errs.New("seat is not held by this booking"), errs.ErrHoldExpiredOrMismatch)

// ConflictError lists the requested seats that were not available, in request order.
type ConflictError struct {
	SeatIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.SeatIDs, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == errs.ErrSeatConflict
}

// Record is the status of one seat on one trip.
//
// Held and Booked always carry a holder; Available never does. Every accepted
// mutation increments version, which callers use as a compare-and-swap stamp.
type Record struct {
	tripID        uuid.UUID
	seatID        string
	status        Status
	holderID      uuid.UUID
	holdExpiresAt time.Time
	version       int64
}

func NewAvailable(tripID uuid.UUID, seatID string) *Record {
	return &Record{tripID: tripID, seatID: seatID, status: StatusAvailable, version: 1}
}

func ReconstructRecord(
	tripID uuid.UUID,
	seatID string,
	status Status,
	holderID uuid.UUID,
	holdExpiresAt time.Time,
	version int64,
) *Record {
	return &Record{
		tripID:        tripID,
		seatID:        seatID,
		status:        status,
		holderID:      holderID,
		holdExpiresAt: holdExpiresAt,
		version:       version,
	}
}

// IsHoldable reports whether the seat can be claimed now. An expired hold that the
// sweeper has not reclaimed yet still blocks new claims.
func (r *Record) IsHoldable() bool {
	return r.status == StatusAvailable
}

func (r *Record) IsHeldBy(bookingID uuid.UUID) bool {
	return r.status == StatusHeld && r.holderID == bookingID
}

func (r *Record) HoldExpired(now time.Time) bool {
	return r.status == StatusHeld && !now.Before(r.holdExpiresAt)
}

func (r *Record) Hold(bookingID uuid.UUID, expiresAt time.Time) error {
	if !r.IsHoldable() {
		return &ConflictError{SeatIDs: []string{r.seatID}}
	}
	r.status = StatusHeld
	r.holderID = bookingID
	r.holdExpiresAt = expiresAt
	r.version++
	return nil
}

// Release frees a seat held by bookingID. Already-available seats are left untouched.
func (r *Record) Release(bookingID uuid.UUID) (changed bool, err error) {
	if r.status == StatusAvailable {
		return false, nil
	}
	if !r.IsHeldBy(bookingID) {
		return false, errs.Wrapf(ErrNotHeldByCaller, "release seat %s", r.seatID)
	}
	r.clear()
	return true, nil
}

func (r *Record) Confirm(bookingID uuid.UUID, now time.Time) error {
	if !r.IsHeldBy(bookingID) || r.HoldExpired(now) {
		return errs.Wrapf(errs.ErrHoldExpiredOrMismatch, "confirm seat %s", r.seatID)
	}
	r.status = StatusBooked
	r.holdExpiresAt = time.Time{}
	r.version++
	return nil
}

// Extend pushes the expiry of a live hold forward.
func (r *Record) Extend(bookingID uuid.UUID, expiresAt, now time.Time) error {
	if !r.IsHeldBy(bookingID) || r.HoldExpired(now) {
		return errs.Wrapf(errs.ErrHoldExpiredOrMismatch, "extend hold on seat %s", r.seatID)
	}
	if expiresAt.After(r.holdExpiresAt) {
		r.holdExpiresAt = expiresAt
		r.version++
	}
	return nil
}

// ExpireIfPast reclaims the seat only when it is still in exactly the state the
// sweeper observed: same holder, same version, hold past expiry.
func (r *Record) ExpireIfPast(bookingID uuid.UUID, expectedVersion int64, now time.Time) bool {
	if r.version != expectedVersion || !r.IsHeldBy(bookingID) || !r.HoldExpired(now) {
		return false
	}
	r.clear()
	return true
}

func (r *Record) clear() {
	r.status = StatusAvailable
	r.holderID = uuid.Nil
	r.holdExpiresAt = time.Time{}
	r.version++
}

func (r *Record) Clone() *Record {
	c := *r
	return &c
}

func (r *Record) TripID() uuid.UUID        { return r.tripID }
func (r *Record) SeatID() string           { return r.seatID }
func (r *Record) Status() Status           { return r.status }
func (r *Record) HolderID() uuid.UUID      { return r.holderID }
func (r *Record) HoldExpiresAt() time.Time { return r.holdExpiresAt }
func (r *Record) Version() int64           { return r.version }
