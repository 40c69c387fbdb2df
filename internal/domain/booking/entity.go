package booking

import (
	"strings"
	"time"

	"travel-booking/internal/domain/money"
	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const maxProofRefLength = 512

type Booking struct {
	id              uuid.UUID
	tripID          uuid.UUID
	passengerID     uuid.UUID
	seatIDs         []string
	status          Status
	totalAmount     money.Money
	paymentProofRef string
	holdExpiresAt   time.Time
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

func New(tripID, passengerID uuid.UUID, now time.Time) (*Booking, error) {
	if tripID == uuid.Nil {
		return nil, errs.NewValidationError("tripId", "is required")
	}
	if passengerID == uuid.Nil {
		return nil, errs.NewValidationError("passengerId", "is required")
	}
	return &Booking{
		id:          uuid.New(),
		tripID:      tripID,
		passengerID: passengerID,
		status:      StatusDraft,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func Reconstruct(
	id, tripID, passengerID uuid.UUID,
	seatIDs []string,
	status Status,
	totalAmount money.Money,
	paymentProofRef string,
	holdExpiresAt time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		tripID:          tripID,
		passengerID:     passengerID,
		seatIDs:         seatIDs,
		status:          status,
		totalAmount:     totalAmount,
		paymentProofRef: paymentProofRef,
		holdExpiresAt:   holdExpiresAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Booking) transition(to Status, command string, now time.Time) error {
	if !CanTransition(b.status, to) {
		return &TransitionError{From: b.status, Command: command}
	}
	b.status = to
	b.updatedAt = now
	return nil
}

func (b *Booking) ensure(from Status, command string) error {
	if b.status != from {
		return &TransitionError{From: b.status, Command: command}
	}
	return nil
}

// SelectSeats records seats that SeatInventory has already placed on hold for this booking.
func (b *Booking) SelectSeats(seatIDs []string, holdExpiresAt, now time.Time) error {
	if err := b.ensure(StatusDraft, "select seats for"); err != nil {
		return err
	}
	if len(seatIDs) == 0 {
		return errs.NewValidationError("seatIds", "at least one seat is required")
	}
	if err := b.transition(StatusSeatsSelected, "select seats for", now); err != nil {
		return err
	}
	b.seatIDs = append([]string(nil), seatIDs...)
	b.holdExpiresAt = holdExpiresAt
	return nil
}

// ProceedToPayment fixes the amount due. The total is always supplied by the server from the trip price.
func (b *Booking) ProceedToPayment(total money.Money, now time.Time) error {
	if err := b.ensure(StatusSeatsSelected, "proceed to payment for"); err != nil {
		return err
	}
	if err := b.transition(StatusAwaitingPayment, "proceed to payment for", now); err != nil {
		return err
	}
	b.totalAmount = total
	return nil
}

func (b *Booking) SubmitPayment(proofRef string, holdExpiresAt, now time.Time) error {
	if err := b.ensure(StatusAwaitingPayment, "submit payment for"); err != nil {
		return err
	}
	proofRef = strings.TrimSpace(proofRef)
	if proofRef == "" {
		return errs.NewValidationError("proofRef", "is required")
	}
	if len(proofRef) > maxProofRefLength {
		return errs.NewValidationError("proofRef", "is too long")
	}
	if err := b.transition(StatusPaymentSubmitted, "submit payment for", now); err != nil {
		return err
	}
	b.paymentProofRef = proofRef
	b.holdExpiresAt = holdExpiresAt
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	if err := b.ensure(StatusPaymentSubmitted, "confirm"); err != nil {
		return err
	}
	if err := b.transition(StatusConfirmed, "confirm", now); err != nil {
		return err
	}
	b.holdExpiresAt = time.Time{}
	return nil
}

func (b *Booking) Reject(now time.Time) error {
	if err := b.ensure(StatusPaymentSubmitted, "reject"); err != nil {
		return err
	}
	if err := b.transition(StatusRejected, "reject", now); err != nil {
		return err
	}
	b.holdExpiresAt = time.Time{}
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	if err := b.transition(StatusCancelled, "cancel", now); err != nil {
		return err
	}
	b.holdExpiresAt = time.Time{}
	return nil
}

// Expire is driven only by the hold-expiry sweeper.
func (b *Booking) Expire(now time.Time) error {
	if err := b.transition(StatusExpired, "expire", now); err != nil {
		return err
	}
	b.holdExpiresAt = time.Time{}
	return nil
}

// HasHeldSeats reports whether the booking currently owns seat holds in the inventory.
func (b *Booking) HasHeldSeats() bool {
	switch b.status {
	case StatusSeatsSelected, StatusAwaitingPayment, StatusPaymentSubmitted:
		return len(b.seatIDs) > 0
	default:
		return false
	}
}

// BumpVersion is called by repositories after the aggregate was written.
func (b *Booking) BumpVersion() {
	b.version++
}

func (b *Booking) IsOwnedBy(principalID uuid.UUID) bool {
	return b.passengerID == principalID
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) TripID() uuid.UUID        { return b.tripID }
func (b *Booking) PassengerID() uuid.UUID   { return b.passengerID }
func (b *Booking) SeatIDs() []string        { return append([]string(nil), b.seatIDs...) }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) TotalAmount() money.Money { return b.totalAmount }
func (b *Booking) PaymentProofRef() string  { return b.paymentProofRef }
func (b *Booking) HoldExpiresAt() time.Time { return b.holdExpiresAt }
func (b *Booking) Version() int64           { return b.version }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }
