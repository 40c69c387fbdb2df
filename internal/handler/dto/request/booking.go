package request

import (
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/pkg/patch"

	"github.com/google/uuid"
)

// StartBookingRequest opens a draft. Staff may book on behalf of a passenger;
// everyone else books for themselves.
type StartBookingRequest struct {
	TripID      uuid.UUID  `json:"trip_id" binding:"required"`
	PassengerID *uuid.UUID `json:"passenger_id"`
}

func (r *StartBookingRequest) Passenger(actorID uuid.UUID) uuid.UUID {
	return patch.Coalesce(r.PassengerID, actorID)
}

type SelectSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,required,max=16"`
}

type SubmitPaymentRequest struct {
	ProofRef string `json:"proof_ref" binding:"required,max=512"`
}

type ValidatePaymentRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Reason   string `json:"reason" binding:"max=1000"`
}

func (r *ValidatePaymentRequest) ToDecision() (payment.Decision, error) {
	return payment.ParseDecision(r.Decision)
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}
