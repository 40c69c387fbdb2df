package payment

import (
	"strings"
	"time"

	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionApproved, DecisionRejected:
		return d, nil
	default:
		return "", errs.NewValidationError("decision", "must be approved or rejected")
	}
}

func (d Decision) String() string {
	return string(d)
}

const MaxReasonLength = 1000

// ValidationRecord is an administrator's final decision on a submitted payment.
// It is immutable once built; there is at most one per booking.
type ValidationRecord struct {
	bookingID  uuid.UUID
	reviewerID uuid.UUID
	decision   Decision
	reason     string
	decidedAt  time.Time
}

func NewValidationRecord(bookingID, reviewerID uuid.UUID, decision Decision, reason string, now time.Time) (*ValidationRecord, error) {
	if bookingID == uuid.Nil {
		return nil, errs.NewValidationError("bookingId", "is required")
	}
	if reviewerID == uuid.Nil {
		return nil, errs.NewValidationError("reviewerId", "is required")
	}
	if decision != DecisionApproved && decision != DecisionRejected {
		return nil, errs.NewValidationError("decision", "must be approved or rejected")
	}
	reason = strings.TrimSpace(reason)
	if decision == DecisionRejected && reason == "" {
		return nil, errs.NewValidationError("reason", "is required when rejecting a payment")
	}
	if len(reason) > MaxReasonLength {
		return nil, errs.NewValidationError("reason", "is too long")
	}
	return &ValidationRecord{
		bookingID:  bookingID,
		reviewerID: reviewerID,
		decision:   decision,
		reason:     reason,
		decidedAt:  now,
	}, nil
}

func ReconstructValidationRecord(bookingID, reviewerID uuid.UUID, decision Decision, reason string, decidedAt time.Time) *ValidationRecord {
	return &ValidationRecord{
		bookingID:  bookingID,
		reviewerID: reviewerID,
		decision:   decision,
		reason:     reason,
		decidedAt:  decidedAt,
	}
}

func (r *ValidationRecord) IsApproved() bool { return r.decision == DecisionApproved }

func (r *ValidationRecord) BookingID() uuid.UUID  { return r.bookingID }
func (r *ValidationRecord) ReviewerID() uuid.UUID { return r.reviewerID }
func (r *ValidationRecord) Decision() Decision    { return r.decision }
func (r *ValidationRecord) Reason() string        { return r.reason }
func (r *ValidationRecord) DecidedAt() time.Time  { return r.decidedAt }
