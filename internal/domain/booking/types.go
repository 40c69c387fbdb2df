package booking

import (
	"fmt"

	"travel-booking/internal/pkg/errs"
)

type Status string

const (
	StatusDraft            Status = "draft"
	StatusSeatsSelected    Status = "seats_selected"
	StatusAwaitingPayment  Status = "awaiting_payment"
	StatusPaymentSubmitted Status = "payment_submitted"
	StatusConfirmed        Status = "confirmed"
	StatusRejected         Status = "rejected"
	StatusCancelled        Status = "cancelled"
	StatusExpired          Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errs.NewValidationError("status", fmt.Sprintf("unknown booking status %q", s))
	}
	return st, nil
}

// transitions is the complete workflow graph; nothing outside it is ever applied.
var transitions = map[Status][]Status{
	StatusDraft:            {StatusSeatsSelected, StatusCancelled},
	StatusSeatsSelected:    {StatusAwaitingPayment, StatusCancelled, StatusExpired},
	StatusAwaitingPayment:  {StatusPaymentSubmitted, StatusCancelled, StatusExpired},
	StatusPaymentSubmitted: {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:        {},
	StatusRejected:         {},
	StatusCancelled:        {},
	StatusExpired:          {},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type TransitionError struct {
	From    Status
	Command string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a booking in status %s", e.Command, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == errs.ErrInvalidTransition
}
