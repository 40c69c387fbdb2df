// Package ledger keeps the single administrative decision taken on each submitted payment.
package ledger

import (
	"context"
	"log/slog"

	"travel-booking/internal/domain/payment"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Ledger struct {
	clock  clock.Clock
	logger *slog.Logger
}

func New(clk clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{clock: clk, logger: logger}
}

// Record appends the decision for bookingID. A second decision for the same booking
// fails with ErrAlreadyDecided and leaves the first one untouched.
func (l *Ledger) Record(
	ctx context.Context,
	tx shared.Tx,
	bookingID, reviewerID uuid.UUID,
	decision payment.Decision,
	reason string,
) (*payment.ValidationRecord, error) {
	existing, err := tx.Validations().FindByBookingID(ctx, bookingID)
	switch {
	case err == nil:
		return nil, alreadyDecided(existing)
	case !infra.IsKind(err, infra.KindNotFound):
		return nil, errs.Wrap(err, "load payment validation")
	}

	rec, err := payment.NewValidationRecord(bookingID, reviewerID, decision, reason, l.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := tx.Validations().Insert(ctx, rec); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Wrap(errs.ErrAlreadyDecided, "payment for booking "+bookingID.String()+" was already decided")
		}
		return nil, errs.Wrap(err, "record payment validation")
	}

	l.logger.Info("Payment decision recorded",
		"booking_id", bookingID,
		"reviewer_id", reviewerID,
		"decision", decision)
	return rec, nil
}

func (l *Ledger) Get(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*payment.ValidationRecord, error) {
	rec, err := tx.Validations().FindByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.NewNotFoundError("payment validation", bookingID.String())
		}
		return nil, errs.Wrap(err, "load payment validation")
	}
	return rec, nil
}

func alreadyDecided(rec *payment.ValidationRecord) error {
	return errs.Wrapf(errs.ErrAlreadyDecided, "payment for booking %s was already %s", rec.BookingID(), rec.Decision())
}
