package repository

import (
	"context"
	"log/slog"
	"time"

	"travel-booking/internal/domain/payment"

	"github.com/google/uuid"
)

const (
	insertValidationSQL = `
INSERT INTO payment_validations (booking_id, reviewer_id, decision, reason, decided_at)
VALUES ($1, $2, $3, $4, $5)`

	selectValidationSQL = `
SELECT booking_id, reviewer_id, decision, reason, decided_at
FROM payment_validations
WHERE booking_id = $1`
)

type ValidationRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewValidationRepository(db DBTX, logger *slog.Logger) *ValidationRepository {
	return &ValidationRepository{db: db, logger: logger}
}

// Insert fails with a duplicate-key error when the booking already has a decision.
func (r *ValidationRepository) Insert(ctx context.Context, rec *payment.ValidationRecord) error {
	if _, err := r.db.Exec(ctx, insertValidationSQL,
		rec.BookingID(), rec.ReviewerID(), rec.Decision().String(), rec.Reason(), rec.DecidedAt(),
	); err != nil {
		return wrapErr(r.logger, "failed to record payment validation", err)
	}
	return nil
}

func (r *ValidationRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.ValidationRecord, error) {
	var (
		id, reviewerID uuid.UUID
		decision       string
		reason         string
		decidedAt      time.Time
	)
	err := r.db.QueryRow(ctx, selectValidationSQL, bookingID).Scan(&id, &reviewerID, &decision, &reason, &decidedAt)
	if err != nil {
		return nil, wrapErr(r.logger, "failed to find payment validation", err)
	}
	d, err := payment.ParseDecision(decision)
	if err != nil {
		return nil, wrapErr(r.logger, "stored payment decision is invalid", err)
	}
	return payment.ReconstructValidationRecord(id, reviewerID, d, reason, decidedAt), nil
}
