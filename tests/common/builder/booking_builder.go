//go:build unit || e2e

package builder

import (
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/money"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID              uuid.UUID
	TripID          uuid.UUID
	PassengerID     uuid.UUID
	SeatIDs         []string
	Status          booking.Status
	TotalAmount     int64
	PaymentProofRef string
	HoldExpiresAt   time.Time
	Version         int64
	CreatedAt       time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &BookingBuilder{
		ID:            uuid.New(),
		TripID:        uuid.New(),
		PassengerID:   uuid.New(),
		SeatIDs:       []string{"2A", "3A"},
		Status:        booking.StatusSeatsSelected,
		HoldExpiresAt: now.Add(15 * time.Minute),
		Version:       2,
		CreatedAt:     now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithPassenger(id uuid.UUID) *BookingBuilder {
	b.PassengerID = id
	return b
}

// BuildDomain reconstructs the aggregate directly in the configured status.
func (b *BookingBuilder) BuildDomain() *booking.Booking {
	return booking.Reconstruct(
		b.ID,
		b.TripID,
		b.PassengerID,
		append([]string(nil), b.SeatIDs...),
		b.Status,
		money.MustNew(b.TotalAmount),
		b.PaymentProofRef,
		b.HoldExpiresAt,
		b.Version,
		b.CreatedAt,
		b.CreatedAt,
	)
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return queries.ToBookingView(b.BuildDomain())
}

func (b *BookingBuilder) BuildStartRequestDTO() reqdto.StartBookingRequest {
	return reqdto.StartBookingRequest{TripID: b.TripID}
}

func (b *BookingBuilder) BuildSelectSeatsRequestDTO() reqdto.SelectSeatsRequest {
	return reqdto.SelectSeatsRequest{SeatIDs: append([]string(nil), b.SeatIDs...)}
}

func (b *BookingBuilder) BuildSubmitPaymentRequestDTO() reqdto.SubmitPaymentRequest {
	return reqdto.SubmitPaymentRequest{ProofRef: "transfer-receipt-001.jpg"}
}

func (b *BookingBuilder) BuildValidatePaymentRequestDTO() reqdto.ValidatePaymentRequest {
	return reqdto.ValidatePaymentRequest{Decision: "approved"}
}
