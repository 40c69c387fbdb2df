package outbox

import (
	"encoding/json"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const TopicPrefix = "booking."

// BookingPayload is the body of every booking.<status> event.
type BookingPayload struct {
	BookingID   uuid.UUID `json:"bookingId"`
	TripID      uuid.UUID `json:"tripId"`
	PassengerID uuid.UUID `json:"passengerId"`
	Status      string    `json:"status"`
	SeatIDs     []string  `json:"seatIds"`
	TotalAmount int64     `json:"totalAmount"`
	Version     int64     `json:"version"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// BookingEvent builds the outbox row announcing b's current status.
func BookingEvent(b *booking.Booking, now time.Time) (shared.OutboxEvent, error) {
	body, err := json.Marshal(BookingPayload{
		BookingID:   b.ID(),
		TripID:      b.TripID(),
		PassengerID: b.PassengerID(),
		Status:      b.Status().String(),
		SeatIDs:     b.SeatIDs(),
		TotalAmount: b.TotalAmount().Amount(),
		Version:     b.Version(),
		OccurredAt:  now,
	})
	if err != nil {
		return shared.OutboxEvent{}, err
	}
	return shared.OutboxEvent{
		ID:          uuid.New(),
		Topic:       TopicPrefix + b.Status().String(),
		AggregateID: b.ID(),
		Payload:     body,
		CreatedAt:   now,
	}, nil
}
