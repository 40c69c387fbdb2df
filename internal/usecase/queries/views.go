package queries

import (
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/seat"
	"travel-booking/internal/domain/trip"

	"github.com/google/uuid"
)

// SeatNotReservable marks layout positions such as the driver seat in availability views.
const SeatNotReservable = "not_reservable"

type BookingView struct {
	ID              uuid.UUID  `json:"id"`
	TripID          uuid.UUID  `json:"trip_id"`
	PassengerID     uuid.UUID  `json:"passenger_id"`
	SeatIDs         []string   `json:"seat_ids"`
	Status          string     `json:"status"`
	TotalAmount     int64      `json:"total_amount"`
	PaymentProofRef string     `json:"payment_proof_ref,omitempty"`
	HoldExpiresAt   *time.Time `json:"hold_expires_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type TripSeatView struct {
	ID         string `json:"id"`
	Reservable bool   `json:"reservable"`
}

type TripView struct {
	ID                 uuid.UUID      `json:"id"`
	Origin             string         `json:"origin"`
	Destination        string         `json:"destination"`
	DepartureAt        time.Time      `json:"departure_at"`
	Capacity           int            `json:"capacity"`
	Seats              []TripSeatView `json:"seats"`
	PricePerSeat       int64          `json:"price_per_seat"`
	MaxSeatsPerBooking int            `json:"max_seats_per_booking"`
	CreatedAt          time.Time      `json:"created_at"`
}

type SeatStatusView struct {
	SeatID string `json:"seat_id"`
	Status string `json:"status"`
}

type SeatAvailabilityView struct {
	TripID    uuid.UUID        `json:"trip_id"`
	Seats     []SeatStatusView `json:"seats"`
	Available int              `json:"available"`
}

type ValidationView struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

func ToBookingView(b *booking.Booking) *BookingView {
	v := &BookingView{
		ID:              b.ID(),
		TripID:          b.TripID(),
		PassengerID:     b.PassengerID(),
		SeatIDs:         b.SeatIDs(),
		Status:          b.Status().String(),
		TotalAmount:     b.TotalAmount().Amount(),
		PaymentProofRef: b.PaymentProofRef(),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
	if v.SeatIDs == nil {
		v.SeatIDs = []string{}
	}
	if exp := b.HoldExpiresAt(); !exp.IsZero() {
		v.HoldExpiresAt = &exp
	}
	return v
}

func ToTripView(t *trip.Trip) *TripView {
	layout := t.Layout()
	seats := make([]TripSeatView, 0, len(layout))
	for _, s := range layout {
		seats = append(seats, TripSeatView{ID: s.ID, Reservable: s.Reservable})
	}
	return &TripView{
		ID:                 t.ID(),
		Origin:             t.Origin(),
		Destination:        t.Destination(),
		DepartureAt:        t.DepartureAt(),
		Capacity:           t.Capacity(),
		Seats:              seats,
		PricePerSeat:       t.PricePerSeat().Amount(),
		MaxSeatsPerBooking: t.MaxSeatsPerBooking(),
		CreatedAt:          t.CreatedAt(),
	}
}

// ToSeatAvailabilityView lists seats in layout order.
func ToSeatAvailabilityView(t *trip.Trip, statuses map[string]seat.Status) *SeatAvailabilityView {
	layout := t.Layout()
	v := &SeatAvailabilityView{TripID: t.ID(), Seats: make([]SeatStatusView, 0, len(layout))}
	for _, s := range layout {
		status := SeatNotReservable
		if st, ok := statuses[s.ID]; ok && s.Reservable {
			status = st.String()
			if st == seat.StatusAvailable {
				v.Available++
			}
		}
		v.Seats = append(v.Seats, SeatStatusView{SeatID: s.ID, Status: status})
	}
	return v
}

func ToValidationView(r *payment.ValidationRecord) *ValidationView {
	return &ValidationView{
		BookingID:  r.BookingID(),
		ReviewerID: r.ReviewerID(),
		Decision:   r.Decision().String(),
		Reason:     r.Reason(),
		DecidedAt:  r.DecidedAt(),
	}
}
