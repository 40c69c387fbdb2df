package response

import (
	"time"

	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TripSeatResponse struct {
	ID         string `json:"id"`
	Reservable bool   `json:"reservable"`
}

type TripResponse struct {
	ID                 uuid.UUID          `json:"id"`
	Origin             string             `json:"origin"`
	Destination        string             `json:"destination"`
	DepartureAt        time.Time          `json:"departure_at"`
	Capacity           int                `json:"capacity"`
	Seats              []TripSeatResponse `json:"seats"`
	PricePerSeat       int64              `json:"price_per_seat"`
	MaxSeatsPerBooking int                `json:"max_seats_per_booking"`
	CreatedAt          time.Time          `json:"created_at"`
}

func FromTripView(v *queries.TripView) *TripResponse {
	var res TripResponse
	_ = copier.Copy(&res, v)
	return &res
}

type SeatStatusResponse struct {
	SeatID string `json:"seat_id"`
	Status string `json:"status"`
}

type SeatAvailabilityResponse struct {
	TripID    uuid.UUID            `json:"trip_id"`
	Seats     []SeatStatusResponse `json:"seats"`
	Available int                  `json:"available"`
}

func FromSeatAvailabilityView(v *queries.SeatAvailabilityView) *SeatAvailabilityResponse {
	var res SeatAvailabilityResponse
	_ = copier.Copy(&res, v)
	return &res
}
