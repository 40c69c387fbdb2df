package request

import (
	"time"

	"travel-booking/internal/domain/trip"
	"travel-booking/internal/usecase/commands"
)

type SeatRequest struct {
	ID         string `json:"id" binding:"required,max=16"`
	Reservable bool   `json:"reservable"`
}

type ScheduleTripRequest struct {
	Origin             string        `json:"origin" binding:"required,max=120"`
	Destination        string        `json:"destination" binding:"required,max=120"`
	DepartureAt        time.Time     `json:"departure_at" binding:"required"`
	Layout             []SeatRequest `json:"layout" binding:"omitempty,dive"`
	PricePerSeat       int64         `json:"price_per_seat" binding:"min=0"`
	MaxSeatsPerBooking *int          `json:"max_seats_per_booking" binding:"omitempty,min=1"`
}

func (r *ScheduleTripRequest) ToCommand() commands.ScheduleTripRequest {
	var layout []trip.Seat
	for _, s := range r.Layout {
		layout = append(layout, trip.Seat{ID: s.ID, Reservable: s.Reservable})
	}
	cmd := commands.ScheduleTripRequest{
		Origin:       r.Origin,
		Destination:  r.Destination,
		DepartureAt:  r.DepartureAt,
		Layout:       layout,
		PricePerSeat: r.PricePerSeat,
	}
	if r.MaxSeatsPerBooking != nil {
		cmd.MaxSeatsPerBooking = *r.MaxSeatsPerBooking
	}
	return cmd
}
