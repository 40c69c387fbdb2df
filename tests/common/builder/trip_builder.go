//go:build unit || e2e

package builder

import (
	"time"

	"travel-booking/internal/domain/money"
	domtrip "travel-booking/internal/domain/trip"
	reqdto "travel-booking/internal/handler/dto/request"
)

type TripBuilder struct {
	Origin             string
	Destination        string
	DepartureAt        time.Time
	Layout             []domtrip.Seat
	PricePerSeat       int64
	MaxSeatsPerBooking int
	Now                time.Time
}

func NewTripBuilder() *TripBuilder {
	now := time.Now()
	return &TripBuilder{
		Origin:             "Pekanbaru",
		Destination:        "Padang",
		DepartureAt:        now.Add(48 * time.Hour),
		PricePerSeat:       150000,
		MaxSeatsPerBooking: 6,
		Now:                now,
	}
}

func (b *TripBuilder) With(mutate func(*TripBuilder)) *TripBuilder {
	mutate(b)
	return b
}

func (b *TripBuilder) BuildDomain() (*domtrip.Trip, error) {
	return domtrip.NewTrip(
		b.Origin,
		b.Destination,
		b.DepartureAt,
		b.Layout,
		money.MustNew(b.PricePerSeat),
		b.MaxSeatsPerBooking,
		b.Now,
	)
}

func (b *TripBuilder) MustBuildDomain() *domtrip.Trip {
	t, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return t
}

func (b *TripBuilder) WithOrigin(origin string) *TripBuilder {
	b.Origin = origin
	return b
}

func (b *TripBuilder) WithDestination(destination string) *TripBuilder {
	b.Destination = destination
	return b
}

func (b *TripBuilder) WithDepartureAt(at time.Time) *TripBuilder {
	b.DepartureAt = at
	return b
}

func (b *TripBuilder) WithLayout(layout ...domtrip.Seat) *TripBuilder {
	b.Layout = layout
	return b
}

func (b *TripBuilder) WithPricePerSeat(price int64) *TripBuilder {
	b.PricePerSeat = price
	return b
}

func (b *TripBuilder) WithMaxSeatsPerBooking(n int) *TripBuilder {
	b.MaxSeatsPerBooking = n
	return b
}

func (b *TripBuilder) BuildScheduleRequestDTO() reqdto.ScheduleTripRequest {
	req := reqdto.ScheduleTripRequest{
		Origin:       b.Origin,
		Destination:  b.Destination,
		DepartureAt:  b.DepartureAt,
		PricePerSeat: b.PricePerSeat,
	}
	for _, s := range b.Layout {
		req.Layout = append(req.Layout, reqdto.SeatRequest{ID: s.ID, Reservable: s.Reservable})
	}
	if b.MaxSeatsPerBooking > 0 {
		n := b.MaxSeatsPerBooking
		req.MaxSeatsPerBooking = &n
	}
	return req
}
