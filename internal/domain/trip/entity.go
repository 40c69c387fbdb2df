package trip

import (
	"fmt"
	"strings"
	"time"

	"travel-booking/internal/domain/money"
	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type Seat struct {
	ID         string
	Reservable bool
}

// DefaultLayout is the seven-seater used when a trip is scheduled without an explicit layout.
func DefaultLayout() []Seat {
	return []Seat{
		{ID: "1A", Reservable: false}, // driver
		{ID: "1B", Reservable: true},
		{ID: "2A", Reservable: true},
		{ID: "2B", Reservable: true},
		{ID: "2C", Reservable: true},
		{ID: "3A", Reservable: true},
		{ID: "3B", Reservable: true},
		{ID: "3C", Reservable: true},
	}
}

type Trip struct {
	id                 uuid.UUID
	origin             string
	destination        string
	departureAt        time.Time
	layout             []Seat
	pricePerSeat       money.Money
	maxSeatsPerBooking int
	createdAt          time.Time
}

func NewTrip(
	origin, destination string,
	departureAt time.Time,
	layout []Seat,
	pricePerSeat money.Money,
	maxSeatsPerBooking int,
	now time.Time,
) (*Trip, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" {
		return nil, errs.NewValidationError("origin", "is required")
	}
	if destination == "" {
		return nil, errs.NewValidationError("destination", "is required")
	}
	if !departureAt.After(now) {
		return nil, errs.NewValidationError("departureAt", "must be in the future")
	}
	if len(layout) == 0 {
		layout = DefaultLayout()
	}
	if err := validateLayout(layout); err != nil {
		return nil, err
	}
	if maxSeatsPerBooking < 1 {
		return nil, errs.NewValidationError("maxSeatsPerBooking", "must be at least 1")
	}

	return &Trip{
		id:                 uuid.New(),
		origin:             origin,
		destination:        destination,
		departureAt:        departureAt,
		layout:             append([]Seat(nil), layout...),
		pricePerSeat:       pricePerSeat,
		maxSeatsPerBooking: maxSeatsPerBooking,
		createdAt:          now,
	}, nil
}

func ReconstructTrip(
	id uuid.UUID,
	origin, destination string,
	departureAt time.Time,
	layout []Seat,
	pricePerSeat money.Money,
	maxSeatsPerBooking int,
	createdAt time.Time,
) *Trip {
	return &Trip{
		id:                 id,
		origin:             origin,
		destination:        destination,
		departureAt:        departureAt,
		layout:             layout,
		pricePerSeat:       pricePerSeat,
		maxSeatsPerBooking: maxSeatsPerBooking,
		createdAt:          createdAt,
	}
}

func validateLayout(layout []Seat) error {
	seen := make(map[string]struct{}, len(layout))
	reservable := 0
	for _, s := range layout {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return errs.NewValidationError("layout", "seat id is required")
		}
		if _, dup := seen[id]; dup {
			return errs.NewValidationError("layout", fmt.Sprintf("duplicate seat %s", id))
		}
		seen[id] = struct{}{}
		if s.Reservable {
			reservable++
		}
	}
	if reservable == 0 {
		return errs.NewValidationError("layout", "at least one seat must be reservable")
	}
	return nil
}

// ValidateSelection checks a requested seat set against the layout and the per-booking maximum.
func (t *Trip) ValidateSelection(seatIDs []string) error {
	if len(seatIDs) == 0 {
		return errs.NewValidationError("seatIds", "at least one seat is required")
	}
	if len(seatIDs) > t.maxSeatsPerBooking {
		return errs.NewValidationError("seatIds",
			fmt.Sprintf("at most %d seats per booking, got %d", t.maxSeatsPerBooking, len(seatIDs)))
	}

	byID := make(map[string]Seat, len(t.layout))
	for _, s := range t.layout {
		byID[s.ID] = s
	}
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return errs.NewValidationError("seatIds", fmt.Sprintf("seat %s requested twice", id))
		}
		seen[id] = struct{}{}

		s, ok := byID[id]
		if !ok {
			return errs.NewValidationError("seatIds", fmt.Sprintf("seat %s does not exist on this trip", id))
		}
		if !s.Reservable {
			return errs.NewValidationError("seatIds", fmt.Sprintf("seat %s is not reservable", id))
		}
	}
	return nil
}

func (t *Trip) ReservableSeatIDs() []string {
	ids := make([]string, 0, len(t.layout))
	for _, s := range t.layout {
		if s.Reservable {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func (t *Trip) TotalFor(seatCount int) money.Money {
	return t.pricePerSeat.Times(seatCount)
}

func (t *Trip) ID() uuid.UUID             { return t.id }
func (t *Trip) Origin() string            { return t.origin }
func (t *Trip) Destination() string       { return t.destination }
func (t *Trip) DepartureAt() time.Time    { return t.departureAt }
func (t *Trip) Layout() []Seat            { return append([]Seat(nil), t.layout...) }
func (t *Trip) Capacity() int             { return len(t.layout) }
func (t *Trip) PricePerSeat() money.Money { return t.pricePerSeat }
func (t *Trip) MaxSeatsPerBooking() int   { return t.maxSeatsPerBooking }
func (t *Trip) CreatedAt() time.Time      { return t.createdAt }
