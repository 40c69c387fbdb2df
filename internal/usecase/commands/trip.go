package commands

import (
	"context"
	"log/slog"
	"time"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/seat"
	"travel-booking/internal/domain/trip"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/usecase/shared"
)

type TripCommands interface {
	ScheduleTrip(ctx context.Context, actor access.Actor, req ScheduleTripRequest) (*trip.Trip, error)
}

// ScheduleTripRequest leaves Layout empty for the default seven-seater and
// MaxSeatsPerBooking zero for the configured default.
type ScheduleTripRequest struct {
	Origin             string
	Destination        string
	DepartureAt        time.Time
	Layout             []trip.Seat
	PricePerSeat       int64
	MaxSeatsPerBooking int
}

type tripUseCaseImpl struct {
	uow    shared.UnitOfWork
	policy *access.Policy
	cfg    config.BookingConfig
	clock  clock.Clock
	logger *slog.Logger
}

func NewTripUseCase(uow shared.UnitOfWork, policy *access.Policy, cfg config.BookingConfig, clk clock.Clock, logger *slog.Logger) TripCommands {
	return &tripUseCaseImpl{uow: uow, policy: policy, cfg: cfg, clock: clk, logger: logger}
}

// ScheduleTrip stores the trip together with one Available record per reservable seat.
func (uc *tripUseCaseImpl) ScheduleTrip(ctx context.Context, actor access.Actor, req ScheduleTripRequest) (*trip.Trip, error) {
	if err := uc.policy.Check(actor, access.ActionScheduleTrip); err != nil {
		return nil, err
	}

	price, err := money.New(req.PricePerSeat)
	if err != nil {
		return nil, err
	}
	maxSeats := req.MaxSeatsPerBooking
	if maxSeats == 0 {
		maxSeats = uc.cfg.DefaultMaxSeats
	}
	t, err := trip.NewTrip(req.Origin, req.Destination, req.DepartureAt, req.Layout, price, maxSeats, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Trips().Create(ctx, t); err != nil {
			return err
		}
		ids := t.ReservableSeatIDs()
		records := make([]*seat.Record, 0, len(ids))
		for _, id := range ids {
			records = append(records, seat.NewAvailable(t.ID(), id))
		}
		return tx.Seats().CreateAll(ctx, records)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Trip scheduled",
		"trip_id", t.ID(),
		"origin", t.Origin(),
		"destination", t.Destination(),
		"departure_at", t.DepartureAt(),
		"seats", len(t.ReservableSeatIDs()),
		"actor_id", actor.ID)
	return t, nil
}
