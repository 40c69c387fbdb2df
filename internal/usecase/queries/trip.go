package queries

import (
	"context"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/inventory"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type TripQueries interface {
	GetTrip(ctx context.Context, actor access.Actor, tripID uuid.UUID) (*TripView, error)
	SeatAvailability(ctx context.Context, actor access.Actor, tripID uuid.UUID) (*SeatAvailabilityView, error)
}

type tripQueriesImpl struct {
	uow       shared.UnitOfWork
	policy    *access.Policy
	inventory *inventory.Inventory
}

func NewTripQueries(uow shared.UnitOfWork, policy *access.Policy, inv *inventory.Inventory) TripQueries {
	return &tripQueriesImpl{uow: uow, policy: policy, inventory: inv}
}

func (q *tripQueriesImpl) GetTrip(ctx context.Context, actor access.Actor, tripID uuid.UUID) (*TripView, error) {
	if err := q.policy.Check(actor, access.ActionViewTrip); err != nil {
		return nil, err
	}
	var view *TripView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Trips().FindByID(ctx, tripID)
		if err != nil {
			return tripNotFound(err, tripID)
		}
		view = ToTripView(t)
		return nil
	})
	return view, err
}

// SeatAvailability is the read-only QuerySeatAvailability command.
func (q *tripQueriesImpl) SeatAvailability(ctx context.Context, actor access.Actor, tripID uuid.UUID) (*SeatAvailabilityView, error) {
	if err := q.policy.Check(actor, access.ActionQueryAvailability); err != nil {
		return nil, err
	}
	var view *SeatAvailabilityView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Trips().FindByID(ctx, tripID)
		if err != nil {
			return tripNotFound(err, tripID)
		}
		statuses, err := q.inventory.QueryAvailability(ctx, tx, tripID)
		if err != nil {
			return err
		}
		view = ToSeatAvailabilityView(t, statuses)
		return nil
	})
	return view, err
}

func tripNotFound(err error, id uuid.UUID) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.NewNotFoundError("trip", id.String())
	}
	return err
}
