package commands

import (
	"context"
	"log/slog"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/metrics"
	"travel-booking/internal/pkg/tracing"
	"travel-booking/internal/usecase/inventory"
	"travel-booking/internal/usecase/ledger"
	"travel-booking/internal/usecase/outbox"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type BookingCommands interface {
	StartBooking(ctx context.Context, actor access.Actor, tripID, passengerID uuid.UUID) (*booking.Booking, error)
	SelectSeats(ctx context.Context, actor access.Actor, bookingID uuid.UUID, seatIDs []string) (*booking.Booking, error)
	ProceedToPayment(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*booking.Booking, error)
	SubmitPayment(ctx context.Context, actor access.Actor, bookingID uuid.UUID, proofRef string) (*booking.Booking, error)
	ValidatePayment(ctx context.Context, actor access.Actor, bookingID uuid.UUID, decision payment.Decision, reason string) (*booking.Booking, error)
	RejectPayment(ctx context.Context, actor access.Actor, bookingID uuid.UUID, reason string) (*booking.Booking, error)
	CancelBooking(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*booking.Booking, error)
}

type bookingUseCaseImpl struct {
	uow       shared.UnitOfWork
	policy    *access.Policy
	inventory *inventory.Inventory
	ledger    *ledger.Ledger
	cfg       config.BookingConfig
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	policy *access.Policy,
	inv *inventory.Inventory,
	ldg *ledger.Ledger,
	cfg config.BookingConfig,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:       uow,
		policy:    policy,
		inventory: inv,
		ledger:    ldg,
		cfg:       cfg,
		clock:     clk,
		metrics:   m,
		logger:    logger,
	}
}

// StartBooking opens a Draft booking. passengerID defaults to the actor; staff may
// open bookings for other passengers.
func (uc *bookingUseCaseImpl) StartBooking(ctx context.Context, actor access.Actor, tripID, passengerID uuid.UUID) (b *booking.Booking, err error) {
	ctx, span := tracing.Start(ctx, "booking.StartBooking", attribute.String("trip.id", tripID.String()))
	defer func() { tracing.End(span, err) }()

	if err := uc.policy.Check(actor, access.ActionCreateBooking); err != nil {
		return nil, err
	}
	if passengerID == uuid.Nil {
		passengerID = actor.ID
	}
	if err := uc.policy.Authorize(actor, access.ActionCreateBooking, passengerID); err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, terr := tx.Trips().FindByID(ctx, tripID); terr != nil {
			return notFound(terr, "trip", tripID)
		}
		created, derr := booking.New(tripID, passengerID, uc.clock.Now())
		if derr != nil {
			return derr
		}
		if cerr := tx.Bookings().Create(ctx, created); cerr != nil {
			return cerr
		}
		b = created
		return uc.enqueue(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	uc.transitioned(actor, b)
	return b, nil
}

func (uc *bookingUseCaseImpl) SelectSeats(ctx context.Context, actor access.Actor, bookingID uuid.UUID, seatIDs []string) (*booking.Booking, error) {
	b, err := uc.mutate(ctx, actor, bookingID, access.ActionSelectSeats, "booking.SelectSeats",
		func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
			if !booking.CanTransition(b.Status(), booking.StatusSeatsSelected) {
				return &booking.TransitionError{From: b.Status(), Command: "select seats for"}
			}
			tr, err := tx.Trips().FindByID(ctx, b.TripID())
			if err != nil {
				return notFound(err, "trip", b.TripID())
			}
			if err := tr.ValidateSelection(seatIDs); err != nil {
				return err
			}
			expiresAt, err := uc.inventory.Hold(ctx, tx, b.TripID(), seatIDs, b.ID(), uc.cfg.HoldDuration)
			if err != nil {
				return err
			}
			return b.SelectSeats(seatIDs, expiresAt, uc.clock.Now())
		})
	if errs.Is(err, errs.ErrSeatConflict) {
		uc.metrics.SeatConflicts.Inc()
	}
	return b, err
}

// ProceedToPayment fixes totalAmount from the trip's canonical price.
func (uc *bookingUseCaseImpl) ProceedToPayment(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	return uc.mutate(ctx, actor, bookingID, access.ActionProceedToPayment, "booking.ProceedToPayment",
		func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
			tr, err := tx.Trips().FindByID(ctx, b.TripID())
			if err != nil {
				return notFound(err, "trip", b.TripID())
			}
			return b.ProceedToPayment(tr.TotalFor(len(b.SeatIDs())), uc.clock.Now())
		})
}

// SubmitPayment stores the proof and stretches the seat holds over the review period.
func (uc *bookingUseCaseImpl) SubmitPayment(ctx context.Context, actor access.Actor, bookingID uuid.UUID, proofRef string) (*booking.Booking, error) {
	return uc.mutate(ctx, actor, bookingID, access.ActionSubmitPayment, "booking.SubmitPayment",
		func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
			now := uc.clock.Now()
			until := now.Add(uc.cfg.PaymentReviewHold)
			if err := b.SubmitPayment(proofRef, until, now); err != nil {
				return err
			}
			return uc.inventory.Extend(ctx, tx, b.TripID(), b.SeatIDs(), b.ID(), until)
		})
}

// ValidatePayment records the reviewer's decision first, so a repeated call reports
// AlreadyDecided whatever state the booking has reached since.
func (uc *bookingUseCaseImpl) ValidatePayment(
	ctx context.Context,
	actor access.Actor,
	bookingID uuid.UUID,
	decision payment.Decision,
	reason string,
) (*booking.Booking, error) {
	return uc.mutate(ctx, actor, bookingID, access.ActionValidatePayment, "booking.ValidatePayment",
		func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
			if _, err := uc.ledger.Record(ctx, tx, b.ID(), actor.ID, decision, reason); err != nil {
				return err
			}
			now := uc.clock.Now()
			if decision == payment.DecisionApproved {
				if err := b.Confirm(now); err != nil {
					return err
				}
				return uc.inventory.Confirm(ctx, tx, b.TripID(), b.SeatIDs(), b.ID())
			}
			if err := b.Reject(now); err != nil {
				return err
			}
			return uc.inventory.Release(ctx, tx, b.TripID(), b.SeatIDs(), b.ID())
		})
}

func (uc *bookingUseCaseImpl) RejectPayment(ctx context.Context, actor access.Actor, bookingID uuid.UUID, reason string) (*booking.Booking, error) {
	return uc.ValidatePayment(ctx, actor, bookingID, payment.DecisionRejected, reason)
}

func (uc *bookingUseCaseImpl) CancelBooking(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	return uc.mutate(ctx, actor, bookingID, access.ActionCancelBooking, "booking.CancelBooking",
		func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
			held := b.HasHeldSeats()
			if err := b.Cancel(uc.clock.Now()); err != nil {
				return err
			}
			if !held {
				return nil
			}
			return uc.inventory.Release(ctx, tx, b.TripID(), b.SeatIDs(), b.ID())
		})
}

// mutate runs the shared command skeleton: role gate, locked load, ownership check,
// the transition itself, versioned write and outbox event, all in one transaction.
func (uc *bookingUseCaseImpl) mutate(
	ctx context.Context,
	actor access.Actor,
	bookingID uuid.UUID,
	action access.Action,
	spanName string,
	apply func(ctx context.Context, tx shared.Tx, b *booking.Booking) error,
) (result *booking.Booking, err error) {
	ctx, span := tracing.Start(ctx, spanName,
		attribute.String("booking.id", bookingID.String()),
		attribute.String("actor.role", actor.Role.String()))
	defer func() { tracing.End(span, err) }()

	if err := uc.policy.Check(actor, action); err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, lerr := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if lerr != nil {
			return notFound(lerr, "booking", bookingID)
		}
		if aerr := uc.policy.Authorize(actor, action, b.PassengerID()); aerr != nil {
			return aerr
		}
		if aerr := apply(ctx, tx, b); aerr != nil {
			return aerr
		}
		if uerr := tx.Bookings().Update(ctx, b); uerr != nil {
			if infra.IsKind(uerr, infra.KindVersionConflict) {
				return errs.Wrap(errs.ErrConcurrentModification, "booking "+bookingID.String()+" was modified concurrently")
			}
			return uerr
		}
		result = b
		return uc.enqueue(ctx, tx, b)
	})
	if err != nil {
		uc.logger.Info("Booking command refused",
			"command", spanName,
			"booking_id", bookingID,
			"actor_id", actor.ID,
			"role", actor.Role,
			"error", err.Error())
		return nil, err
	}
	uc.transitioned(actor, result)
	return result, nil
}

func (uc *bookingUseCaseImpl) enqueue(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	ev, err := outbox.BookingEvent(b, uc.clock.Now())
	if err != nil {
		return errs.Wrap(err, "encode booking event")
	}
	return tx.Outbox().Enqueue(ctx, ev)
}

func (uc *bookingUseCaseImpl) transitioned(actor access.Actor, b *booking.Booking) {
	uc.metrics.BookingTransitions.WithLabelValues(b.Status().String()).Inc()
	uc.logger.Info("Booking transitioned",
		"booking_id", b.ID(),
		"trip_id", b.TripID(),
		"status", b.Status(),
		"seats", b.SeatIDs(),
		"actor_id", actor.ID,
		"role", actor.Role)
}

func notFound(err error, resource string, id uuid.UUID) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.NewNotFoundError(resource, id.String())
	}
	return err
}
