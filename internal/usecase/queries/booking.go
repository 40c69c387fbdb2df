package queries

import (
	"context"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/trip"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/ledger"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetBooking(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*BookingView, error)
	ListMyBookings(ctx context.Context, actor access.Actor, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	GetPaymentValidation(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*ValidationView, error)
	Ticket(ctx context.Context, actor access.Actor, bookingID uuid.UUID) ([]byte, error)
}

// TicketData is everything printed on an e-ticket.
type TicketData struct {
	Booking *BookingView
	Trip    *TripView
}

type TicketRenderer interface {
	Render(data TicketData) ([]byte, error)
}

type bookingQueriesImpl struct {
	uow      shared.UnitOfWork
	policy   *access.Policy
	ledger   *ledger.Ledger
	renderer TicketRenderer
}

func NewBookingQueries(uow shared.UnitOfWork, policy *access.Policy, ldg *ledger.Ledger, renderer TicketRenderer) BookingQueries {
	return &bookingQueriesImpl{uow: uow, policy: policy, ledger: ldg, renderer: renderer}
}

func (q *bookingQueriesImpl) GetBooking(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*BookingView, error) {
	var view *BookingView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := q.load(ctx, tx, actor, access.ActionViewBooking, bookingID)
		if err != nil {
			return err
		}
		view = ToBookingView(b)
		return nil
	})
	return view, err
}

func (q *bookingQueriesImpl) ListMyBookings(ctx context.Context, actor access.Actor, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	if err := q.policy.Check(actor, access.ActionViewBooking); err != nil {
		return nil, nil, err
	}
	after, err := DecodeCursor(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	var rows []*booking.Booking
	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var lerr error
		rows, lerr = tx.Bookings().ListByPassenger(ctx, actor.ID, after, limit+1)
		return lerr
	})
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = EncodeCursor(shared.PageKey{CreatedAt: last.CreatedAt(), ID: last.ID()})
		rows = rows[:limit]
	}
	views := make([]*BookingView, 0, len(rows))
	for _, b := range rows {
		views = append(views, ToBookingView(b))
	}
	return views, next, nil
}

// GetPaymentValidation exposes the ledger entry to the booking's owner and to staff.
func (q *bookingQueriesImpl) GetPaymentValidation(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*ValidationView, error) {
	var view *ValidationView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := q.load(ctx, tx, actor, access.ActionViewValidation, bookingID); err != nil {
			return err
		}
		rec, err := q.ledger.Get(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		view = ToValidationView(rec)
		return nil
	})
	return view, err
}

// Ticket renders the e-ticket of a Confirmed booking.
func (q *bookingQueriesImpl) Ticket(ctx context.Context, actor access.Actor, bookingID uuid.UUID) ([]byte, error) {
	var data TicketData
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := q.load(ctx, tx, actor, access.ActionDownloadTicket, bookingID)
		if err != nil {
			return err
		}
		if b.Status() != booking.StatusConfirmed {
			return &booking.TransitionError{From: b.Status(), Command: "issue a ticket for"}
		}
		var t *trip.Trip
		if t, err = tx.Trips().FindByID(ctx, b.TripID()); err != nil {
			return tripNotFound(err, b.TripID())
		}
		data = TicketData{Booking: ToBookingView(b), Trip: ToTripView(t)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	pdf, err := q.renderer.Render(data)
	if err != nil {
		return nil, errs.Wrap(err, "render ticket")
	}
	return pdf, nil
}

func (q *bookingQueriesImpl) load(
	ctx context.Context,
	tx shared.Tx,
	actor access.Actor,
	action access.Action,
	bookingID uuid.UUID,
) (*booking.Booking, error) {
	if err := q.policy.Check(actor, action); err != nil {
		return nil, err
	}
	b, err := tx.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.NewNotFoundError("booking", bookingID.String())
		}
		return nil, err
	}
	if err := q.policy.Authorize(actor, action, b.PassengerID()); err != nil {
		return nil, err
	}
	return b, nil
}
