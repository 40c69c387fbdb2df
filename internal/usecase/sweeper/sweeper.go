// Package sweeper reclaims seats whose holds timed out and expires the bookings
// that owned them. It is the only path into the Expired status.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/domain/booking"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/metrics"
	"travel-booking/internal/usecase/inventory"
	"travel-booking/internal/usecase/outbox"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const leaseKey = "travel-booking:sweeper"

var errExpiryRaced = errs.New("seat changed after it was observed expired")

// Lease lets exactly one replica sweep per interval.
type Lease interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type Result struct {
	Bookings       int
	Expired        int
	SeatsReclaimed int
	AlreadyChanged int
	Failed         int
}

type Sweeper struct {
	uow       shared.UnitOfWork
	policy    *access.Policy
	inventory *inventory.Inventory
	lease     Lease
	cfg       config.SweeperConfig
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func New(
	uow shared.UnitOfWork,
	policy *access.Policy,
	inv *inventory.Inventory,
	lease Lease,
	cfg config.SweeperConfig,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		uow:       uow,
		policy:    policy,
		inventory: inv,
		lease:     lease,
		cfg:       cfg,
		clock:     clk,
		metrics:   m,
		logger:    logger,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("Hold expiry sweeper started", "interval", s.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Hold expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("Hold expiry sweep failed", "error", err)
			}
		}
	}
}

// candidate is every expired hold of one booking seen in a single scan.
type candidate struct {
	tripID    uuid.UUID
	bookingID uuid.UUID
	expected  map[string]int64
}

func (s *Sweeper) SweepOnce(ctx context.Context) (Result, error) {
	var res Result
	if err := s.policy.Check(access.SystemActor, access.ActionExpireBooking); err != nil {
		return res, err
	}

	acquired, err := s.lease.Acquire(ctx, leaseKey, s.cfg.LeaseTTL)
	if err != nil {
		s.metrics.SweeperRuns.WithLabelValues("error").Inc()
		return res, errs.Wrap(err, "acquire sweeper lease")
	}
	if !acquired {
		s.metrics.SweeperRuns.WithLabelValues("lease_held").Inc()
		s.logger.Debug("Sweeper lease held elsewhere, skipping run")
		return res, nil
	}

	now := s.clock.Now()
	var holds []shared.ExpiredHold
	err = s.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var lerr error
		holds, lerr = tx.Seats().ListExpiredHolds(ctx, now, s.cfg.BatchSize)
		return lerr
	})
	if err != nil {
		s.metrics.SweeperRuns.WithLabelValues("error").Inc()
		return res, errs.Wrap(err, "list expired holds")
	}

	candidates := group(holds)
	res.Bookings = len(candidates)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Concurrency, 1))
	for _, c := range candidates {
		g.Go(func() error {
			r, err := s.expireWithRetry(gctx, c)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				s.logger.Error("Failed to expire booking holds",
					"booking_id", c.bookingID, "trip_id", c.tripID, "seats", c.seatIDs(), "error", err)
				return nil
			}
			res.Expired += r.Expired
			res.SeatsReclaimed += r.SeatsReclaimed
			res.AlreadyChanged += r.AlreadyChanged
			return nil
		})
	}
	_ = g.Wait()

	s.metrics.SweeperRuns.WithLabelValues("ok").Inc()
	s.metrics.SeatsReclaimed.Add(float64(res.SeatsReclaimed))
	s.metrics.BookingsExpired.Add(float64(res.Expired))
	if res.Bookings > 0 {
		s.logger.Info("Hold expiry sweep finished",
			"bookings", res.Bookings,
			"expired", res.Expired,
			"seats_reclaimed", res.SeatsReclaimed,
			"already_changed", res.AlreadyChanged,
			"failed", res.Failed)
	}
	return res, nil
}

func group(holds []shared.ExpiredHold) []candidate {
	byBooking := make(map[uuid.UUID]*candidate)
	var order []uuid.UUID
	for _, h := range holds {
		c, ok := byBooking[h.BookingID]
		if !ok {
			c = &candidate{tripID: h.TripID, bookingID: h.BookingID, expected: map[string]int64{}}
			byBooking[h.BookingID] = c
			order = append(order, h.BookingID)
		}
		c.expected[h.SeatID] = h.Version
	}
	out := make([]candidate, 0, len(order))
	for _, id := range order {
		out = append(out, *byBooking[id])
	}
	return out
}

// expireWithRetry re-observes the booking's seats whenever one changed between the
// scan and the locked compare-and-swap.
func (s *Sweeper) expireWithRetry(ctx context.Context, c candidate) (Result, error) {
	for attempt := 0; ; attempt++ {
		r, err := s.expire(ctx, c)
		if !errors.Is(err, errExpiryRaced) {
			return r, err
		}
		if attempt >= s.cfg.MaxRetries {
			return Result{AlreadyChanged: len(c.expected)}, nil
		}
		s.logger.Debug("Expiry raced a concurrent change, re-reading seats",
			"booking_id", c.bookingID, "attempt", attempt+1)

		c, err = s.refresh(ctx, c)
		if err != nil {
			return Result{}, err
		}
		if len(c.expected) == 0 {
			return Result{AlreadyChanged: 1}, nil
		}
	}
}

func (s *Sweeper) expire(ctx context.Context, c candidate) (Result, error) {
	var r Result
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r = Result{}
		now := s.clock.Now()

		b, err := tx.Bookings().FindByIDForUpdate(ctx, c.bookingID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
		if b != nil && b.Status() == booking.StatusPaymentSubmitted {
			// under review; the admin decision settles these seats
			r.AlreadyChanged = len(c.expected)
			return nil
		}

		// the scan may have cut this booking's holds at the batch limit
		expected, err := expiredHoldsOf(ctx, tx, c.tripID, c.bookingID, now)
		if err != nil {
			return err
		}
		for id, v := range c.expected {
			if _, ok := expected[id]; !ok {
				expected[id] = v
			}
		}

		exp, err := s.inventory.ExpireIfPast(ctx, tx, c.tripID, c.bookingID, expected)
		if err != nil {
			return err
		}
		if exp.Outcome() == inventory.AlreadyChanged {
			return errExpiryRaced
		}
		r.SeatsReclaimed = len(exp.Reclaimed)

		if b == nil || !booking.CanTransition(b.Status(), booking.StatusExpired) {
			s.logger.Warn("Reclaimed orphaned seat holds", "booking_id", c.bookingID, "seats", exp.Reclaimed)
			return nil
		}
		if err := b.Expire(now); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		ev, err := outbox.BookingEvent(b, now)
		if err != nil {
			return err
		}
		if err := tx.Outbox().Enqueue(ctx, ev); err != nil {
			return err
		}
		r.Expired = 1
		s.logger.Info("Booking expired",
			"booking_id", b.ID(), "trip_id", b.TripID(), "seats", exp.Reclaimed)
		return nil
	})
	return r, err
}

func (s *Sweeper) refresh(ctx context.Context, c candidate) (candidate, error) {
	fresh := candidate{tripID: c.tripID, bookingID: c.bookingID}
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		fresh.expected, err = expiredHoldsOf(ctx, tx, c.tripID, c.bookingID, s.clock.Now())
		return err
	})
	return fresh, err
}

// expiredHoldsOf maps every lapsed hold of bookingID on the trip to its current version.
func expiredHoldsOf(ctx context.Context, tx shared.Tx, tripID, bookingID uuid.UUID, now time.Time) (map[string]int64, error) {
	records, err := tx.Seats().ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64)
	for _, r := range records {
		if r.IsHeldBy(bookingID) && r.HoldExpired(now) {
			out[r.SeatID()] = r.Version()
		}
	}
	return out, nil
}

func (c candidate) seatIDs() []string {
	ids := make([]string, 0, len(c.expected))
	for id := range c.expected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
