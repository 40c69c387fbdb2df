package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel_booking"

type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	DBTxDuration       *prometheus.HistogramVec
	DBTxRetries        prometheus.Counter
	BookingTransitions *prometheus.CounterVec
	SeatConflicts      prometheus.Counter
	SweeperRuns        *prometheus.CounterVec
	SeatsReclaimed     prometheus.Counter
	BookingsExpired    prometheus.Counter
	OutboxPublished    *prometheus.CounterVec
}

// New registers every collector on a fresh registry so parallel tests do not collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "code", "method"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		DBTxDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_tx_seconds",
			Help:      "Duration of unit-of-work transactions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		DBTxRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_tx_retries_total",
			Help:      "Transactions retried after serialization failure or deadlock",
		}),
		BookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Accepted booking transitions by target status",
		}, []string{"status"}),
		SeatConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_conflicts_total",
			Help:      "Seat holds refused because a seat was taken",
		}),
		SweeperRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeper_runs_total",
			Help:      "Hold-expiry sweeps by outcome",
		}, []string{"outcome"}),
		SeatsReclaimed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeper_seats_reclaimed_total",
			Help:      "Seats returned to availability by the sweeper",
		}),
		BookingsExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeper_bookings_expired_total",
			Help:      "Bookings moved to expired by the sweeper",
		}),
		OutboxPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_total",
			Help:      "Outbox relay results",
		}, []string{"result"}),
	}
}
