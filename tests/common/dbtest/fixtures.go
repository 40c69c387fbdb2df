//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// ExpireHold moves a booking's hold deadline into the past, on the booking and its held seats.
func ExpireHold(t *testing.T, db DBLike, bookingID uuid.UUID, ago time.Duration) {
	t.Helper()

	ctx := context.Background()
	at := time.Now().Add(-ago)
	_, err := db.Exec(ctx, "UPDATE bookings SET hold_expires_at = $2 WHERE id = $1", bookingID, at)
	require.NoError(t, err)
	_, err = db.Exec(ctx, "UPDATE seat_records SET hold_expires_at = $2 WHERE holder_booking_id = $1 AND status = 'held'", bookingID, at)
	require.NoError(t, err)
}

func SeatStatus(t *testing.T, db DBLike, tripID uuid.UUID, seatID string) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM seat_records WHERE trip_id = $1 AND seat_id = $2", tripID, seatID).Scan(&status)
	require.NoError(t, err)
	return status
}

// OutboxTopics lists the recorded event topics for an aggregate in insertion order.
func OutboxTopics(t *testing.T, db DBLike, aggregateID uuid.UUID) []string {
	t.Helper()

	var topics []string
	err := db.QueryRow(context.Background(),
		"SELECT coalesce(array_agg(topic ORDER BY created_at, id), '{}') FROM outbox_events WHERE aggregate_id = $1",
		aggregateID).Scan(&topics)
	require.NoError(t, err)
	return topics
}

func CountValidations(t *testing.T, db DBLike, bookingID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM payment_validations WHERE booking_id = $1", bookingID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
