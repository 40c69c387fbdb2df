//go:build unit

package pgconv_test

import (
	"testing"
	"time"

	"travel-booking/internal/pkg/pgconv"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestNullableRoundTrips(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, pgconv.UUIDFromPgtype(pgconv.NullableUUID(id)))
	assert.False(t, pgconv.NullableUUID(uuid.Nil).Valid)
	assert.Equal(t, uuid.Nil, pgconv.UUIDFromPgtype(pgconv.NullableUUID(uuid.Nil)))

	now := time.Now()
	assert.Equal(t, now, pgconv.TimeFromPgtype(pgconv.NullableTime(now)))
	assert.False(t, pgconv.NullableTime(time.Time{}).Valid)
	assert.Nil(t, pgconv.TimePtrFromPgtype(pgconv.NullableTime(time.Time{})))

	assert.Equal(t, "proof", pgconv.TextFromPgtype(pgconv.NullableText("proof")))
	assert.False(t, pgconv.NullableText("").Valid)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(errors.Wrap(pgx.ErrNoRows, "find booking")))
	assert.False(t, pgconv.IsNoRows(errors.New("boom")))

	dup := errors.Wrap(&pgconn.PgError{Code: pgconv.CodeUniqueViolation}, "insert")
	assert.Equal(t, pgconv.CodeUniqueViolation, pgconv.ErrorCode(dup))
	assert.Equal(t, "", pgconv.ErrorCode(errors.New("boom")))
}
