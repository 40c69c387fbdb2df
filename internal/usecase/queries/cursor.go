package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	CursorVersionV1  = "v1"
)

type Cursor struct {
	After string `json:"after,omitempty"`
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeCursor(key shared.PageKey) *Cursor {
	raw := fmt.Sprintf("%s:%d:%s", CursorVersionV1, key.CreatedAt.UnixMicro(), key.ID)
	return &Cursor{After: base64.RawURLEncoding.EncodeToString([]byte(raw))}
}

func DecodeCursor(c *Cursor) (*shared.PageKey, error) {
	if c == nil || c.After == "" {
		return nil, nil
	}
	invalid := errs.NewValidationError("after", "invalid cursor")

	decoded, err := base64.RawURLEncoding.DecodeString(c.After)
	if err != nil {
		return nil, invalid
	}
	parts := strings.SplitN(string(decoded), ":", 3)
	if len(parts) != 3 || parts[0] != CursorVersionV1 {
		return nil, invalid
	}
	micros, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, invalid
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return nil, invalid
	}
	return &shared.PageKey{CreatedAt: time.UnixMicro(micros), ID: id}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
