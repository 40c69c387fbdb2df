//go:build unit

package ticket_test

import (
	"bytes"
	"testing"
	"time"

	"travel-booking/internal/infra/ticket"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFRenderer(t *testing.T) {
	r := ticket.NewPDFRenderer(time.UTC)

	t.Run("renders a pdf document", func(t *testing.T) {
		out, err := r.Render(queries.TicketData{
			Booking: &queries.BookingView{
				ID:          uuid.New(),
				PassengerID: uuid.New(),
				SeatIDs:     []string{"2A", "3A"},
				Status:      "confirmed",
				TotalAmount: 300000,
			},
			Trip: &queries.TripView{
				Origin:      "Pekanbaru",
				Destination: "Padang",
				DepartureAt: time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
			},
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	})

	t.Run("rejects incomplete data", func(t *testing.T) {
		_, err := r.Render(queries.TicketData{})
		assert.Error(t, err)
	})
}
