package ticket

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/queries"

	"github.com/phpdave11/gofpdf"
)

const timeLayout = "2006-01-02 15:04 MST"

// PDFRenderer prints an A4 e-ticket for a confirmed booking.
type PDFRenderer struct {
	location *time.Location
}

func NewPDFRenderer(loc *time.Location) *PDFRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &PDFRenderer{location: loc}
}

func (r *PDFRenderer) Render(d queries.TicketData) ([]byte, error) {
	if d.Booking == nil || d.Trip == nil {
		return nil, errs.New("ticket needs both booking and trip")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking        : %s", d.Booking.ID),
		fmt.Sprintf("Passenger      : %s", d.Booking.PassengerID),
		fmt.Sprintf("Route          : %s -> %s", d.Trip.Origin, d.Trip.Destination),
		fmt.Sprintf("Departure      : %s", d.Trip.DepartureAt.In(r.location).Format(timeLayout)),
		fmt.Sprintf("Seats          : %s", strings.Join(d.Booking.SeatIDs, ", ")),
		fmt.Sprintf("Total          : Rp%d", d.Booking.TotalAmount),
		fmt.Sprintf("Status         : %s", d.Booking.Status),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Valid only for the seats listed above. Show this ticket at departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(err, "failed to render ticket")
	}
	return buf.Bytes(), nil
}
