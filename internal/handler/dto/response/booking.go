package response

import (
	"time"

	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	TripID          uuid.UUID  `json:"trip_id"`
	PassengerID     uuid.UUID  `json:"passenger_id"`
	SeatIDs         []string   `json:"seat_ids"`
	Status          string     `json:"status"`
	TotalAmount     int64      `json:"total_amount"`
	PaymentProofRef string     `json:"payment_proof_ref,omitempty"`
	HoldExpiresAt   *time.Time `json:"hold_expires_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var res BookingResponse
	_ = copier.Copy(&res, v)
	res.SeatIDs = append([]string{}, v.SeatIDs...)
	return &res
}

type BookingListResponse struct {
	Items      []*BookingResponse `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

func FromBookingList(items []*queries.BookingView, next *queries.Cursor) *BookingListResponse {
	res := &BookingListResponse{Items: make([]*BookingResponse, len(items))}
	for i, it := range items {
		res.Items[i] = FromBookingView(it)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res
}

type ValidationResponse struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

func FromValidationView(v *queries.ValidationView) *ValidationResponse {
	var res ValidationResponse
	_ = copier.Copy(&res, v)
	return &res
}
