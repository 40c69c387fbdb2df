//go:build e2e

package booking_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/handler/dto/request"
	"travel-booking/internal/handler/dto/response"
	"travel-booking/tests/common/builder"
	"travel-booking/tests/common/dbtest"
	"travel-booking/tests/common/httptest"
	"travel-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	tripsURL          = "/api/trips"
	seatsURL          = "/api/trips/%s/seats"
	bookingsURL       = "/api/bookings"
	bookingURL        = "/api/bookings/%s"
	selectSeatsURL    = "/api/bookings/%s/seats"
	checkoutURL       = "/api/bookings/%s/checkout"
	paymentURL        = "/api/bookings/%s/payment"
	validationURL     = "/api/bookings/%s/payment/validation"
	rejectionURL      = "/api/bookings/%s/payment/rejection"
	cancelURL         = "/api/bookings/%s/cancel"
	ticketURL         = "/api/bookings/%s/ticket"
	defaultProofRef   = "transfer-receipt-001.jpg"
	defaultSeatPrice  = int64(150000)
	reservableInTrip  = 7
)

var bookingCmpOpts = cmp.Options{
	cmpopts.IgnoreFields(response.BookingResponse{}, "ID", "CreatedAt", "UpdatedAt", "HoldExpiresAt", "Version"),
	cmpopts.EquateEmpty(),
}

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// =============================================================================
// helpers
// =============================================================================

func (s *BookingSuite) scheduleTrip(t *testing.T) *response.TripResponse {
	t.Helper()
	_, adminToken := s.Tokens.Login(t, access.RoleAdmin)

	reqBody := builder.NewTripBuilder().BuildScheduleRequestDTO()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, tripsURL, reqBody, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var trip response.TripResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &trip))
	return &trip
}

func (s *BookingSuite) do(t *testing.T, method, url string, body any, token string, expectCode int) *response.BookingResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, method, url, body, token)
	require.Equal(t, expectCode, w.Code, w.Body.String())

	var res response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return &res
}

// holdSeats walks a fresh booking up to seats_selected.
func (s *BookingSuite) holdSeats(t *testing.T, token string, tripID uuid.UUID, seats ...string) *response.BookingResponse {
	t.Helper()
	draft := s.do(t, http.MethodPost, bookingsURL, request.StartBookingRequest{TripID: tripID}, token, http.StatusCreated)
	return s.do(t, http.MethodPut, fmt.Sprintf(selectSeatsURL, draft.ID),
		request.SelectSeatsRequest{SeatIDs: seats}, token, http.StatusOK)
}

func (s *BookingSuite) submitPayment(t *testing.T, token string, tripID uuid.UUID, seats ...string) *response.BookingResponse {
	t.Helper()
	held := s.holdSeats(t, token, tripID, seats...)
	s.do(t, http.MethodPost, fmt.Sprintf(checkoutURL, held.ID), nil, token, http.StatusOK)
	return s.do(t, http.MethodPost, fmt.Sprintf(paymentURL, held.ID),
		request.SubmitPaymentRequest{ProofRef: defaultProofRef}, token, http.StatusOK)
}

func (s *BookingSuite) seatAvailability(t *testing.T, token string, tripID uuid.UUID) *response.SeatAvailabilityResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(seatsURL, tripID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res response.SeatAvailabilityResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return &res
}

// =============================================================================
// TestBookingFlow - draft to confirmed over HTTP
// =============================================================================

func (s *BookingSuite) TestBookingFlow() {
	s.Run("Normal case: passenger books two seats and staff approves the payment", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		passengerID, token := s.Tokens.Login(t, access.RoleCustomer)
		_, adminToken := s.Tokens.Login(t, access.RoleAdmin)

		draft := s.do(t, http.MethodPost, bookingsURL, request.StartBookingRequest{TripID: trip.ID}, token, http.StatusCreated)
		if diff := cmp.Diff(&response.BookingResponse{
			TripID:      trip.ID,
			PassengerID: passengerID,
			Status:      "draft",
		}, draft, bookingCmpOpts...); diff != "" {
			t.Errorf("draft mismatch (-want +got):\n%s", diff)
		}

		held := s.do(t, http.MethodPut, fmt.Sprintf(selectSeatsURL, draft.ID),
			request.SelectSeatsRequest{SeatIDs: []string{"2A", "2B"}}, token, http.StatusOK)
		require.Equal(t, "seats_selected", held.Status)
		require.Equal(t, 2*defaultSeatPrice, held.TotalAmount)
		require.NotNil(t, held.HoldExpiresAt)

		s.do(t, http.MethodPost, fmt.Sprintf(checkoutURL, draft.ID), nil, token, http.StatusOK)
		submitted := s.do(t, http.MethodPost, fmt.Sprintf(paymentURL, draft.ID),
			request.SubmitPaymentRequest{ProofRef: defaultProofRef}, token, http.StatusOK)
		require.Equal(t, "payment_submitted", submitted.Status)
		require.True(t, submitted.HoldExpiresAt.After(*held.HoldExpiresAt), "submitting payment extends the hold")

		confirmed := s.do(t, http.MethodPost, fmt.Sprintf(validationURL, draft.ID),
			request.ValidatePaymentRequest{Decision: "approved"}, adminToken, http.StatusOK)
		if diff := cmp.Diff(&response.BookingResponse{
			TripID:          trip.ID,
			PassengerID:     passengerID,
			SeatIDs:         []string{"2A", "2B"},
			Status:          "confirmed",
			TotalAmount:     2 * defaultSeatPrice,
			PaymentProofRef: defaultProofRef,
		}, confirmed, bookingCmpOpts...); diff != "" {
			t.Errorf("confirmed mismatch (-want +got):\n%s", diff)
		}

		require.Equal(t, "booked", dbtest.SeatStatus(t, s.DB, trip.ID, "2A"))
		require.Equal(t, "booked", dbtest.SeatStatus(t, s.DB, trip.ID, "2B"))
		require.Equal(t, 1, dbtest.CountValidations(t, s.DB, draft.ID))
		require.Equal(t, []string{
			"booking.draft",
			"booking.seats_selected",
			"booking.awaiting_payment",
			"booking.payment_submitted",
			"booking.confirmed",
		}, dbtest.OutboxTopics(t, s.DB, draft.ID))

		availability := s.seatAvailability(t, token, trip.ID)
		require.Equal(t, reservableInTrip-2, availability.Available)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(ticketURL, draft.ID), nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		require.Equal(t, "%PDF", w.Body.String()[:4])
	})

	s.Run("Normal case: outbox relay publishes the recorded events", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		s.holdSeats(t, token, trip.ID, "3A")

		published, err := s.Relay.RelayOnce(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, published)

		var pending int
		require.NoError(t, s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM outbox_events WHERE published_at IS NULL").Scan(&pending))
		require.Zero(t, pending)
	})

	s.Run("Normal case: staff rejection releases the seats", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		_, adminToken := s.Tokens.Login(t, access.RoleAdmin)
		submitted := s.submitPayment(t, token, trip.ID, "3B")

		rejected := s.do(t, http.MethodPost, fmt.Sprintf(rejectionURL, submitted.ID),
			request.RejectPaymentRequest{Reason: "transfer not received"}, adminToken, http.StatusOK)
		require.Equal(t, "rejected", rejected.Status)
		require.Equal(t, "available", dbtest.SeatStatus(t, s.DB, trip.ID, "3B"))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(validationURL, submitted.ID),
			request.ValidatePaymentRequest{Decision: "approved"}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "was already rejected: payment already decided")
		require.Equal(t, 1, dbtest.CountValidations(t, s.DB, submitted.ID))
	})

	s.Run("Normal case: passenger cancels and the seat frees up", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		held := s.holdSeats(t, token, trip.ID, "2C")

		cancelled := s.do(t, http.MethodPost, fmt.Sprintf(cancelURL, held.ID), nil, token, http.StatusOK)
		require.Equal(t, "cancelled", cancelled.Status)
		require.Equal(t, "available", dbtest.SeatStatus(t, s.DB, trip.ID, "2C"))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, held.ID), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "cannot cancel a booking in status cancelled")
	})
}

// =============================================================================
// TestSeatConflict - all-or-nothing holds
// =============================================================================

func (s *BookingSuite) TestSeatConflict() {
	s.Run("Error case: 409 lists only the contested seats and holds nothing", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, first := s.Tokens.Login(t, access.RoleCustomer)
		_, second := s.Tokens.Login(t, access.RoleCustomer)
		s.holdSeats(t, first, trip.ID, "2A")

		draft := s.do(t, http.MethodPost, bookingsURL, request.StartBookingRequest{TripID: trip.ID}, second, http.StatusCreated)
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(selectSeatsURL, draft.ID),
			request.SelectSeatsRequest{SeatIDs: []string{"2A", "2B"}}, second)
		httptest.AssertSeatConflict(t, w, "2A")
		require.Equal(t, "available", dbtest.SeatStatus(t, s.DB, trip.ID, "2B"))
	})

	s.Run("Error case: 400 for the driver seat", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		draft := s.do(t, http.MethodPost, bookingsURL, request.StartBookingRequest{TripID: trip.ID}, token, http.StatusCreated)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(selectSeatsURL, draft.ID),
			request.SelectSeatsRequest{SeatIDs: []string{"1A"}}, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "seatIds: seat 1A is not reservable")
	})
}

// =============================================================================
// TestHoldExpiry - sweeper against PostgreSQL
// =============================================================================

func (s *BookingSuite) TestHoldExpiry() {
	s.Run("Normal case: sweep expires lapsed holds and leaves submitted payments alone", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		lapsed := s.holdSeats(t, token, trip.ID, "2A", "2B")
		submitted := s.submitPayment(t, token, trip.ID, "3A")
		dbtest.ExpireHold(t, s.DB, lapsed.ID, time.Minute)
		dbtest.ExpireHold(t, s.DB, submitted.ID, time.Minute)

		result, err := s.Sweeper.SweepOnce(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, result.Expired)

		got := s.do(t, http.MethodGet, fmt.Sprintf(bookingURL, lapsed.ID), nil, token, http.StatusOK)
		require.Equal(t, "expired", got.Status)
		require.Equal(t, "available", dbtest.SeatStatus(t, s.DB, trip.ID, "2A"))
		require.Equal(t, "held", dbtest.SeatStatus(t, s.DB, trip.ID, "3A"))

		still := s.do(t, http.MethodGet, fmt.Sprintf(bookingURL, submitted.ID), nil, token, http.StatusOK)
		require.Equal(t, "payment_submitted", still.Status)
	})
}

// =============================================================================
// TestAccess - authentication and role checks
// =============================================================================

func (s *BookingSuite) TestAccess() {
	s.Run("Error case: 401 without a token", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Access token required")
	})

	s.Run("Normal case: the session cookie authenticates like the header", func() {
		t := s.T()
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		w := httptest.PerformRequestWithSessionCookie(t, s.Router, http.MethodGet, bookingsURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var list response.BookingListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &list))
		require.Empty(t, list.Items)
	})

	s.Run("Error case: 401 with an expired token", func() {
		t := s.T()
		token := s.Tokens.CreateExpiredToken(t, uuid.New(), access.RoleCustomer)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("Error case: 403 when a passenger validates a payment", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		submitted := s.submitPayment(t, token, trip.ID, "2A")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(validationURL, submitted.ID),
			request.ValidatePaymentRequest{Decision: "approved"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden,
			`role "customer" may not validate_payment: actor is not permitted to perform this action`)
		require.Zero(t, dbtest.CountValidations(t, s.DB, submitted.ID))
	})

	s.Run("Error case: 403 reading another passenger's booking", func() {
		t := s.T()
		trip := s.scheduleTrip(t)
		_, owner := s.Tokens.Login(t, access.RoleCustomer)
		_, stranger := s.Tokens.Login(t, access.RoleCustomer)
		held := s.holdSeats(t, owner, trip.ID, "2A")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, held.ID), nil, stranger)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, `role "customer" may not view_booking`)
	})

	s.Run("Error case: 403 when a passenger schedules a trip", func() {
		t := s.T()
		_, token := s.Tokens.Login(t, access.RoleCustomer)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, tripsURL, builder.NewTripBuilder().BuildScheduleRequestDTO(), token)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, `role "customer" may not schedule_trip`)
	})
}
