//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	nethttptest "net/http/httptest"
	"strings"
	"testing"

	"travel-booking/internal/domain/access"
	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/seat"
	"travel-booking/internal/handler/api"
	resdto "travel-booking/internal/handler/dto/response"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/queries"
	"travel-booking/tests/common/builder"
	"travel-booking/tests/common/httptest"
	"travel-booking/tests/common/testutil"
	commandsmock "travel-booking/tests/mock/commands"
	queriesmock "travel-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const roleHeader = "X-Test-Role"

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actorID      uuid.UUID
}

// fakeAuth stands in for RequireAuth: any bearer token authenticates actorID,
// with the role taken from X-Test-Role (customer by default).
func fakeAuth(actorID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		role := access.RoleCustomer
		if r := c.GetHeader(roleHeader); r != "" {
			role = access.Role(r)
		}
		c.Set("user_id", actorID)
		c.Set("user_role", role)
		c.Next()
	}
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	g := s.router.Group("/bookings", fakeAuth(s.actorID))
	g.POST("", s.handler.Start)
	g.GET("", s.handler.ListMine)
	g.GET("/:id", s.handler.Get)
	g.PUT("/:id/seats", s.handler.SelectSeats)
	g.POST("/:id/checkout", s.handler.ProceedToPayment)
	g.POST("/:id/payment", s.handler.SubmitPayment)
	g.GET("/:id/payment/validation", s.handler.GetPaymentValidation)
	g.POST("/:id/payment/validation", s.handler.ValidatePayment)
	g.POST("/:id/payment/rejection", s.handler.RejectPayment)
	g.POST("/:id/cancel", s.handler.Cancel)
	g.GET("/:id/ticket", s.handler.Ticket)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *BookingHandlerTestSuite) customer() access.Actor {
	return access.NewActor(s.actorID, access.RoleCustomer)
}

// performWithRole sends an authenticated JSON request as the given role.
func performWithRole(t *testing.T, router *gin.Engine, method, path string, body any, role access.Role) *nethttptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encode request body: %v", err)
	}
	req := nethttptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer bearer-token")
	req.Header.Set(roleHeader, role.String())

	w := nethttptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ================================================================================
// TestStart
// ================================================================================

func (s *BookingHandlerTestSuite) TestStart() {
	url := "/bookings"
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusDraft).WithPassenger(s.actorID).
		With(func(b *builder.BookingBuilder) { b.SeatIDs = nil })
	reqBody := bb.BuildStartRequestDTO()
	created := bb.BuildDomain()

	s.Run("success: returns 201 Created with Location", func() {
		s.mockCommands.EXPECT().
			StartBooking(gomock.Any(), s.customer(), bb.TripID, s.actorID).
			Return(created, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.ID(), body.ID)
		s.Equal("draft", body.Status)
		s.Equal([]string{}, body.SeatIDs)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + created.ID().String()})
	})

	s.Run("success: staff books on behalf of passenger_id", func() {
		passengerID := uuid.New()
		admin := access.NewActor(s.actorID, access.RoleAdmin)
		s.mockCommands.EXPECT().
			StartBooking(gomock.Any(), admin, bb.TripID, passengerID).
			Return(created, nil).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("passenger_id", passengerID.String()))
		rec := performWithRole(s.T(), s.router, http.MethodPost, url, requestMap, access.RoleAdmin)
		s.Equal(http.StatusCreated, rec.Code)
	})

	invalid := []testCaseBooking{
		{name: "missing field: trip_id (required)", mutate: testutil.Field("trip_id", nil), expectCode: http.StatusBadRequest},
		{name: "malformed trip_id", mutate: testutil.Field("trip_id", "not-a-uuid"), expectCode: http.StatusBadRequest},
		{name: "malformed passenger_id", mutate: testutil.Field("passenger_id", "42"), expectCode: http.StatusBadRequest},
	}
	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range invalid {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
			})
		}
	})

	s.Run("error: 401 without credentials", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 404 when the trip does not exist", func() {
		s.mockCommands.EXPECT().StartBooking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.NewNotFoundError("trip", bb.TripID.String())).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "trip "+bb.TripID.String()+" not found")
	})
}

// ================================================================================
// TestSelectSeats
// ================================================================================

func (s *BookingHandlerTestSuite) TestSelectSeats() {
	bb := builder.NewBookingBuilder().WithPassenger(s.actorID)
	url := "/bookings/" + bb.ID.String() + "/seats"
	reqBody := bb.BuildSelectSeatsRequestDTO()

	s.Run("success: returns the held booking", func() {
		s.mockCommands.EXPECT().
			SelectSeats(gomock.Any(), s.customer(), bb.ID, []string{"2A", "3A"}).
			Return(bb.BuildDomain(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("seats_selected", body.Status)
		s.Equal([]string{"2A", "3A"}, body.SeatIDs)
		s.Require().NotNil(body.HoldExpiresAt)
		s.True(bb.HoldExpiresAt.Equal(*body.HoldExpiresAt))
	})

	invalid := []testCaseBooking{
		{name: "missing field: seat_ids (required)", mutate: testutil.Field("seat_ids", nil), expectCode: http.StatusBadRequest},
		{name: "empty seat_ids", mutate: testutil.Field("seat_ids", []string{}), expectCode: http.StatusBadRequest},
		{name: "blank seat id", mutate: testutil.Field("seat_ids", []string{""}), expectCode: http.StatusBadRequest},
		{name: "seat id too long", mutate: testutil.Field("seat_ids", []string{strings.Repeat("9", 17)}), expectCode: http.StatusBadRequest},
	}
	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range invalid {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 400 on malformed booking id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/bookings/nope/seats", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 409 lists contested seats", func() {
		s.mockCommands.EXPECT().SelectSeats(gomock.Any(), gomock.Any(), bb.ID, gomock.Any()).
			Return(nil, &seat.ConflictError{SeatIDs: []string{"3A"}}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		httptest.AssertSeatConflict(s.T(), rec, "3A")
	})

	s.Run("error: 400 with field detail on domain validation", func() {
		s.mockCommands.EXPECT().SelectSeats(gomock.Any(), gomock.Any(), bb.ID, gomock.Any()).
			Return(nil, errs.NewValidationError("seatIds", "at most 6 seats per booking, got 7")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "seatIds: at most 6 seats per booking, got 7")
		s.Contains(rec.Body.String(), `"field":"seatIds"`)
	})

	s.Run("error: 403 on someone else's booking", func() {
		s.mockCommands.EXPECT().SelectSeats(gomock.Any(), gomock.Any(), bb.ID, gomock.Any()).
			Return(nil, errs.Wrap(errs.ErrUnauthorized, "not the owner")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "not the owner: actor is not permitted to perform this action")
	})
}

// ================================================================================
// TestProceedToPayment / TestSubmitPayment
// ================================================================================

func (s *BookingHandlerTestSuite) TestProceedToPayment() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusAwaitingPayment).
		With(func(b *builder.BookingBuilder) { b.TotalAmount = 300000 })
	url := "/bookings/" + bb.ID.String() + "/checkout"

	s.Run("success: returns the fixed total", func() {
		s.mockCommands.EXPECT().ProceedToPayment(gomock.Any(), s.customer(), bb.ID).
			Return(bb.BuildDomain(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(300000), body.TotalAmount)
		s.Equal("awaiting_payment", body.Status)
	})

	s.Run("error: 409 on invalid transition", func() {
		s.mockCommands.EXPECT().ProceedToPayment(gomock.Any(), gomock.Any(), bb.ID).
			Return(nil, &booking.TransitionError{From: booking.StatusDraft, Command: "proceed to payment for"}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "cannot proceed to payment for a booking in status draft")
	})
}

func (s *BookingHandlerTestSuite) TestSubmitPayment() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusPaymentSubmitted).
		With(func(b *builder.BookingBuilder) { b.PaymentProofRef = "transfer-receipt-001.jpg" })
	url := "/bookings/" + bb.ID.String() + "/payment"
	reqBody := bb.BuildSubmitPaymentRequestDTO()

	s.Run("success: stores the proof reference", func() {
		s.mockCommands.EXPECT().SubmitPayment(gomock.Any(), s.customer(), bb.ID, "transfer-receipt-001.jpg").
			Return(bb.BuildDomain(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("transfer-receipt-001.jpg", body.PaymentProofRef)
	})

	invalid := []testCaseBooking{
		{name: "missing field: proof_ref (required)", mutate: testutil.Field("proof_ref", nil), expectCode: http.StatusBadRequest},
		{name: "empty proof_ref", mutate: testutil.Field("proof_ref", ""), expectCode: http.StatusBadRequest},
		{name: "proof_ref too long (513 chars)", mutate: testutil.Field("proof_ref", strings.Repeat("a", 513)), expectCode: http.StatusBadRequest},
	}
	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range invalid {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
			})
		}
	})

	s.Run("error: 409 when the hold already lapsed", func() {
		s.mockCommands.EXPECT().SubmitPayment(gomock.Any(), gomock.Any(), bb.ID, gomock.Any()).
			Return(nil, errs.Wrap(errs.ErrHoldExpiredOrMismatch, "extend hold on seat 2A")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "extend hold on seat 2A: seat hold expired or not held by this booking")
	})
}

// ================================================================================
// TestValidatePayment / TestRejectPayment
// ================================================================================

func (s *BookingHandlerTestSuite) TestValidatePayment() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusConfirmed)
	url := "/bookings/" + bb.ID.String() + "/payment/validation"
	reqBody := bb.BuildValidatePaymentRequestDTO()
	admin := access.NewActor(s.actorID, access.RoleAdmin)

	s.Run("success: approval confirms the booking", func() {
		s.mockCommands.EXPECT().ValidatePayment(gomock.Any(), admin, bb.ID, payment.DecisionApproved, "").
			Return(bb.BuildDomain(), nil).Times(1)

		rec := performWithRole(s.T(), s.router, http.MethodPost, url, reqBody, access.RoleAdmin)
		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
	})

	s.Run("success: rejection carries the reason", func() {
		rejected := builder.NewBookingBuilder().WithStatus(booking.StatusRejected).BuildDomain()
		s.mockCommands.EXPECT().ValidatePayment(gomock.Any(), admin, bb.ID, payment.DecisionRejected, "amount mismatch").
			Return(rejected, nil).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody,
			testutil.Field("decision", "rejected"), testutil.Field("reason", "amount mismatch"))
		rec := performWithRole(s.T(), s.router, http.MethodPost, url, requestMap, access.RoleAdmin)
		s.Equal(http.StatusOK, rec.Code)
	})

	invalid := []testCaseBooking{
		{name: "missing field: decision (required)", mutate: testutil.Field("decision", nil), expectCode: http.StatusBadRequest},
		{name: "unknown decision", mutate: testutil.Field("decision", "maybe"), expectCode: http.StatusBadRequest},
		{name: "reason too long (1001 chars)", mutate: testutil.Field("reason", strings.Repeat("r", 1001)), expectCode: http.StatusBadRequest},
	}
	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range invalid {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := performWithRole(s.T(), s.router, http.MethodPost, url, requestMap, access.RoleAdmin)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
			})
		}
	})

	s.Run("error: 403 for passengers", func() {
		s.mockCommands.EXPECT().ValidatePayment(gomock.Any(), s.customer(), bb.ID, gomock.Any(), gomock.Any()).
			Return(nil, errs.Wrap(errs.ErrUnauthorized, `role "customer" may not validate_payment`)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden,
			`role "customer" may not validate_payment: actor is not permitted to perform this action`)
	})

	s.Run("error: 409 when already decided", func() {
		s.mockCommands.EXPECT().ValidatePayment(gomock.Any(), admin, bb.ID, gomock.Any(), gomock.Any()).
			Return(nil, errs.Wrap(errs.ErrAlreadyDecided, "payment was already approved")).Times(1)

		rec := performWithRole(s.T(), s.router, http.MethodPost, url, reqBody, access.RoleAdmin)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "payment was already approved: payment already decided")
	})
}

func (s *BookingHandlerTestSuite) TestRejectPayment() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusRejected)
	url := "/bookings/" + bb.ID.String() + "/payment/rejection"

	s.Run("success: forwards the reason", func() {
		s.mockCommands.EXPECT().RejectPayment(gomock.Any(), gomock.Any(), bb.ID, "blurred receipt").
			Return(bb.BuildDomain(), nil).Times(1)

		rec := performWithRole(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "blurred receipt"}, access.RoleOwner)
		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("rejected", body.Status)
	})

	s.Run("error: 400 without a reason", func() {
		rec := performWithRole(s.T(), s.router, http.MethodPost, url, map[string]any{}, access.RoleOwner)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

// ================================================================================
// TestCancel / TestGet / TestListMine / TestTicket
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	bb := builder.NewBookingBuilder().WithStatus(booking.StatusCancelled)
	url := "/bookings/" + bb.ID.String() + "/cancel"

	s.Run("success", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), s.customer(), bb.ID).
			Return(bb.BuildDomain(), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Status)
	})

	s.Run("error: 404 for unknown booking", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), bb.ID).
			Return(nil, errs.NewNotFoundError("booking", bb.ID.String())).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "booking "+bb.ID.String()+" not found")
	})

	s.Run("error: 409 on concurrent modification", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), bb.ID).
			Return(nil, errs.Wrap(errs.ErrConcurrentModification, "booking changed")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "booking changed: concurrent modification")
	})

	s.Run("error: 500 hides unexpected failures", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), bb.ID).
			Return(nil, errors.New("connection reset by peer")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
		s.NotContains(rec.Body.String(), "connection reset")
	})
}

func (s *BookingHandlerTestSuite) TestGet() {
	view := builder.NewBookingBuilder().WithPassenger(s.actorID).BuildView()
	url := "/bookings/" + view.ID.String()

	s.mockQueries.EXPECT().GetBooking(gomock.Any(), s.customer(), view.ID).Return(view, nil).Times(1)
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

	var body resdto.BookingResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal(view.ID, body.ID)
	s.Equal(view.PassengerID, body.PassengerID)
	s.Equal(view.SeatIDs, body.SeatIDs)
}

func (s *BookingHandlerTestSuite) TestListMine() {
	items := []*queries.BookingView{
		builder.NewBookingBuilder().WithPassenger(s.actorID).BuildView(),
		builder.NewBookingBuilder().WithPassenger(s.actorID).BuildView(),
	}

	s.Run("success: passes cursor and limit, returns next cursor", func() {
		s.mockQueries.EXPECT().
			ListMyBookings(gomock.Any(), s.customer(), &queries.Cursor{After: "abc"}, 2).
			Return(items, &queries.Cursor{After: "def"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=2&after=abc", nil, "bearer-token")
		var body resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 2)
		s.Equal("def", body.NextCursor)
	})

	s.Run("success: defaults and clamps limit", func() {
		s.mockQueries.EXPECT().
			ListMyBookings(gomock.Any(), gomock.Any(), (*queries.Cursor)(nil), queries.MaxListLimit).
			Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=5000", nil, "bearer-token")
		var body resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Items)
		s.Empty(body.NextCursor)
	})

	s.Run("error: 400 on non-numeric limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=ten", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid limit")
	})
}

func (s *BookingHandlerTestSuite) TestGetPaymentValidation() {
	id := uuid.New()
	view := &queries.ValidationView{BookingID: id, ReviewerID: uuid.New(), Decision: "rejected", Reason: "amount mismatch"}

	s.mockQueries.EXPECT().GetPaymentValidation(gomock.Any(), s.customer(), id).Return(view, nil).Times(1)
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String()+"/payment/validation", nil, "bearer-token")

	var body resdto.ValidationResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal("rejected", body.Decision)
	s.Equal("amount mismatch", body.Reason)
	s.Equal(view.ReviewerID, body.ReviewerID)
}

func (s *BookingHandlerTestSuite) TestTicket() {
	id := uuid.New()
	url := "/bookings/" + id.String() + "/ticket"

	s.Run("success: returns a PDF attachment", func() {
		s.mockQueries.EXPECT().Ticket(gomock.Any(), s.customer(), id).Return([]byte("%PDF-1.3 ..."), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		httptest.AssertHeaders(s.T(), rec, map[string]string{
			"Content-Type":        "application/pdf",
			"Content-Disposition": `attachment; filename="ticket-` + id.String() + `.pdf"`,
		})
		s.True(strings.HasPrefix(rec.Body.String(), "%PDF-"))
	})

	s.Run("error: 409 before confirmation", func() {
		s.mockQueries.EXPECT().Ticket(gomock.Any(), gomock.Any(), id).
			Return(nil, &booking.TransitionError{From: booking.StatusPaymentSubmitted, Command: "issue a ticket for"}).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "cannot issue a ticket for a booking in status payment_submitted")
	})
}
