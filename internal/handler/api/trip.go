package api

import (
	"net/http"

	reqdto "travel-booking/internal/handler/dto/request"
	resdto "travel-booking/internal/handler/dto/response"
	"travel-booking/internal/handler/httperr"
	"travel-booking/internal/handler/middleware"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	cmds commands.TripCommands
	q    queries.TripQueries
}

func NewTripHandler(cmds commands.TripCommands, q queries.TripQueries) *TripHandler {
	return &TripHandler{cmds: cmds, q: q}
}

// @Summary Schedule trip
// @Description Create a trip and its seat inventory; omit layout for the default seven-seater
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ScheduleTripRequest true "Trip"
// @Success 201 {object} resdto.TripResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /trips [post]
func (h *TripHandler) Schedule(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	var req reqdto.ScheduleTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	t, err := h.cmds.ScheduleTrip(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Header("Location", "/api/trips/"+t.ID().String())
	c.JSON(http.StatusCreated, resdto.FromTripView(queries.ToTripView(t)))
}

// @Summary Get trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} resdto.TripResponse
// @Failure 404 {object} httperr.Response
// @Router /trips/{id} [get]
func (h *TripHandler) Get(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	view, err := h.q.GetTrip(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTripView(view))
}

// @Summary Seat availability
// @Description Status of every seat on the trip in layout order
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} resdto.SeatAvailabilityResponse
// @Failure 404 {object} httperr.Response
// @Router /trips/{id}/seats [get]
func (h *TripHandler) SeatAvailability(c *gin.Context) {
	actor, id, ok := actorAndID(c)
	if !ok {
		return
	}
	view, err := h.q.SeatAvailability(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSeatAvailabilityView(view))
}
