package httperr

import (
	"errors"
	"net/http"

	"travel-booking/internal/domain/seat"
	"travel-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errors.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type ConflictDetail struct {
	ContestedSeatIDs []string `json:"contested_seat_ids"`
}

type ValidationDetail struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// AbortWithDomainError maps the booking error taxonomy onto HTTP statuses.
func AbortWithDomainError(c *gin.Context, err error) {
	status, msg, detail := Classify(err)
	AbortWithError(c, status, err, msg, detail)
}

// Classify surfaces the typed error text for taxonomy errors. Anything outside
// the taxonomy is reported as a bare 500 so driver or network details stay internal.
func Classify(err error) (status int, msg string, detail any) {
	var (
		conflict   *seat.ConflictError
		validation *errs.ValidationError
	)
	switch {
	case errs.As(err, &conflict):
		return http.StatusConflict, err.Error(), ConflictDetail{ContestedSeatIDs: conflict.SeatIDs}
	case errs.As(err, &validation):
		return http.StatusBadRequest, err.Error(), ValidationDetail{Field: validation.Field, Reason: validation.Msg}
	case errs.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, err.Error(), nil
	case errs.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden, err.Error(), nil
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errs.Is(err, errs.ErrInvalidTransition),
		errs.Is(err, errs.ErrHoldExpiredOrMismatch),
		errs.Is(err, errs.ErrAlreadyDecided),
		errs.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict, err.Error(), nil
	default:
		return http.StatusInternalServerError, "Internal error", nil
	}
}
