package httperr

import (
	"context"
	"errors"
	"net/http"

	"hotel-booking/internal/domain/room"
	"hotel-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// ConflictDetail accompanies 409 responses caused by a room state transition.
type ConflictDetail struct {
	CurrentState string `json:"currentState"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
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

// AbortWithUsecaseError maps the usecase sentinels to a status and a client-safe message.
func AbortWithUsecaseError(c *gin.Context, err error) {
	status, msg, detail := Classify(err)
	AbortWithError(c, status, err, msg, detail)
}

func Classify(err error) (int, string, any) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, validationMessage(err), nil
	case errors.Is(err, errs.ErrRoomNotFound):
		return http.StatusNotFound, "Room not found", nil
	case errors.Is(err, errs.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found", nil
	case errors.Is(err, errs.ErrDuplicateRoom):
		return http.StatusConflict, "Room number already exists", nil
	case errors.Is(err, errs.ErrConflict):
		if ce, ok := room.AsConflict(err); ok {
			return http.StatusConflict, ce.Error(), ConflictDetail{CurrentState: ce.Current.String()}
		}
		return http.StatusConflict, "Booking is already cancelled", nil
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password", nil
	case errors.Is(err, errs.ErrInvariantViolated):
		return http.StatusInternalServerError, "Room state is inconsistent", nil
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Request timed out", nil
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "Request cancelled", nil
	default:
		return http.StatusInternalServerError, "Internal server error", nil
	}
}

// validationMessage surfaces the innermost domain message, which never carries internal detail.
func validationMessage(err error) string {
	return errs.UnwrapAll(err).Error()
}
