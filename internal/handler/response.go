package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/furwell/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// ListResponse wraps paginated collections with their total count.
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}

// RespondError translates service errors to HTTP status codes.
func RespondError(c *gin.Context, err error) {
	code, ok := apperr.CodeOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(err.Error()))
		return
	}

	status := http.StatusInternalServerError
	switch code {
	case apperr.ErrNotFound, apperr.ErrPetNotFound:
		status = http.StatusNotFound
	case apperr.ErrDuplicatePendingReservation, apperr.ErrSlotFull:
		status = http.StatusConflict
	case apperr.ErrInvalidDate, apperr.ErrBadRequest:
		status = http.StatusBadRequest
	case apperr.ErrStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, NewErrorResponse(err.Error()))
}
