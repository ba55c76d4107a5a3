package response

import (
	"errors"
	"net/http"

	"backend/pkg/apperr"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    interface{} `json:"details,omitempty"` // field-level validation errors
	Warnings   interface{} `json:"warnings,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// Paginated wraps a list payload with total/page/limit metadata.
func Paginated(statusCode int, items interface{}, total int64, page, limit int) Response {
	return Success(statusCode, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// FromError maps a domain error to the HTTP status and body it should be
// reported with: validation failures carry their field errors, not-found and
// conflict map to 404/409, anything else is a 500.
func FromError(err error) (int, Response) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, Response{
			Status:     "error",
			StatusCode: http.StatusUnprocessableEntity,
			Error:      ve.Error(),
			Details:    ve.Errors,
			Warnings:   ve.Warnings,
		}
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, Error(http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, Error(http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrInvariant):
		return http.StatusInternalServerError, Error(http.StatusInternalServerError, err.Error())
	}
	return http.StatusBadRequest, Error(http.StatusBadRequest, err.Error())
}
