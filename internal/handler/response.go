package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petwalk/internal/repository"
	"petwalk/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Authorization errors
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidClientID),
		errors.Is(err, service.ErrInvalidWalkerID),
		errors.Is(err, service.ErrInvalidPetID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidRUT),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidName):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrCancellationBlocked),
		errors.Is(err, service.ErrBookingNotActive),
		errors.Is(err, service.ErrRUTTaken):
		return http.StatusConflict

	// Business rule errors
	case errors.Is(err, service.ErrCodeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrWalkerNotApproved):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
