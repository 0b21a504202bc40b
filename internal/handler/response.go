package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error          string `json:"error"`
	SeatsRemaining *int   `json:"seats_remaining,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var seatsErr *service.InsufficientSeatsError
	if errors.As(err, &seatsErr) {
		remaining := seatsErr.Remaining
		resp.SeatsRemaining = &remaining
	}

	c.JSON(mapErrorToHTTPStatus(err), resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	var seatsErr *service.InsufficientSeatsError
	if errors.As(err, &seatsErr) {
		return http.StatusConflict
	}

	switch {
	// Missing caller identity
	case errors.Is(err, service.ErrInvalidUserID):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrPaymentRecordNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrInvalidRideDate),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrSignatureMismatch):
		return http.StatusBadRequest

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotRideOwner),
		errors.Is(err, service.ErrNotBookingOwner),
		errors.Is(err, service.ErrDriverNotApproved):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrRideTerminal),
		errors.Is(err, service.ErrBookingTerminal),
		errors.Is(err, service.ErrRideNotOpen),
		errors.Is(err, service.ErrOwnRide),
		errors.Is(err, service.ErrBookingNotPayable),
		errors.Is(err, service.ErrBookingNotCompleted),
		errors.Is(err, service.ErrAlreadyTransferred),
		errors.Is(err, service.ErrReviewNotEligible),
		errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// callerID extracts the acting user's ID from the X-User-ID header. The
// service layer rejects an empty ID.
func callerID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
