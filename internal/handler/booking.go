package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for booking seats.
type CreateBookingRequest struct {
	RideID  string `json:"ride_id"`
	Pickup  string `json:"pickup,omitempty"`
	Dropoff string `json:"dropoff,omitempty"`
	Seats   int    `json:"seats"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID              string  `json:"id"`
	RideID          string  `json:"ride_id"`
	PassengerID     string  `json:"passenger_id"`
	Pickup          string  `json:"pickup"`
	Dropoff         string  `json:"dropoff"`
	DistanceCovered float64 `json:"distance_covered_km"`
	FareAmount      float64 `json:"fare_amount"`
	Seats           int     `json:"seats"`
	Status          string  `json:"status"`
	CancelledAt     string  `json:"cancelled_at,omitempty"`
}

func toBookingResponse(booking *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              booking.ID,
		RideID:          booking.RideID,
		PassengerID:     booking.PassengerID,
		Pickup:          booking.Pickup,
		Dropoff:         booking.Dropoff,
		DistanceCovered: booking.DistanceCovered,
		FareAmount:      booking.FareAmount,
		Seats:           booking.Seats,
		Status:          string(booking.Status),
	}
	if !booking.CancelledAt.IsZero() {
		resp.CancelledAt = booking.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

func toBookingResponses(bookings []*domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		resp = append(resp, toBookingResponse(booking))
	}
	return resp
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), callerID(c), service.CreateBookingRequest{
		RideID:  req.RideID,
		Pickup:  req.Pickup,
		Dropoff: req.Dropoff,
		Seats:   req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// ListMyBookings handles GET /v1/bookings
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListPassengerBookings(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}

// ListDriverBookings handles GET /v1/drivers/:id/bookings
func (h *BookingHandler) ListDriverBookings(c *gin.Context) {
	driverID := c.Param("id")
	if callerID(c) != driverID {
		respondError(c, service.ErrNotRideOwner)
		return
	}

	bookings, err := h.bookingService.ListDriverBookings(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}

// ListRideBookings handles GET /v1/rides/:id/bookings
func (h *BookingHandler) ListRideBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListRideBookings(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}
