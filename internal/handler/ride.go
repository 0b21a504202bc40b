package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// PostRideRequest is the HTTP request body for publishing a ride.
type PostRideRequest struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	RideDate    string  `json:"ride_date"` // RFC 3339 or YYYY-MM-DD
	Seats       int     `json:"seats"`
	BaseFare    float64 `json:"base_fare,omitempty"`
	RatePerKm   float64 `json:"rate_per_km,omitempty"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID             string  `json:"id"`
	DriverID       string  `json:"driver_id"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	RideDate       string  `json:"ride_date"`
	AvailableSeats int     `json:"available_seats"`
	TotalSeats     int     `json:"total_seats"`
	BaseFare       float64 `json:"base_fare"`
	RatePerKm      float64 `json:"rate_per_km"`
	TotalDistance  float64 `json:"total_distance_km"`
	EstimatedFare  float64 `json:"estimated_fare"`
	Status         string  `json:"status"`
}

func toRideResponse(ride *domain.Ride) RideResponse {
	return RideResponse{
		ID:             ride.ID,
		DriverID:       ride.DriverID,
		Source:         ride.Source,
		Destination:    ride.Destination,
		RideDate:       ride.RideDate.Format(time.RFC3339),
		AvailableSeats: ride.AvailableSeats,
		TotalSeats:     ride.TotalSeats,
		BaseFare:       ride.BaseFare,
		RatePerKm:      ride.RatePerKm,
		TotalDistance:  ride.TotalDistance,
		EstimatedFare:  ride.EstimatedFare,
		Status:         string(ride.Status),
	}
}

func toRideResponses(rides []*domain.Ride) []RideResponse {
	resp := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		resp = append(resp, toRideResponse(ride))
	}
	return resp
}

// parseRideDate accepts RFC 3339 timestamps or bare dates.
func parseRideDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// PostRide handles POST /v1/rides
func (h *RideHandler) PostRide(c *gin.Context) {
	var req PostRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var rideDate time.Time
	if req.RideDate != "" {
		parsed, err := parseRideDate(req.RideDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid ride_date"})
			return
		}
		rideDate = parsed
	}

	ride, err := h.rideService.PostRide(c.Request.Context(), callerID(c), service.PostRideRequest{
		Source:      req.Source,
		Destination: req.Destination,
		RideDate:    rideDate,
		Seats:       req.Seats,
		BaseFare:    req.BaseFare,
		RatePerKm:   req.RatePerKm,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride))
}

// SearchRides handles GET /v1/rides
func (h *RideHandler) SearchRides(c *gin.Context) {
	filter := service.SearchFilter{
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
	}

	if raw := c.Query("date"); raw != "" {
		date, err := parseRideDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
			return
		}
		filter.Date = date
	}
	if raw := c.Query("min_fare"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_fare"})
			return
		}
		filter.MinFare = v
	}
	if raw := c.Query("max_fare"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_fare"})
			return
		}
		filter.MaxFare = v
	}
	if raw := c.Query("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_rating"})
			return
		}
		filter.MinDriverRating = v
	}

	rides, err := h.rideService.SearchRides(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// ListDriverRides handles GET /v1/drivers/:id/rides
func (h *RideHandler) ListDriverRides(c *gin.Context) {
	rides, err := h.rideService.ListDriverRides(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponses(rides))
}

// StartRide handles POST /v1/rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	ride, err := h.rideService.StartRide(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CompleteRide handles POST /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	ride, err := h.rideService.CompleteRide(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	ride, err := h.rideService.CancelRide(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}
