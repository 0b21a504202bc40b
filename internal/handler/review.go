package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReviewRequest is the HTTP request body for reviewing a booking.
type SubmitReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// ReviewResponse is the HTTP representation of a review.
type ReviewResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	DriverID  string `json:"driver_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// DriverRatingResponse is the HTTP representation of an aggregate rating.
type DriverRatingResponse struct {
	DriverID string  `json:"driver_id"`
	Rating   float64 `json:"rating"`
	Reviews  int     `json:"reviews"`
}

func toReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		BookingID: review.BookingID,
		DriverID:  review.DriverID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}

// SubmitReview handles POST /v1/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), callerID(c), service.SubmitReviewRequest{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toReviewResponse(review))
}

// HasReviewed handles GET /v1/bookings/:id/review
func (h *ReviewHandler) HasReviewed(c *gin.Context) {
	bookingID := c.Param("id")

	reviewed, err := h.reviewService.HasReviewed(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"booking_id": bookingID, "reviewed": reviewed})
}

// ListDriverReviews handles GET /v1/drivers/:id/reviews
func (h *ReviewHandler) ListDriverReviews(c *gin.Context) {
	reviews, err := h.reviewService.DriverReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, toReviewResponse(review))
	}
	respondJSON(c, http.StatusOK, resp)
}

// GetDriverRating handles GET /v1/drivers/:id/rating
func (h *ReviewHandler) GetDriverRating(c *gin.Context) {
	driverID := c.Param("id")

	reviews, err := h.reviewService.DriverReviews(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	rating, err := h.reviewService.DriverRating(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DriverRatingResponse{
		DriverID: driverID,
		Rating:   rating,
		Reviews:  len(reviews),
	})
}
