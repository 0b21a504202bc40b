package repository

import (
	"context"

	"carpool/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByBookingID retrieves the review for a booking.
	// Returns nil, nil if the booking has not been reviewed.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error)

	// ListByDriver retrieves all reviews of a driver, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Review, error)

	// AverageForDriver computes the arithmetic mean rating of a driver.
	// Returns 0 when the driver has no reviews.
	AverageForDriver(ctx context.Context, driverID string) (float64, error)
}
