package repository

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// UpdateStatus updates only the booking status.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error

	// ListByRide retrieves all bookings on a ride.
	ListByRide(ctx context.Context, rideID string) ([]*domain.Booking, error)

	// ListActiveByRide retrieves the non-terminal bookings on a ride.
	// Used by the ride cancellation cascade and ride completion.
	ListActiveByRide(ctx context.Context, rideID string) ([]*domain.Booking, error)

	// ListByPassenger retrieves a passenger's bookings, newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error)

	// ListByDriver retrieves bookings on any of the driver's rides.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error)

	// ListStalePending retrieves PENDING bookings created before the cutoff.
	// Used by the reconciler to release seats held by abandoned checkouts.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error)
}
