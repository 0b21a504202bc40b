package repository

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// RideSearchFilter narrows a ride search. Zero values mean "any".
type RideSearchFilter struct {
	Source      string
	Destination string
	Date        time.Time
}

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByIDForUpdate retrieves a ride and locks its row for the duration of
	// the surrounding transaction. Seat checks and seat mutations must go
	// through this read.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error)

	// Update updates an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error

	// UpdateStatus updates only the ride status.
	UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error

	// UpdateSeats sets the available seat count.
	UpdateSeats(ctx context.Context, id string, availableSeats int) error

	// ListByDriver retrieves all rides published by a driver, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// Search retrieves SCHEDULED rides with free seats matching the filter,
	// ordered by ride date descending.
	Search(ctx context.Context, filter RideSearchFilter) ([]*domain.Ride, error)
}
