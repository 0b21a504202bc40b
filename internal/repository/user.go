package repository

import (
	"context"

	"carpool/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// SetApproval flips the driver approval flag.
	SetApproval(ctx context.Context, id string, approved bool) error

	// CreditWallet adds amount to the user's wallet balance.
	// Called only by the payout engine, inside its transaction.
	CreditWallet(ctx context.Context, id string, amount float64) error

	// UpdateDriverRating stores a recomputed rolling average rating.
	UpdateDriverRating(ctx context.Context, id string, rating float64) error

	// IncrementTotalRides bumps the driver's completed ride counter.
	IncrementTotalRides(ctx context.Context, id string) error
}
