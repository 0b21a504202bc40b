package repository

import (
	"context"
	"time"

	"carpool/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByOrderID retrieves a payment by its external order id.
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)

	// GetBookingPayment retrieves the BOOKING-type payment for a booking.
	// Returns nil, nil if none exists.
	GetBookingPayment(ctx context.Context, bookingID string) (*domain.Payment, error)

	// GetBookingPaymentForUpdate is GetBookingPayment with the row locked for
	// the surrounding transaction. Payout status checks must go through this
	// read so that two transfers cannot both observe PENDING.
	GetBookingPaymentForUpdate(ctx context.Context, bookingID string) (*domain.Payment, error)

	// Update updates an existing payment.
	Update(ctx context.Context, payment *domain.Payment) error

	// UpdateStatus updates only the payment status.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error

	// UpdatePayout records a payout status transition with its timestamp.
	UpdatePayout(ctx context.Context, id string, status domain.PayoutStatus, date time.Time) error

	// ListByPassenger retrieves a passenger's payments, newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Payment, error)

	// ListByDriver retrieves payments owed to or settled with a driver.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Payment, error)

	// SumPayouts totals the SUCCESS booking payments for a driver whose payout
	// status matches.
	SumPayouts(ctx context.Context, driverID string, status domain.PayoutStatus) (float64, error)
}
