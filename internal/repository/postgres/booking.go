package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

const bookingColumns = `id, ride_id, passenger_id, pickup, dropoff, distance_covered, fare_amount, seats, status, created_at, cancelled_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var booking domain.Booking
	var cancelledAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.RideID,
		&booking.PassengerID,
		&booking.Pickup,
		&booking.Dropoff,
		&booking.DistanceCovered,
		&booking.FareAmount,
		&booking.Seats,
		&booking.Status,
		&booking.CreatedAt,
		&cancelledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if cancelledAt.Valid {
		booking.CancelledAt = cancelledAt.Time
	}
	return &booking, nil
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, ride_id, passenger_id, pickup, dropoff, distance_covered, fare_amount, seats, status, created_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var cancelledAt sql.NullTime
	if !booking.CancelledAt.IsZero() {
		cancelledAt = sql.NullTime{Time: booking.CancelledAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.RideID,
		booking.PassengerID,
		booking.Pickup,
		booking.Dropoff,
		booking.DistanceCovered,
		booking.FareAmount,
		booking.Seats,
		booking.Status,
		booking.CreatedAt,
		cancelledAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.q.QueryRowContext(ctx, query, id))
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET pickup = $1, dropoff = $2, distance_covered = $3, fare_amount = $4, seats = $5, status = $6, cancelled_at = $7
		WHERE id = $8
	`

	var cancelledAt sql.NullTime
	if !booking.CancelledAt.IsZero() {
		cancelledAt = sql.NullTime{Time: booking.CancelledAt, Valid: true}
	}

	return r.exec(ctx, query,
		booking.Pickup,
		booking.Dropoff,
		booking.DistanceCovered,
		booking.FareAmount,
		booking.Seats,
		booking.Status,
		cancelledAt,
		booking.ID,
	)
}

// UpdateStatus updates only the booking status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return r.exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
}

// ListByRide retrieves all bookings on a ride.
func (r *BookingRepository) ListByRide(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ride_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, rideID)
}

// ListActiveByRide retrieves the non-terminal bookings on a ride.
func (r *BookingRepository) ListActiveByRide(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ride_id = $1 AND status IN ($2, $3)
		ORDER BY created_at
	`
	return r.list(ctx, query, rideID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
}

// ListByPassenger retrieves a passenger's bookings, newest first.
func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE passenger_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, passengerID)
}

// ListByDriver retrieves bookings on any of the driver's rides.
func (r *BookingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	query := `
		SELECT b.id, b.ride_id, b.passenger_id, b.pickup, b.dropoff, b.distance_covered, b.fare_amount, b.seats, b.status, b.created_at, b.cancelled_at
		FROM bookings b
		JOIN rides r ON r.id = b.ride_id
		WHERE r.driver_id = $1
		ORDER BY b.created_at DESC
	`
	return r.list(ctx, query, driverID)
}

// ListStalePending retrieves PENDING bookings created before the cutoff.
func (r *BookingRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT 100
	`
	return r.list(ctx, query, domain.BookingStatusPending, cutoff)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
