package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

const rideColumns = `id, driver_id, source, destination, ride_date, available_seats, total_seats, base_fare, rate_per_km, total_distance, estimated_fare, status, created_at`

func scanRide(row interface{ Scan(...any) error }) (*domain.Ride, error) {
	var ride domain.Ride
	err := row.Scan(
		&ride.ID,
		&ride.DriverID,
		&ride.Source,
		&ride.Destination,
		&ride.RideDate,
		&ride.AvailableSeats,
		&ride.TotalSeats,
		&ride.BaseFare,
		&ride.RatePerKm,
		&ride.TotalDistance,
		&ride.EstimatedFare,
		&ride.Status,
		&ride.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ride, nil
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, driver_id, source, destination, ride_date, available_seats, total_seats, base_fare, rate_per_km, total_distance, estimated_fare, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.Source,
		ride.Destination,
		ride.RideDate,
		ride.AvailableSeats,
		ride.TotalSeats,
		ride.BaseFare,
		ride.RatePerKm,
		ride.TotalDistance,
		ride.EstimatedFare,
		ride.Status,
		ride.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return scanRide(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a ride and locks its row until the surrounding
// transaction ends. Concurrent seat checks on the same ride serialize here.
func (r *RideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1 FOR UPDATE`
	return scanRide(r.q.QueryRowContext(ctx, query, id))
}

// Update updates an existing ride.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET source = $1, destination = $2, ride_date = $3, available_seats = $4, total_seats = $5, base_fare = $6, rate_per_km = $7, total_distance = $8, estimated_fare = $9, status = $10
		WHERE id = $11
	`

	return r.exec(ctx, query,
		ride.Source,
		ride.Destination,
		ride.RideDate,
		ride.AvailableSeats,
		ride.TotalSeats,
		ride.BaseFare,
		ride.RatePerKm,
		ride.TotalDistance,
		ride.EstimatedFare,
		ride.Status,
		ride.ID,
	)
}

// UpdateStatus updates only the ride status.
func (r *RideRepository) UpdateStatus(ctx context.Context, id string, status domain.RideStatus) error {
	return r.exec(ctx, `UPDATE rides SET status = $1 WHERE id = $2`, status, id)
}

// UpdateSeats sets the available seat count.
func (r *RideRepository) UpdateSeats(ctx context.Context, id string, availableSeats int) error {
	return r.exec(ctx, `UPDATE rides SET available_seats = $1 WHERE id = $2`, availableSeats, id)
}

// ListByDriver retrieves all rides published by a driver, newest first.
func (r *RideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY ride_date DESC`
	return r.list(ctx, query, driverID)
}

// Search retrieves SCHEDULED rides with free seats matching the filter,
// ordered by ride date descending.
func (r *RideRepository) Search(ctx context.Context, filter repository.RideSearchFilter) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE status = $1
		  AND available_seats > 0
		  AND ($2 = '' OR source = $2)
		  AND ($3 = '' OR destination = $3)
		  AND ($4::timestamptz IS NULL OR ride_date::date = $4::date)
		ORDER BY ride_date DESC, created_at DESC
		LIMIT 100
	`

	var date sql.NullTime
	if !filter.Date.IsZero() {
		date = sql.NullTime{Time: filter.Date, Valid: true}
	}

	return r.list(ctx, query, domain.RideStatusScheduled, filter.Source, filter.Destination, date)
}

func (r *RideRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func (r *RideRepository) exec(ctx context.Context, query string, args ...any) error {
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
