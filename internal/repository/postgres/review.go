package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

const reviewColumns = `id, booking_id, reviewer_id, driver_id, rating, comment, created_at`

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.ReviewerID,
		&review.DriverID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, reviewer_id, driver_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.BookingID,
		review.ReviewerID,
		review.DriverID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)

	return err
}

// GetByBookingID retrieves the review for a booking.
// Returns nil, nil if the booking has not been reviewed.
func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1`

	review, err := scanReview(r.q.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return review, err
}

// ListByDriver retrieves all reviews of a driver, newest first.
func (r *ReviewRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE driver_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// AverageForDriver computes the arithmetic mean rating of a driver.
// Returns 0 when the driver has no reviews.
func (r *ReviewRepository) AverageForDriver(ctx context.Context, driverID string) (float64, error) {
	query := `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE driver_id = $1`

	var avg float64
	err := r.q.QueryRowContext(ctx, query, driverID).Scan(&avg)
	return avg, err
}
