package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/pkg/logger"
)

// ReviewService records passenger reviews and keeps each driver's aggregate
// rating in step with them.
type ReviewService struct {
	store repository.Store
	log   *logger.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(store repository.Store, log *logger.Logger) *ReviewService {
	return &ReviewService{store: store, log: log}
}

// SubmitReviewRequest contains the parameters for reviewing a booking.
type SubmitReviewRequest struct {
	BookingID string
	Rating    int
	Comment   string
}

// SubmitReview records a review for a finished booking. Eligible bookings are
// COMPLETED ones, or CONFIRMED ones whose ride date has passed. One review per
// booking; the driver's aggregate rating is recomputed in the same
// transaction.
func (s *ReviewService) SubmitReview(ctx context.Context, reviewerID string, req SubmitReviewRequest) (*domain.Review, error) {
	if reviewerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var review *domain.Review

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if booking.PassengerID != reviewerID {
			return ErrNotBookingOwner
		}

		ride, err := tx.Rides().GetByID(ctx, booking.RideID)
		if err != nil {
			return err
		}
		if !reviewable(booking, ride) {
			return ErrReviewNotEligible
		}

		existing, err := tx.Reviews().GetByBookingID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateReview
		}

		review = &domain.Review{
			ID:         uuid.New().String(),
			BookingID:  booking.ID,
			ReviewerID: reviewerID,
			DriverID:   ride.DriverID,
			Rating:     req.Rating,
			Comment:    req.Comment,
			CreatedAt:  time.Now(),
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}

		average, err := tx.Reviews().AverageForDriver(ctx, ride.DriverID)
		if err != nil {
			return err
		}
		return tx.Users().UpdateDriverRating(ctx, ride.DriverID, average)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

func reviewable(booking *domain.Booking, ride *domain.Ride) bool {
	switch booking.Status {
	case domain.BookingStatusCompleted:
		return true
	case domain.BookingStatusConfirmed:
		return ride.RideDate.Before(time.Now())
	default:
		return false
	}
}

// HasReviewed reports whether a booking already carries a review.
func (s *ReviewService) HasReviewed(ctx context.Context, bookingID string) (bool, error) {
	if bookingID == "" {
		return false, ErrInvalidBookingID
	}
	review, err := s.store.Reviews().GetByBookingID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return review != nil, nil
}

// DriverReviews retrieves a driver's reviews, newest first.
func (s *ReviewService) DriverReviews(ctx context.Context, driverID string) ([]*domain.Review, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Reviews().ListByDriver(ctx, driverID)
}

// DriverRating returns a driver's average rating, 0 when unreviewed.
func (s *ReviewService) DriverRating(ctx context.Context, driverID string) (float64, error) {
	if driverID == "" {
		return 0, ErrInvalidUserID
	}
	return s.store.Reviews().AverageForDriver(ctx, driverID)
}
