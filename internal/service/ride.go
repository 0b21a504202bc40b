package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
	"carpool/pkg/logger"
)

// RideService owns ride records: publication, search, lifecycle transitions
// and the booking cancellation cascade.
type RideService struct {
	store         repository.Store
	fare          *FareService
	notifications *NotificationService
	cache         redis.CacheStoreInterface
	log           *logger.Logger
}

// NewRideService creates a new RideService. The cache may be nil.
func NewRideService(
	store repository.Store,
	fare *FareService,
	notifications *NotificationService,
	cache redis.CacheStoreInterface,
	log *logger.Logger,
) *RideService {
	return &RideService{
		store:         store,
		fare:          fare,
		notifications: notifications,
		cache:         cache,
		log:           log,
	}
}

// PostRideRequest contains the parameters for publishing a ride.
type PostRideRequest struct {
	Source      string
	Destination string
	RideDate    time.Time
	Seats       int
	// BaseFare and RatePerKm fall back to configured defaults when zero.
	BaseFare  float64
	RatePerKm float64
}

// PostRide publishes a new ride for an approved driver.
func (s *RideService) PostRide(ctx context.Context, driverID string, req PostRideRequest) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Source == "" || req.Destination == "" {
		return nil, ErrInvalidRoute
	}
	if req.RideDate.IsZero() {
		return nil, ErrInvalidRideDate
	}
	if req.Seats < 1 {
		return nil, ErrInvalidSeatCount
	}

	driver, err := s.store.Users().GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.IsDriver() || !driver.Approved {
		return nil, ErrDriverNotApproved
	}

	baseFare := req.BaseFare
	if baseFare <= 0 {
		baseFare = s.fare.DefaultBaseFare()
	}
	ratePerKm := req.RatePerKm
	if ratePerKm <= 0 {
		ratePerKm = s.fare.DefaultRatePerKm()
	}

	distance := s.fare.Distance(req.Source, req.Destination)

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		DriverID:       driverID,
		Source:         req.Source,
		Destination:    req.Destination,
		RideDate:       req.RideDate,
		AvailableSeats: req.Seats,
		TotalSeats:     req.Seats,
		BaseFare:       baseFare,
		RatePerKm:      ratePerKm,
		TotalDistance:  distance,
		EstimatedFare:  s.fare.Fare(baseFare, ratePerKm, distance),
		Status:         domain.RideStatusScheduled,
		CreatedAt:      time.Now(),
	}

	if err := s.store.Rides().Create(ctx, ride); err != nil {
		return nil, err
	}

	return ride, nil
}

// SearchFilter narrows a ride search. Zero values mean "any".
type SearchFilter struct {
	Source          string
	Destination     string
	Date            time.Time
	MinFare         float64
	MaxFare         float64
	MinDriverRating float64
}

// SearchRides returns SCHEDULED rides with free seats matching the filter,
// newest ride date first. Price and driver rating bounds are applied after
// the store query.
func (s *RideService) SearchRides(ctx context.Context, filter SearchFilter) ([]*domain.Ride, error) {
	repoFilter := repository.RideSearchFilter{
		Source:      filter.Source,
		Destination: filter.Destination,
		Date:        filter.Date,
	}

	rides, ok := s.cachedSearch(ctx, repoFilter)
	if !ok {
		var err error
		rides, err = s.store.Rides().Search(ctx, repoFilter)
		if err != nil {
			return nil, err
		}
		s.storeSearch(ctx, repoFilter, rides)
	}

	ratings := make(map[string]float64)
	result := make([]*domain.Ride, 0, len(rides))
	for _, ride := range rides {
		if filter.MinFare > 0 && ride.EstimatedFare < filter.MinFare {
			continue
		}
		if filter.MaxFare > 0 && ride.EstimatedFare > filter.MaxFare {
			continue
		}
		if filter.MinDriverRating > 0 {
			rating, cached := ratings[ride.DriverID]
			if !cached {
				driver, err := s.store.Users().GetByID(ctx, ride.DriverID)
				if err != nil {
					return nil, err
				}
				rating = driver.DriverRating
				ratings[ride.DriverID] = rating
			}
			if rating < filter.MinDriverRating {
				continue
			}
		}
		result = append(result, ride)
	}

	return result, nil
}

// GetRide retrieves a ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.store.Rides().GetByID(ctx, rideID)
}

// ListDriverRides retrieves all rides published by a driver.
func (s *RideService) ListDriverRides(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Rides().ListByDriver(ctx, driverID)
}

// StartRide moves a SCHEDULED ride to ONGOING.
func (s *RideService) StartRide(ctx context.Context, driverID, rideID string) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	var started *domain.Ride
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		ride, err := tx.Rides().GetByIDForUpdate(ctx, rideID)
		if err != nil {
			return err
		}
		if ride.DriverID != driverID {
			return ErrNotRideOwner
		}
		if ride.Status.IsTerminal() {
			return ErrRideTerminal
		}
		if ride.Status != domain.RideStatusScheduled {
			return ErrRideNotOpen
		}

		ride.Status = domain.RideStatusOngoing
		started = ride
		return tx.Rides().UpdateStatus(ctx, rideID, domain.RideStatusOngoing)
	})
	if err != nil {
		return nil, err
	}

	return started, nil
}

// CompleteRide marks a ride COMPLETED. CONFIRMED bookings become COMPLETED
// and keep their seats; unpaid PENDING bookings are cancelled with seat
// restitution. The driver's ride counter is incremented. Atomic.
func (s *RideService) CompleteRide(ctx context.Context, driverID, rideID string) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	var completed *domain.Ride
	var dropped []*domain.Booking

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		ride, err := tx.Rides().GetByIDForUpdate(ctx, rideID)
		if err != nil {
			return err
		}
		if ride.DriverID != driverID {
			return ErrNotRideOwner
		}
		if ride.Status.IsTerminal() {
			return ErrRideTerminal
		}

		bookings, err := tx.Bookings().ListActiveByRide(ctx, rideID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, booking := range bookings {
			switch booking.Status {
			case domain.BookingStatusConfirmed:
				if err := tx.Bookings().UpdateStatus(ctx, booking.ID, domain.BookingStatusCompleted); err != nil {
					return err
				}
			case domain.BookingStatusPending:
				booking.Status = domain.BookingStatusCancelled
				booking.CancelledAt = now
				if err := tx.Bookings().Update(ctx, booking); err != nil {
					return err
				}
				if err := failOpenPayment(ctx, tx, booking.ID); err != nil {
					return err
				}
				ride.AvailableSeats += booking.Seats
				dropped = append(dropped, booking)
			}
		}

		ride.Status = domain.RideStatusCompleted
		if err := tx.Rides().Update(ctx, ride); err != nil {
			return err
		}

		if err := tx.Users().IncrementTotalRides(ctx, driverID); err != nil {
			return err
		}

		completed = ride
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, booking := range dropped {
		s.notifications.NotifyBookingCancelled(ctx, booking)
	}

	return completed, nil
}

// CancelRide cancels a ride and cascades over its bookings: every non-terminal
// booking is set to CANCELLED, then the ride itself. The cascade is one
// transaction; a partial cascade is an invariant violation.
func (s *RideService) CancelRide(ctx context.Context, driverID, rideID string) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	var cancelled *domain.Ride
	var affected []*domain.Booking

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		ride, err := tx.Rides().GetByIDForUpdate(ctx, rideID)
		if err != nil {
			return err
		}
		if ride.DriverID != driverID {
			return ErrNotRideOwner
		}
		if ride.Status.IsTerminal() {
			return ErrRideTerminal
		}

		bookings, err := tx.Bookings().ListActiveByRide(ctx, rideID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, booking := range bookings {
			booking.Status = domain.BookingStatusCancelled
			booking.CancelledAt = now
			if err := tx.Bookings().Update(ctx, booking); err != nil {
				return err
			}
			if err := failOpenPayment(ctx, tx, booking.ID); err != nil {
				return err
			}
		}

		ride.Status = domain.RideStatusCancelled
		ride.AvailableSeats = ride.TotalSeats
		if err := tx.Rides().Update(ctx, ride); err != nil {
			return err
		}

		cancelled = ride
		affected = bookings
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notifications run after the commit so a slow mailer never holds locks.
	s.notifications.NotifyRideCancelled(ctx, cancelled, affected)

	return cancelled, nil
}

func (s *RideService) cachedSearch(ctx context.Context, filter repository.RideSearchFilter) ([]*domain.Ride, bool) {
	if s.cache == nil {
		return nil, false
	}
	rides, err := s.cache.GetSearch(ctx, searchCacheKey(filter))
	if err != nil || rides == nil {
		return nil, false
	}
	return rides, true
}

func (s *RideService) storeSearch(ctx context.Context, filter repository.RideSearchFilter, rides []*domain.Ride) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSearch(ctx, searchCacheKey(filter), rides); err != nil {
		s.log.Warn("failed to cache ride search", logger.Err(err))
	}
}

func searchCacheKey(filter repository.RideSearchFilter) string {
	date := ""
	if !filter.Date.IsZero() {
		date = filter.Date.Format("2006-01-02")
	}
	return filter.Source + "|" + filter.Destination + "|" + date
}
