package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/pkg/logger"
)

// BookingService owns the booking ledger. Seat accounting happens here, under
// a row lock on the ride, so concurrent bookings can never oversell.
type BookingService struct {
	store         repository.Store
	fare          *FareService
	notifications *NotificationService
	log           *logger.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	store repository.Store,
	fare *FareService,
	notifications *NotificationService,
	log *logger.Logger,
) *BookingService {
	return &BookingService{
		store:         store,
		fare:          fare,
		notifications: notifications,
		log:           log,
	}
}

// CreateBookingRequest contains the parameters for booking seats on a ride.
type CreateBookingRequest struct {
	RideID string
	// Pickup and Dropoff default to the ride's endpoints when empty.
	Pickup  string
	Dropoff string
	Seats   int
}

// CreateBooking reserves seats on a ride. The seat check and decrement run
// in one transaction against a locked ride row; the booking starts PENDING
// and flips to CONFIRMED only when its payment verifies.
func (s *BookingService) CreateBooking(ctx context.Context, passengerID string, req CreateBookingRequest) (*domain.Booking, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Seats < 1 {
		return nil, ErrInvalidSeatCount
	}

	if _, err := s.store.Users().GetByID(ctx, passengerID); err != nil {
		return nil, err
	}

	var booking *domain.Booking
	var ride *domain.Ride

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		ride, err = tx.Rides().GetByIDForUpdate(ctx, req.RideID)
		if err != nil {
			return err
		}
		if ride.DriverID == passengerID {
			return ErrOwnRide
		}
		if ride.Status.IsTerminal() {
			return ErrRideTerminal
		}
		if ride.Status != domain.RideStatusScheduled {
			return ErrRideNotOpen
		}
		if ride.AvailableSeats < req.Seats {
			return &InsufficientSeatsError{Remaining: ride.AvailableSeats}
		}

		pickup := req.Pickup
		if pickup == "" {
			pickup = ride.Source
		}
		dropoff := req.Dropoff
		if dropoff == "" {
			dropoff = ride.Destination
		}

		distance := s.fare.Distance(pickup, dropoff)
		if distance > ride.TotalDistance {
			distance = ride.TotalDistance
		}

		share := s.fare.ProportionalFare(ride.EstimatedFare, ride.TotalDistance, distance)

		booking = &domain.Booking{
			ID:              uuid.New().String(),
			RideID:          ride.ID,
			PassengerID:     passengerID,
			Pickup:          pickup,
			Dropoff:         dropoff,
			DistanceCovered: distance,
			FareAmount:      share * float64(req.Seats),
			Seats:           req.Seats,
			Status:          domain.BookingStatusPending,
			CreatedAt:       time.Now(),
		}
		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return err
		}

		ride.AvailableSeats -= req.Seats
		return tx.Rides().UpdateSeats(ctx, ride.ID, ride.AvailableSeats)
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyBookingPlaced(ctx, booking, ride)

	return booking, nil
}

// CancelBooking cancels a passenger's booking and returns its seats to the
// ride. A PENDING payment on the booking is marked FAILED in the same
// transaction. Terminal bookings cannot be cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, passengerID, bookingID string) (*domain.Booking, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	var cancelled *domain.Booking

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.PassengerID != passengerID {
			return ErrNotBookingOwner
		}
		if booking.Status.IsTerminal() {
			return ErrBookingTerminal
		}

		ride, err := tx.Rides().GetByIDForUpdate(ctx, booking.RideID)
		if err != nil {
			return err
		}

		booking.Status = domain.BookingStatusCancelled
		booking.CancelledAt = time.Now()
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return err
		}

		if !ride.Status.IsTerminal() {
			ride.AvailableSeats += booking.Seats
			if err := tx.Rides().UpdateSeats(ctx, ride.ID, ride.AvailableSeats); err != nil {
				return err
			}
		}

		if err := failOpenPayment(ctx, tx, booking.ID); err != nil {
			return err
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyBookingCancelled(ctx, cancelled)

	return cancelled, nil
}

// failOpenPayment marks a booking's PENDING payment FAILED, if one exists.
// Runs inside the caller's transaction.
func failOpenPayment(ctx context.Context, tx repository.Store, bookingID string) error {
	payment, err := tx.Payments().GetBookingPaymentForUpdate(ctx, bookingID)
	if err != nil {
		return err
	}
	if payment != nil && payment.Status == domain.PaymentStatusPending {
		return tx.Payments().UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed)
	}
	return nil
}

// GetBooking retrieves a booking. Only the passenger who placed it or the
// driver of its ride may read it.
func (s *BookingService) GetBooking(ctx context.Context, callerID, bookingID string) (*domain.Booking, error) {
	if callerID == "" {
		return nil, ErrInvalidUserID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PassengerID == callerID {
		return booking, nil
	}

	ride, err := s.store.Rides().GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != callerID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

// ListPassengerBookings retrieves a passenger's bookings, newest first.
func (s *BookingService) ListPassengerBookings(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Bookings().ListByPassenger(ctx, passengerID)
}

// ListRideBookings retrieves the bookings on a ride for its driver.
func (s *BookingService) ListRideBookings(ctx context.Context, driverID, rideID string) ([]*domain.Booking, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.store.Rides().GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrNotRideOwner
	}

	return s.store.Bookings().ListByRide(ctx, rideID)
}

// ListDriverBookings retrieves the bookings across all of a driver's rides,
// newest first.
func (s *BookingService) ListDriverBookings(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Bookings().ListByDriver(ctx, driverID)
}
