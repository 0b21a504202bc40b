package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carpool/internal/domain"
	"carpool/internal/service"
	"carpool/pkg/logger"
)

// fixedDistance pins every route to the same length so fares are predictable.
type fixedDistance struct{ km float64 }

func (f fixedDistance) Distance(_, _ string) float64 { return f.km }

// fixture bundles the services under test around one in-memory store.
// Default pricing is base 50 + 5/km over a fixed 10 km route, so a full-route
// seat costs 100.
type fixture struct {
	store    *MockStore
	cache    *MockCacheStore
	locks    *MockLockStore
	gateway  *service.SandboxGateway
	users    *service.UserService
	rides    *service.RideService
	bookings *service.BookingService
	payments *service.PaymentService
	payouts  *service.PayoutService
	reviews  *service.ReviewService
}

const gatewaySecret = "test_secret"

func newFixture() *fixture {
	store := NewMockStore()
	cache := NewMockCacheStore()
	locks := NewMockLockStore()
	log := logger.NewNop()

	notifications := service.NewNotificationService(log)
	fare := service.NewFareService(50, 5, fixedDistance{km: 10})
	gateway := service.NewSandboxGateway(gatewaySecret)

	return &fixture{
		store:    store,
		cache:    cache,
		locks:    locks,
		gateway:  gateway,
		users:    service.NewUserService(store, log),
		rides:    service.NewRideService(store, fare, notifications, cache, log),
		bookings: service.NewBookingService(store, fare, notifications, log),
		payments: service.NewPaymentService(store, gateway, notifications, gatewaySecret, "INR", time.Second, log),
		payouts:  service.NewPayoutService(store, notifications, cache, log),
		reviews:  service.NewReviewService(store, log),
	}
}

func (f *fixture) reconciler(maxPendingAge time.Duration) *service.Reconciler {
	return service.NewReconciler(
		f.store, f.locks, service.NewNotificationService(logger.NewNop()),
		time.Minute, maxPendingAge, logger.NewNop(),
	)
}

func (f *fixture) seedDriver(id string) *domain.User {
	driver := &domain.User{
		ID:        id,
		Name:      "Driver " + id,
		Email:     id + "@example.com",
		Role:      domain.RoleDriver,
		Approved:  true,
		CreatedAt: time.Now(),
	}
	f.store.UserRepo().AddUser(driver)
	return driver
}

func (f *fixture) seedPassenger(id string) *domain.User {
	passenger := &domain.User{
		ID:        id,
		Name:      "Passenger " + id,
		Email:     id + "@example.com",
		Role:      domain.RolePassenger,
		Approved:  true,
		CreatedAt: time.Now(),
	}
	f.store.UserRepo().AddUser(passenger)
	return passenger
}

func (f *fixture) seedRide(id, driverID string, seats int) *domain.Ride {
	ride := &domain.Ride{
		ID:             id,
		DriverID:       driverID,
		Source:         "Pune",
		Destination:    "Mumbai",
		RideDate:       time.Now().Add(24 * time.Hour),
		AvailableSeats: seats,
		TotalSeats:     seats,
		BaseFare:       50,
		RatePerKm:      5,
		TotalDistance:  10,
		EstimatedFare:  100,
		Status:         domain.RideStatusScheduled,
		CreatedAt:      time.Now(),
	}
	f.store.RideRepo().AddRide(ride)
	return ride
}

// book places a booking and fails the test on error.
func (f *fixture) book(t *testing.T, passengerID, rideID string, seats int) *domain.Booking {
	t.Helper()
	booking, err := f.bookings.CreateBooking(context.Background(), passengerID, service.CreateBookingRequest{
		RideID: rideID,
		Seats:  seats,
	})
	require.NoError(t, err)
	return booking
}

// pay runs the full order-create-verify flow for a booking.
func (f *fixture) pay(t *testing.T, passengerID, bookingID string) *domain.Payment {
	t.Helper()
	ctx := context.Background()

	order, err := f.payments.CreateOrder(ctx, passengerID, bookingID)
	require.NoError(t, err)

	paymentID, sig := f.gateway.CompleteOrder(order.OrderID)
	payment, err := f.payments.VerifyPayment(ctx, service.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: paymentID,
		Signature: sig,
	})
	require.NoError(t, err)
	return payment
}

// requireSeatConservation asserts that available seats plus the seats held by
// non-cancelled bookings equal the ride's total.
func (f *fixture) requireSeatConservation(t *testing.T, rideID string) {
	t.Helper()
	ctx := context.Background()

	ride, err := f.store.Rides().GetByID(ctx, rideID)
	require.NoError(t, err)

	bookings, err := f.store.Bookings().ListByRide(ctx, rideID)
	require.NoError(t, err)

	held := 0
	for _, b := range bookings {
		if b.Status != domain.BookingStatusCancelled {
			held += b.Seats
		}
	}
	require.Equal(t, ride.TotalSeats, ride.AvailableSeats+held,
		"seat conservation violated: total=%d available=%d held=%d",
		ride.TotalSeats, ride.AvailableSeats, held)
}
