package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// ──────────────────────────────────────────────
// SEAT ACCOUNTING
// ──────────────────────────────────────────────

func TestBooking_SeatsCommitAtCreation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 2)

	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, 200.0, booking.FareAmount) // 2 seats at 100 each

	ride, err := f.store.Rides().GetByID(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, 1, ride.AvailableSeats)

	f.requireSeatConservation(t, "ride-1")
}

func TestBooking_InsufficientSeatsReportsRemaining(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedPassenger("passenger-2")
	f.seedRide("ride-1", "driver-1", 3)

	f.book(t, "passenger-1", "ride-1", 2)

	_, err := f.bookings.CreateBooking(context.Background(), "passenger-2", service.CreateBookingRequest{
		RideID: "ride-1",
		Seats:  2,
	})

	var seatsErr *service.InsufficientSeatsError
	require.ErrorAs(t, err, &seatsErr)
	assert.Equal(t, 1, seatsErr.Remaining)

	f.requireSeatConservation(t, "ride-1")
}

func TestBooking_ConcurrentRequestsNeverOversell(t *testing.T) {
	t.Parallel()

	const (
		totalSeats = 5
		attempts   = 20
	)

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedRide("ride-1", "driver-1", totalSeats)
	for i := 0; i < attempts; i++ {
		f.seedPassenger(passengerID(i))
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.bookings.CreateBooking(context.Background(), passengerID(i), service.CreateBookingRequest{
				RideID: "ride-1",
				Seats:  1,
			})
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			var seatsErr *service.InsufficientSeatsError
			require.ErrorAs(t, err, &seatsErr)
			rejected++
		}
	}

	assert.Equal(t, totalSeats, succeeded)
	assert.Equal(t, attempts-totalSeats, rejected)

	ride, err := f.store.Rides().GetByID(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, 0, ride.AvailableSeats)

	f.requireSeatConservation(t, "ride-1")
}

func passengerID(i int) string {
	return "passenger-" + string(rune('a'+i%26)) + string(rune('a'+i/26))
}

// ──────────────────────────────────────────────
// CANCELLATION
// ──────────────────────────────────────────────

func TestBooking_CancelRestoresSeats(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 2)

	cancelled, err := f.bookings.CancelBooking(context.Background(), "passenger-1", booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.CancelledAt.IsZero())

	ride, err := f.store.Rides().GetByID(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, 3, ride.AvailableSeats)

	f.requireSeatConservation(t, "ride-1")
}

func TestBooking_CancelMarksOpenPaymentFailed(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)

	order, err := f.payments.CreateOrder(context.Background(), "passenger-1", booking.ID)
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(context.Background(), "passenger-1", booking.ID)
	require.NoError(t, err)

	payment, err := f.store.Payments().GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
}

func TestBooking_CancelledBookingIsTerminal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)

	_, err := f.bookings.CancelBooking(context.Background(), "passenger-1", booking.ID)
	require.NoError(t, err)

	_, err = f.bookings.CancelBooking(context.Background(), "passenger-1", booking.ID)
	assert.True(t, errors.Is(err, service.ErrBookingTerminal))

	// Seats must not be restored twice.
	ride, err := f.store.Rides().GetByID(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, 3, ride.AvailableSeats)
}

func TestBooking_OnlyOwnerMayCancel(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedPassenger("passenger-2")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)

	_, err := f.bookings.CancelBooking(context.Background(), "passenger-2", booking.ID)
	assert.True(t, errors.Is(err, service.ErrNotBookingOwner))
}

// ──────────────────────────────────────────────
// GUARDS
// ──────────────────────────────────────────────

func TestBooking_DriverCannotBookOwnRide(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedRide("ride-1", "driver-1", 3)

	_, err := f.bookings.CreateBooking(context.Background(), "driver-1", service.CreateBookingRequest{
		RideID: "ride-1",
		Seats:  1,
	})
	assert.True(t, errors.Is(err, service.ErrOwnRide))
}

func TestBooking_RideMustBeOpen(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	ride := f.seedRide("ride-1", "driver-1", 3)
	ride.Status = domain.RideStatusOngoing
	f.store.RideRepo().AddRide(ride)

	_, err := f.bookings.CreateBooking(context.Background(), "passenger-1", service.CreateBookingRequest{
		RideID: "ride-1",
		Seats:  1,
	})
	assert.True(t, errors.Is(err, service.ErrRideNotOpen))
}

func TestBooking_SeatCountMustBePositive(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	for _, seats := range []int{0, -1} {
		_, err := f.bookings.CreateBooking(context.Background(), "passenger-1", service.CreateBookingRequest{
			RideID: "ride-1",
			Seats:  seats,
		})
		assert.True(t, errors.Is(err, service.ErrInvalidSeatCount))
	}
}

func TestBooking_DriverSeesBookingsAcrossRides(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedDriver("driver-2")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)
	f.seedRide("ride-2", "driver-1", 3)
	f.seedRide("ride-3", "driver-2", 3)

	f.book(t, "passenger-1", "ride-1", 1)
	f.book(t, "passenger-1", "ride-2", 2)
	f.book(t, "passenger-1", "ride-3", 1)

	bookings, err := f.bookings.ListDriverBookings(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	for _, b := range bookings {
		assert.Contains(t, []string{"ride-1", "ride-2"}, b.RideID)
	}
}
