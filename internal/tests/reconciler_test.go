package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool/internal/domain"
)

func backdateBooking(f *fixture, bookingID string, age time.Duration) {
	booking, _ := f.store.Bookings().GetByID(context.Background(), bookingID)
	booking.CreatedAt = time.Now().Add(-age)
	f.store.BookingRepo().AddBooking(booking)
}

func TestReconciler_CancelsStalePendingBookings(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 2)
	order, err := f.payments.CreateOrder(context.Background(), "passenger-1", booking.ID)
	require.NoError(t, err)

	backdateBooking(f, booking.ID, time.Hour)

	cancelled, err := f.reconciler(30 * time.Minute).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	swept, err := f.store.Bookings().GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, swept.Status)

	ride, err := f.store.Rides().GetByID(context.Background(), "ride-1")
	require.NoError(t, err)
	assert.Equal(t, 3, ride.AvailableSeats)

	payment, err := f.store.Payments().GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)

	f.requireSeatConservation(t, "ride-1")
}

func TestReconciler_LeavesFreshBookingsAlone(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)

	cancelled, err := f.reconciler(30 * time.Minute).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)

	fresh, err := f.store.Bookings().GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, fresh.Status)
}

func TestReconciler_LeavesConfirmedBookingsAlone(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)
	f.pay(t, "passenger-1", booking.ID)
	backdateBooking(f, booking.ID, time.Hour)

	cancelled, err := f.reconciler(30 * time.Minute).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)
}

func TestReconciler_SkipsWhenAnotherInstanceHoldsLock(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)
	backdateBooking(f, booking.ID, time.Hour)

	held, err := f.locks.AcquireSweepLock(context.Background(), "booking-reconciler", time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	cancelled, err := f.reconciler(30 * time.Minute).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)

	untouched, err := f.store.Bookings().GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, untouched.Status)

	// Once the other instance releases, the sweep proceeds.
	require.NoError(t, f.locks.ReleaseSweepLock(context.Background(), "booking-reconciler"))

	cancelled, err = f.reconciler(30 * time.Minute).Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)
}
