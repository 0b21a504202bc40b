package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// TestJourney_PostBookPayCompletePayoutReview walks one ride through its whole
// life: publish, two passengers compete for seats, one pays, the driver
// completes the ride, gets paid out, and collects a review.
func TestJourney_PostBookPayCompletePayoutReview(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	driver := f.seedDriver("driver-1")
	f.seedPassenger("passenger-a")
	f.seedPassenger("passenger-b")

	ride, err := f.rides.PostRide(ctx, driver.ID, service.PostRideRequest{
		Source:      "Pune",
		Destination: "Mumbai",
		RideDate:    time.Now().Add(24 * time.Hour),
		Seats:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, ride.EstimatedFare)
	assert.Equal(t, 3, ride.AvailableSeats)

	// Passenger A takes two seats and pays for them.
	bookingA := f.book(t, "passenger-a", ride.ID, 2)
	assert.Equal(t, 200.0, bookingA.FareAmount)
	f.requireSeatConservation(t, ride.ID)

	f.pay(t, "passenger-a", bookingA.ID)

	bookingA, err = f.store.Bookings().GetByID(ctx, bookingA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, bookingA.Status)

	// Passenger B wants two seats but only one is left.
	_, err = f.bookings.CreateBooking(ctx, "passenger-b", service.CreateBookingRequest{
		RideID: ride.ID,
		Seats:  2,
	})
	var insufficient *service.InsufficientSeatsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 1, insufficient.Remaining)

	bookingB := f.book(t, "passenger-b", ride.ID, 1)
	f.requireSeatConservation(t, ride.ID)

	// Completing the ride settles A and drops B's unpaid booking.
	_, err = f.rides.CompleteRide(ctx, driver.ID, ride.ID)
	require.NoError(t, err)

	bookingA, err = f.store.Bookings().GetByID(ctx, bookingA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, bookingA.Status)

	bookingB, err = f.store.Bookings().GetByID(ctx, bookingB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, bookingB.Status)
	f.requireSeatConservation(t, ride.ID)

	// Driver collects A's fare.
	payout, err := f.payouts.TransferToDriver(ctx, driver.ID, bookingA.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentTypeDriverPayout, payout.Type)

	wallet, err := f.payouts.GetWallet(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.PendingPayout)

	// Passenger A leaves a review and the driver's rating follows.
	_, err = f.reviews.SubmitReview(ctx, "passenger-a", service.SubmitReviewRequest{
		BookingID: bookingA.ID,
		Rating:    5,
		Comment:   "on time, friendly",
	})
	require.NoError(t, err)

	updated, err := f.store.Users().GetByID(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.DriverRating)
	assert.Equal(t, 1, updated.TotalRides)
}
