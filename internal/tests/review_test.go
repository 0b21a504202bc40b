package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool/internal/service"
)

// completeBookingForReview runs a booking through payment and ride completion.
func completeBookingForReview(t *testing.T, f *fixture, rideID, passengerID string, seats int) string {
	t.Helper()
	booking := f.book(t, passengerID, rideID, seats)
	f.pay(t, passengerID, booking.ID)
	return booking.ID
}

func TestReview_UpdatesDriverAggregateRating(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedPassenger("passenger-2")
	f.seedRide("ride-1", "driver-1", 4)

	first := completeBookingForReview(t, f, "ride-1", "passenger-1", 1)
	second := completeBookingForReview(t, f, "ride-1", "passenger-2", 1)
	_, err := f.rides.CompleteRide(context.Background(), "driver-1", "ride-1")
	require.NoError(t, err)

	_, err = f.reviews.SubmitReview(context.Background(), "passenger-1", service.SubmitReviewRequest{
		BookingID: first,
		Rating:    5,
		Comment:   "smooth ride",
	})
	require.NoError(t, err)

	_, err = f.reviews.SubmitReview(context.Background(), "passenger-2", service.SubmitReviewRequest{
		BookingID: second,
		Rating:    4,
	})
	require.NoError(t, err)

	driver, err := f.store.Users().GetByID(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, driver.DriverRating)

	rating, err := f.reviews.DriverRating(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 4.5, rating)

	reviews, err := f.reviews.DriverReviews(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReview_OneReviewPerBooking(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	bookingID := completeBookingForReview(t, f, "ride-1", "passenger-1", 1)
	_, err := f.rides.CompleteRide(context.Background(), "driver-1", "ride-1")
	require.NoError(t, err)

	req := service.SubmitReviewRequest{BookingID: bookingID, Rating: 5}

	_, err = f.reviews.SubmitReview(context.Background(), "passenger-1", req)
	require.NoError(t, err)

	_, err = f.reviews.SubmitReview(context.Background(), "passenger-1", req)
	assert.True(t, errors.Is(err, service.ErrDuplicateReview))

	reviewed, err := f.reviews.HasReviewed(context.Background(), bookingID)
	require.NoError(t, err)
	assert.True(t, reviewed)
}

func TestReview_RequiresCompletedBooking(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)
	f.pay(t, "passenger-1", booking.ID)
	// Ride never completed: booking stays CONFIRMED.

	_, err := f.reviews.SubmitReview(context.Background(), "passenger-1", service.SubmitReviewRequest{
		BookingID: booking.ID,
		Rating:    5,
	})
	assert.True(t, errors.Is(err, service.ErrReviewNotEligible))
}

func TestReview_ConfirmedBookingEligibleOncePast(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	ride := f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)
	f.pay(t, "passenger-1", booking.ID)

	// Driver never closed the ride out; once the ride date passes the
	// passenger may still review.
	ride.RideDate = time.Now().Add(-time.Hour)
	f.store.RideRepo().AddRide(ride)

	review, err := f.reviews.SubmitReview(context.Background(), "passenger-1", service.SubmitReviewRequest{
		BookingID: booking.ID,
		Rating:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, "driver-1", review.DriverID)
}

func TestReview_OnlyBookingOwnerMayReview(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedPassenger("passenger-2")
	f.seedRide("ride-1", "driver-1", 3)

	bookingID := completeBookingForReview(t, f, "ride-1", "passenger-1", 1)
	_, err := f.rides.CompleteRide(context.Background(), "driver-1", "ride-1")
	require.NoError(t, err)

	_, err = f.reviews.SubmitReview(context.Background(), "passenger-2", service.SubmitReviewRequest{
		BookingID: bookingID,
		Rating:    1,
	})
	assert.True(t, errors.Is(err, service.ErrNotBookingOwner))
}

func TestReview_RatingMustBeOneToFive(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedPassenger("passenger-1")

	for _, rating := range []int{0, 6, -1} {
		_, err := f.reviews.SubmitReview(context.Background(), "passenger-1", service.SubmitReviewRequest{
			BookingID: "booking-1",
			Rating:    rating,
		})
		assert.True(t, errors.Is(err, service.ErrInvalidRating))
	}
}
