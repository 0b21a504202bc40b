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

// ──────────────────────────────────────────────
// PUBLICATION
// ──────────────────────────────────────────────

func TestRide_PostComputesEstimatedFare(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")

	ride, err := f.rides.PostRide(context.Background(), "driver-1", service.PostRideRequest{
		Source:      "Pune",
		Destination: "Mumbai",
		RideDate:    time.Now().Add(24 * time.Hour),
		Seats:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, ride.TotalDistance)
	assert.Equal(t, 100.0, ride.EstimatedFare) // 50 + 5 * 10
	assert.Equal(t, 3, ride.AvailableSeats)
	assert.Equal(t, 3, ride.TotalSeats)
	assert.Equal(t, domain.RideStatusScheduled, ride.Status)
}

func TestRide_UnapprovedDriverCannotPost(t *testing.T) {
	t.Parallel()

	f := newFixture()
	driver := f.seedDriver("driver-1")
	driver.Approved = false
	f.store.UserRepo().AddUser(driver)

	_, err := f.rides.PostRide(context.Background(), "driver-1", service.PostRideRequest{
		Source:      "Pune",
		Destination: "Mumbai",
		RideDate:    time.Now().Add(24 * time.Hour),
		Seats:       3,
	})
	assert.True(t, errors.Is(err, service.ErrDriverNotApproved))
}

func TestRide_PassengerCannotPost(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedPassenger("passenger-1")

	_, err := f.rides.PostRide(context.Background(), "passenger-1", service.PostRideRequest{
		Source:      "Pune",
		Destination: "Mumbai",
		RideDate:    time.Now().Add(24 * time.Hour),
		Seats:       2,
	})
	assert.True(t, errors.Is(err, service.ErrDriverNotApproved))
}

// ──────────────────────────────────────────────
// SEARCH
// ──────────────────────────────────────────────

func TestRide_SearchFiltersFareAndRating(t *testing.T) {
	t.Parallel()

	f := newFixture()
	cheap := f.seedDriver("driver-1")
	cheap.DriverRating = 3
	f.store.UserRepo().AddUser(cheap)
	pricey := f.seedDriver("driver-2")
	pricey.DriverRating = 4.8
	f.store.UserRepo().AddUser(pricey)

	f.seedRide("ride-1", "driver-1", 3)
	expensive := f.seedRide("ride-2", "driver-2", 3)
	expensive.EstimatedFare = 500
	f.store.RideRepo().AddRide(expensive)

	got, err := f.rides.SearchRides(context.Background(), service.SearchFilter{MaxFare: 200})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ride-1", got[0].ID)

	got, err = f.rides.SearchRides(context.Background(), service.SearchFilter{MinDriverRating: 4})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ride-2", got[0].ID)
}

func TestRide_SearchExcludesFullAndClosedRides(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")

	full := f.seedRide("ride-1", "driver-1", 2)
	full.AvailableSeats = 0
	f.store.RideRepo().AddRide(full)

	cancelled := f.seedRide("ride-2", "driver-1", 2)
	cancelled.Status = domain.RideStatusCancelled
	f.store.RideRepo().AddRide(cancelled)

	f.seedRide("ride-3", "driver-1", 2)

	got, err := f.rides.SearchRides(context.Background(), service.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ride-3", got[0].ID)
}

func TestRide_SearchServesCachedResults(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedRide("ride-1", "driver-1", 3)

	filter := service.SearchFilter{Source: "Pune", Destination: "Mumbai"}

	_, err := f.rides.SearchRides(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.cache.SearchMissCount)

	_, err = f.rides.SearchRides(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.cache.SearchHitCount)
}

// ──────────────────────────────────────────────
// LIFECYCLE
// ──────────────────────────────────────────────

func TestRide_StartRequiresOwnerAndScheduledState(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedDriver("driver-2")
	f.seedRide("ride-1", "driver-1", 3)

	_, err := f.rides.StartRide(context.Background(), "driver-2", "ride-1")
	assert.True(t, errors.Is(err, service.ErrNotRideOwner))

	started, err := f.rides.StartRide(context.Background(), "driver-1", "ride-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusOngoing, started.Status)

	_, err = f.rides.StartRide(context.Background(), "driver-1", "ride-1")
	assert.True(t, errors.Is(err, service.ErrRideNotOpen))
}

func TestRide_CancelCascadesOverBookings(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedPassenger("passenger-2")
	f.seedRide("ride-1", "driver-1", 4)

	paid := f.book(t, "passenger-1", "ride-1", 2)
	f.pay(t, "passenger-1", paid.ID)
	unpaid := f.book(t, "passenger-2", "ride-1", 1)

	cancelled, err := f.rides.CancelRide(context.Background(), "driver-1", "ride-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusCancelled, cancelled.Status)
	assert.Equal(t, 4, cancelled.AvailableSeats)

	for _, id := range []string{paid.ID, unpaid.ID} {
		booking, err := f.store.Bookings().GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, booking.Status)
	}

	f.requireSeatConservation(t, "ride-1")

	// A cancelled ride is terminal.
	_, err = f.rides.CancelRide(context.Background(), "driver-1", "ride-1")
	assert.True(t, errors.Is(err, service.ErrRideTerminal))
}

func TestRide_CompletePropagatesToBookings(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedPassenger("passenger-2")
	f.seedRide("ride-1", "driver-1", 4)

	paid := f.book(t, "passenger-1", "ride-1", 2)
	f.pay(t, "passenger-1", paid.ID)
	unpaid := f.book(t, "passenger-2", "ride-1", 1)

	completed, err := f.rides.CompleteRide(context.Background(), "driver-1", "ride-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RideStatusCompleted, completed.Status)

	done, err := f.store.Bookings().GetByID(context.Background(), paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, done.Status)

	dropped, err := f.store.Bookings().GetByID(context.Background(), unpaid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, dropped.Status)

	driver, err := f.store.Users().GetByID(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 1, driver.TotalRides)

	f.requireSeatConservation(t, "ride-1")
}
