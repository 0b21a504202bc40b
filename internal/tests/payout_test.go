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

// completedPaidBooking walks a booking through payment and ride completion so
// it is eligible for payout.
func completedPaidBooking(t *testing.T, f *fixture) *domain.Booking {
	t.Helper()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 2)
	f.pay(t, "passenger-1", booking.ID)

	_, err := f.rides.CompleteRide(context.Background(), "driver-1", "ride-1")
	require.NoError(t, err)
	return booking
}

func TestPayout_TransferCreditsWallet(t *testing.T) {
	t.Parallel()

	f := newFixture()
	booking := completedPaidBooking(t, f)

	payout, err := f.payouts.TransferToDriver(context.Background(), "driver-1", booking.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentTypeDriverPayout, payout.Type)
	assert.Equal(t, domain.PayoutStatusCompleted, payout.PayoutStatus)
	assert.Equal(t, 200.0, payout.Amount)
	assert.False(t, payout.PayoutDate.IsZero())

	driver, err := f.store.Users().GetByID(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, driver.WalletBalance)

	// The source payment carries the settled payout status.
	source, err := f.store.Payments().GetBookingPayment(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutStatusCompleted, source.PayoutStatus)
}

func TestPayout_RetryNeverCreditsTwice(t *testing.T) {
	t.Parallel()

	f := newFixture()
	booking := completedPaidBooking(t, f)

	_, err := f.payouts.TransferToDriver(context.Background(), "driver-1", booking.ID)
	require.NoError(t, err)

	_, err = f.payouts.TransferToDriver(context.Background(), "driver-1", booking.ID)
	assert.True(t, errors.Is(err, service.ErrAlreadyTransferred))

	driver, err := f.store.Users().GetByID(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, driver.WalletBalance)
}

func TestPayout_ConcurrentTransfersCreditOnce(t *testing.T) {
	t.Parallel()

	const attempts = 10

	f := newFixture()
	booking := completedPaidBooking(t, f)

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.payouts.TransferToDriver(context.Background(), "driver-1", booking.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, service.ErrAlreadyTransferred))
	}
	assert.Equal(t, 1, succeeded)

	driver, err := f.store.Users().GetByID(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, driver.WalletBalance)
	assert.Equal(t, int32(1), f.store.UserRepo().CreditWalletCallCount)
}

func TestPayout_RequiresCompletedBooking(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)
	f.pay(t, "passenger-1", booking.ID)
	// Ride not completed yet: booking is CONFIRMED.

	_, err := f.payouts.TransferToDriver(context.Background(), "driver-1", booking.ID)
	assert.True(t, errors.Is(err, service.ErrBookingNotCompleted))
}

func TestPayout_RequiresSuccessfulPayment(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedDriver("driver-1")
	f.seedPassenger("passenger-1")
	f.seedRide("ride-1", "driver-1", 3)

	booking := f.book(t, "passenger-1", "ride-1", 1)
	// No payment at all.

	_, err := f.payouts.TransferToDriver(context.Background(), "driver-1", booking.ID)
	assert.True(t, errors.Is(err, service.ErrPaymentRecordNotFound))
}

func TestPayout_OnlyRideDriverMayTransfer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	booking := completedPaidBooking(t, f)
	f.seedDriver("driver-2")

	_, err := f.payouts.TransferToDriver(context.Background(), "driver-2", booking.ID)
	assert.True(t, errors.Is(err, service.ErrNotRideOwner))
}

func TestPayout_WalletSummaryTracksPendingThenSettled(t *testing.T) {
	t.Parallel()

	f := newFixture()
	booking := completedPaidBooking(t, f)

	wallet, err := f.payouts.GetWallet(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, wallet.Balance)
	assert.Equal(t, 200.0, wallet.PendingPayout)
	assert.Equal(t, 0.0, wallet.SettledPayout)

	_, err = f.payouts.TransferToDriver(context.Background(), "driver-1", booking.ID)
	require.NoError(t, err)

	// The transfer invalidated the cached summary.
	wallet, err = f.payouts.GetWallet(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.PendingPayout)
	assert.Equal(t, 200.0, wallet.SettledPayout)
}
