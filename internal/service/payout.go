package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
	"carpool/pkg/logger"
)

// PayoutService settles completed bookings into driver wallets. Each booking
// payment transfers at most once; the idempotence check and the wallet credit
// share one transaction on the locked payment row.
type PayoutService struct {
	store         repository.Store
	notifications *NotificationService
	cache         redis.CacheStoreInterface
	log           *logger.Logger
}

// NewPayoutService creates a new PayoutService. The cache may be nil.
func NewPayoutService(
	store repository.Store,
	notifications *NotificationService,
	cache redis.CacheStoreInterface,
	log *logger.Logger,
) *PayoutService {
	return &PayoutService{
		store:         store,
		notifications: notifications,
		cache:         cache,
		log:           log,
	}
}

// TransferToDriver credits a completed booking's fare to its driver's wallet
// and records a DRIVER_PAYOUT mirror entry. Retrying a settled transfer
// returns ErrAlreadyTransferred and never credits twice.
func (s *PayoutService) TransferToDriver(ctx context.Context, driverID, bookingID string) (*domain.Payment, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	var payout *domain.Payment

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		payment, err := tx.Payments().GetBookingPaymentForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if payment == nil || payment.Status != domain.PaymentStatusSuccess {
			return ErrPaymentRecordNotFound
		}
		if payment.DriverID != driverID {
			return ErrNotRideOwner
		}
		if payment.PayoutStatus == domain.PayoutStatusCompleted {
			return ErrAlreadyTransferred
		}

		booking, err := tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingStatusCompleted {
			return ErrBookingNotCompleted
		}

		now := time.Now()
		if err := tx.Users().CreditWallet(ctx, driverID, payment.Amount); err != nil {
			return err
		}
		if err := tx.Payments().UpdatePayout(ctx, payment.ID, domain.PayoutStatusCompleted, now); err != nil {
			return err
		}

		payout = &domain.Payment{
			ID:           uuid.New().String(),
			BookingID:    bookingID,
			PassengerID:  payment.PassengerID,
			DriverID:     driverID,
			OrderID:      "payout_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
			Amount:       payment.Amount,
			Status:       domain.PaymentStatusSuccess,
			Type:         domain.PaymentTypeDriverPayout,
			PayoutStatus: domain.PayoutStatusCompleted,
			PayoutDate:   now,
			CreatedAt:    now,
		}
		return tx.Payments().Create(ctx, payout)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateWallet(ctx, driverID)
	s.notifications.NotifyPayoutCompleted(ctx, payout)

	return payout, nil
}

// Wallet is a driver's settlement summary.
type Wallet struct {
	DriverID      string
	Balance       float64
	PendingPayout float64
	SettledPayout float64
}

// GetWallet returns a driver's wallet balance alongside the totals of SUCCESS
// booking payments already transferred and not yet transferred.
func (s *PayoutService) GetWallet(ctx context.Context, driverID string) (*Wallet, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}

	if cached := s.cachedWallet(ctx, driverID); cached != nil {
		return cached, nil
	}

	driver, err := s.store.Users().GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.IsDriver() {
		return nil, ErrDriverNotApproved
	}

	pending, err := s.store.Payments().SumPayouts(ctx, driverID, domain.PayoutStatusPending)
	if err != nil {
		return nil, err
	}
	settled, err := s.store.Payments().SumPayouts(ctx, driverID, domain.PayoutStatusCompleted)
	if err != nil {
		return nil, err
	}

	wallet := &Wallet{
		DriverID:      driverID,
		Balance:       driver.WalletBalance,
		PendingPayout: pending,
		SettledPayout: settled,
	}
	s.storeWallet(ctx, wallet)

	return wallet, nil
}

func (s *PayoutService) cachedWallet(ctx context.Context, driverID string) *Wallet {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetWallet(ctx, driverID)
	if err != nil || cached == nil {
		return nil
	}
	return &Wallet{
		DriverID:      cached.DriverID,
		Balance:       cached.Balance,
		PendingPayout: cached.PendingPayout,
		SettledPayout: cached.SettledPayout,
	}
}

func (s *PayoutService) storeWallet(ctx context.Context, wallet *Wallet) {
	if s.cache == nil {
		return
	}
	err := s.cache.SetWallet(ctx, &redis.CachedWallet{
		DriverID:      wallet.DriverID,
		Balance:       wallet.Balance,
		PendingPayout: wallet.PendingPayout,
		SettledPayout: wallet.SettledPayout,
	})
	if err != nil {
		s.log.Warn("failed to cache wallet summary", logger.Err(err))
	}
}

func (s *PayoutService) invalidateWallet(ctx context.Context, driverID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, driverID); err != nil {
		s.log.Warn("failed to invalidate wallet cache", logger.Err(err))
	}
}
