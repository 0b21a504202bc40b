package service

import (
	"context"
	"time"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
	"carpool/pkg/logger"
)

const reconcilerLockName = "booking-reconciler"

// Reconciler sweeps bookings stuck in PENDING past the payment window,
// cancels them and returns their seats. A Redis lock keeps the sweep to a
// single runner across instances.
type Reconciler struct {
	store         repository.Store
	locks         redis.LockStoreInterface
	notifications *NotificationService
	interval      time.Duration
	maxPendingAge time.Duration
	log           *logger.Logger
}

// NewReconciler creates a new Reconciler. The lock store may be nil for
// single-instance deployments.
func NewReconciler(
	store repository.Store,
	locks redis.LockStoreInterface,
	notifications *NotificationService,
	interval, maxPendingAge time.Duration,
	log *logger.Logger,
) *Reconciler {
	return &Reconciler{
		store:         store,
		locks:         locks,
		notifications: notifications,
		interval:      interval,
		maxPendingAge: maxPendingAge,
		log:           log,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.log.Error("reconciler sweep failed", logger.Err(err))
			}
		}
	}
}

// Sweep cancels every booking that has sat PENDING longer than the payment
// window and marks its open payment FAILED. Each booking is reconciled in its
// own transaction so one bad row never blocks the rest. Returns the number of
// bookings cancelled.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	if r.locks != nil {
		ok, err := r.locks.AcquireSweepLock(ctx, reconcilerLockName, r.interval)
		if err != nil {
			return 0, err
		}
		if !ok {
			// Another instance is sweeping.
			return 0, nil
		}
		defer func() {
			if err := r.locks.ReleaseSweepLock(ctx, reconcilerLockName); err != nil {
				r.log.Warn("failed to release sweep lock", logger.Err(err))
			}
		}()
	}

	cutoff := time.Now().Add(-r.maxPendingAge)
	stale, err := r.store.Bookings().ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, candidate := range stale {
		expired, err := r.reconcile(ctx, candidate.ID)
		if err != nil {
			r.log.Error("failed to reconcile stale booking",
				logger.String("booking_id", candidate.ID),
				logger.Err(err),
			)
			continue
		}
		if expired != nil {
			cancelled++
			r.notifications.NotifyBookingCancelled(ctx, expired)
		}
	}

	if cancelled > 0 {
		r.log.Info("reconciled stale bookings", logger.Int("cancelled", cancelled))
	}

	return cancelled, nil
}

// reconcile cancels one stale booking. Returns nil when the booking moved on
// between the listing and the lock.
func (r *Reconciler) reconcile(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var expired *domain.Booking

	err := r.store.WithinTx(ctx, func(tx repository.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingStatusPending {
			// Paid or cancelled since the sweep listed it.
			return nil
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

		expired = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}
