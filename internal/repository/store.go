package repository

import "context"

// Store aggregates the entity repositories behind a single handle and exposes
// the transactional unit of work used by every multi-entity operation.
type Store interface {
	Users() UserRepository
	Rides() RideRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	Reviews() ReviewRepository

	// WithinTx runs fn against a Store whose repositories all share one
	// transaction. If fn returns an error the transaction is rolled back,
	// otherwise it is committed. Implementations must guarantee that row
	// locks taken via the ForUpdate reads are held until WithinTx returns.
	//
	// External calls (payment gateway, notifications) must never run inside
	// fn: they would hold the seat/wallet locks across network I/O.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
