package postgres

import (
	"context"
	"database/sql"

	"carpool/internal/repository"
)

// Store is the PostgreSQL implementation of repository.Store. The zero-value
// repositories all run against the pool; WithinTx rebinds them to one *sql.Tx.
type Store struct {
	db *sql.DB
	q  Querier
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// Users returns the user repository bound to this store's querier.
func (s *Store) Users() repository.UserRepository { return &UserRepository{q: s.q} }

// Rides returns the ride repository bound to this store's querier.
func (s *Store) Rides() repository.RideRepository { return &RideRepository{q: s.q} }

// Bookings returns the booking repository bound to this store's querier.
func (s *Store) Bookings() repository.BookingRepository { return &BookingRepository{q: s.q} }

// Payments returns the payment repository bound to this store's querier.
func (s *Store) Payments() repository.PaymentRepository { return &PaymentRepository{q: s.q} }

// Reviews returns the review repository bound to this store's querier.
func (s *Store) Reviews() repository.ReviewRepository { return &ReviewRepository{q: s.q} }

// WithinTx runs fn against a Store bound to a single transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.db == nil {
		// Already inside a transaction; reuse it rather than nesting.
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txStore := &Store{q: tx}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

var _ repository.Store = (*Store)(nil)
