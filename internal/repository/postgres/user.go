package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const userColumns = `id, name, email, phone, role, approved, wallet_balance, driver_rating, total_rides, created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.Approved,
		&user.WalletBalance,
		&user.DriverRating,
		&user.TotalRides,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, role, approved, wallet_balance, driver_rating, total_rides, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.Role,
		user.Approved,
		user.WalletBalance,
		user.DriverRating,
		user.TotalRides,
		user.CreatedAt,
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, email))
}

// GetAll retrieves all users.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetApproval flips the driver approval flag.
func (r *UserRepository) SetApproval(ctx context.Context, id string, approved bool) error {
	return r.exec(ctx, `UPDATE users SET approved = $1 WHERE id = $2`, approved, id)
}

// CreditWallet adds amount to the user's wallet balance.
func (r *UserRepository) CreditWallet(ctx context.Context, id string, amount float64) error {
	return r.exec(ctx, `UPDATE users SET wallet_balance = wallet_balance + $1 WHERE id = $2`, amount, id)
}

// UpdateDriverRating stores a recomputed rolling average rating.
func (r *UserRepository) UpdateDriverRating(ctx context.Context, id string, rating float64) error {
	return r.exec(ctx, `UPDATE users SET driver_rating = $1 WHERE id = $2`, rating, id)
}

// IncrementTotalRides bumps the driver's completed ride counter.
func (r *UserRepository) IncrementTotalRides(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE users SET total_rides = total_rides + 1 WHERE id = $1`, id)
}

func (r *UserRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
