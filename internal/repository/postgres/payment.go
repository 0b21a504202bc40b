package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

const paymentColumns = `id, booking_id, passenger_id, driver_id, order_id, external_payment_id, signature, amount, status, type, payout_status, payout_date, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	var payment domain.Payment
	var orderID, externalPaymentID, signature sql.NullString
	var payoutDate sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.PassengerID,
		&payment.DriverID,
		&orderID,
		&externalPaymentID,
		&signature,
		&payment.Amount,
		&payment.Status,
		&payment.Type,
		&payment.PayoutStatus,
		&payoutDate,
		&payment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	payment.OrderID = orderID.String
	payment.ExternalPaymentID = externalPaymentID.String
	payment.Signature = signature.String
	if payoutDate.Valid {
		payment.PayoutDate = payoutDate.Time
	}
	return &payment, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, passenger_id, driver_id, order_id, external_payment_id, signature, amount, status, type, payout_status, payout_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var payoutDate sql.NullTime
	if !payment.PayoutDate.IsZero() {
		payoutDate = sql.NullTime{Time: payment.PayoutDate, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.PassengerID,
		payment.DriverID,
		nullString(payment.OrderID),
		nullString(payment.ExternalPaymentID),
		nullString(payment.Signature),
		payment.Amount,
		payment.Status,
		payment.Type,
		payment.PayoutStatus,
		payoutDate,
		payment.CreatedAt,
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.q.QueryRowContext(ctx, query, id))
}

// GetByOrderID retrieves a payment by its external order id.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	return scanPayment(r.q.QueryRowContext(ctx, query, orderID))
}

// GetBookingPayment retrieves the BOOKING-type payment for a booking.
// Returns nil, nil if none exists.
func (r *PaymentRepository) GetBookingPayment(ctx context.Context, bookingID string) (*domain.Payment, error) {
	return r.bookingPayment(ctx, bookingID, "")
}

// GetBookingPaymentForUpdate is GetBookingPayment with the row locked.
func (r *PaymentRepository) GetBookingPaymentForUpdate(ctx context.Context, bookingID string) (*domain.Payment, error) {
	return r.bookingPayment(ctx, bookingID, " FOR UPDATE")
}

func (r *PaymentRepository) bookingPayment(ctx context.Context, bookingID, suffix string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT 1` + suffix

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, bookingID, domain.PaymentTypeBooking))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return payment, err
}

// Update updates an existing payment.
func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET order_id = $1, external_payment_id = $2, signature = $3, amount = $4, status = $5, payout_status = $6, payout_date = $7
		WHERE id = $8
	`

	var payoutDate sql.NullTime
	if !payment.PayoutDate.IsZero() {
		payoutDate = sql.NullTime{Time: payment.PayoutDate, Valid: true}
	}

	return r.exec(ctx, query,
		nullString(payment.OrderID),
		nullString(payment.ExternalPaymentID),
		nullString(payment.Signature),
		payment.Amount,
		payment.Status,
		payment.PayoutStatus,
		payoutDate,
		payment.ID,
	)
}

// UpdateStatus updates only the payment status.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	return r.exec(ctx, `UPDATE payments SET status = $1 WHERE id = $2`, status, id)
}

// UpdatePayout records a payout status transition with its timestamp.
func (r *PaymentRepository) UpdatePayout(ctx context.Context, id string, status domain.PayoutStatus, date time.Time) error {
	var payoutDate sql.NullTime
	if !date.IsZero() {
		payoutDate = sql.NullTime{Time: date, Valid: true}
	}
	return r.exec(ctx, `UPDATE payments SET payout_status = $1, payout_date = $2 WHERE id = $3`, status, payoutDate, id)
}

// ListByPassenger retrieves a passenger's payments, newest first.
func (r *PaymentRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE passenger_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, passengerID)
}

// ListByDriver retrieves payments owed to or settled with a driver.
func (r *PaymentRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, driverID)
}

// SumPayouts totals the SUCCESS booking payments for a driver whose payout
// status matches.
func (r *PaymentRepository) SumPayouts(ctx context.Context, driverID string, status domain.PayoutStatus) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE driver_id = $1 AND type = $2 AND status = $3 AND payout_status = $4
	`

	var total float64
	err := r.q.QueryRowContext(ctx, query, driverID, domain.PaymentTypeBooking, domain.PaymentStatusSuccess, status).Scan(&total)
	return total, err
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) exec(ctx context.Context, query string, args ...any) error {
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
