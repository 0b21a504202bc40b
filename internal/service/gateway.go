package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/pkg/logger"
)

// Gateway is the interface to an external payment gateway.
type Gateway interface {
	// CreateOrder registers a payable order with the gateway and returns its
	// gateway-side order ID.
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error)
}

// SandboxGateway is an in-process stand-in for a real payment gateway. It
// hands out order IDs and can mint the callback a real gateway would send,
// signed with the shared secret.
type SandboxGateway struct {
	keySecret string
}

// NewSandboxGateway creates a new SandboxGateway.
func NewSandboxGateway(keySecret string) *SandboxGateway {
	return &SandboxGateway{keySecret: keySecret}
}

// CreateOrder issues a fresh sandbox order ID. Always succeeds.
func (g *SandboxGateway) CreateOrder(_ context.Context, _ float64, _ string, _ string) (string, error) {
	return "order_" + strings.ReplaceAll(uuid.New().String(), "-", ""), nil
}

// CompleteOrder simulates the passenger paying an order on the gateway side.
// It returns the gateway payment ID and the signature the gateway would post
// back to the callback endpoint.
func (g *SandboxGateway) CompleteOrder(orderID string) (paymentID, signature string) {
	paymentID = "pay_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	return paymentID, SignPayload(g.keySecret, orderID, paymentID)
}

// SignPayload computes the hex-encoded HMAC-SHA256 signature over
// "orderID|paymentID" with the given secret.
func SignPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// PaymentService mediates between bookings and the payment gateway: order
// creation, callback verification and payment history.
type PaymentService struct {
	store         repository.Store
	gateway       Gateway
	notifications *NotificationService
	keySecret     string
	currency      string
	callTimeout   time.Duration
	log           *logger.Logger
}

// NewPaymentService creates a new PaymentService. A zero callTimeout leaves
// gateway calls unbounded.
func NewPaymentService(
	store repository.Store,
	gateway Gateway,
	notifications *NotificationService,
	keySecret, currency string,
	callTimeout time.Duration,
	log *logger.Logger,
) *PaymentService {
	return &PaymentService{
		store:         store,
		gateway:       gateway,
		notifications: notifications,
		keySecret:     keySecret,
		currency:      currency,
		callTimeout:   callTimeout,
		log:           log,
	}
}

// CreateOrder opens a gateway order for a PENDING booking. The charged amount
// is the booking's stored fare; client-supplied amounts are ignored. Calling
// it again for the same booking returns the existing open order.
func (s *PaymentService) CreateOrder(ctx context.Context, passengerID, bookingID string) (*domain.Payment, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.PassengerID != passengerID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPayable
	}

	existing, err := s.store.Payments().GetBookingPayment(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == domain.PaymentStatusPending {
		return existing, nil
	}

	ride, err := s.store.Rides().GetByID(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}

	// The gateway call stays outside the transaction.
	callCtx := ctx
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	orderID, err := s.gateway.CreateOrder(callCtx, booking.FareAmount, s.currency, bookingID)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:           uuid.New().String(),
		BookingID:    booking.ID,
		PassengerID:  booking.PassengerID,
		DriverID:     ride.DriverID,
		OrderID:      orderID,
		Amount:       booking.FareAmount,
		Status:       domain.PaymentStatusPending,
		Type:         domain.PaymentTypeBooking,
		PayoutStatus: domain.PayoutStatusPending,
		CreatedAt:    time.Now(),
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		// Re-check under the lock so two concurrent callers share one order.
		current, err := tx.Payments().GetBookingPaymentForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if current != nil && current.Status == domain.PaymentStatusPending {
			payment = current
			return nil
		}
		return tx.Payments().Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// VerifyPaymentRequest is the gateway callback payload.
type VerifyPaymentRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyPayment checks a gateway callback signature and, on a match, marks
// the payment SUCCESS and the booking CONFIRMED in one transaction. A
// mismatch changes nothing and reports a generic failure. Verifying an
// already-verified payment is a no-op returning the settled record.
func (s *PaymentService) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*domain.Payment, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, ErrSignatureMismatch
	}

	expected := SignPayload(s.keySecret, req.OrderID, req.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		s.log.Warn("payment signature mismatch", logger.String("order_id", req.OrderID))
		return nil, ErrSignatureMismatch
	}

	var verified *domain.Payment
	var confirmed *domain.Booking

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		payment, err := tx.Payments().GetByOrderID(ctx, req.OrderID)
		if err != nil {
			if err == repository.ErrNotFound {
				return ErrPaymentRecordNotFound
			}
			return err
		}

		// Lock the booking's payment row to serialize concurrent callbacks.
		payment, err = tx.Payments().GetBookingPaymentForUpdate(ctx, payment.BookingID)
		if err != nil {
			return err
		}
		if payment == nil || payment.OrderID != req.OrderID {
			return ErrPaymentRecordNotFound
		}

		if payment.Status == domain.PaymentStatusSuccess {
			verified = payment
			return nil
		}
		if payment.Status != domain.PaymentStatusPending {
			return ErrBookingNotPayable
		}

		booking, err := tx.Bookings().GetByID(ctx, payment.BookingID)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingStatusPending {
			// The booking was cancelled while the passenger was paying; the
			// cancellation already failed the open payment.
			return ErrBookingNotPayable
		}

		payment.ExternalPaymentID = req.PaymentID
		payment.Signature = req.Signature
		payment.Status = domain.PaymentStatusSuccess
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}

		if err := tx.Bookings().UpdateStatus(ctx, booking.ID, domain.BookingStatusConfirmed); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusConfirmed

		verified = payment
		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed != nil {
		s.notifications.NotifyBookingConfirmed(ctx, confirmed)
	}

	return verified, nil
}

// PassengerPayments retrieves a passenger's payment history, newest first.
func (s *PaymentService) PassengerPayments(ctx context.Context, passengerID string) ([]*domain.Payment, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Payments().ListByPassenger(ctx, passengerID)
}

// DriverPayments retrieves the payments on a driver's rides, newest first.
func (s *PaymentService) DriverPayments(ctx context.Context, driverID string) ([]*domain.Payment, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Payments().ListByDriver(ctx, driverID)
}
