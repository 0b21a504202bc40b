package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// PaymentType distinguishes a passenger charge from a driver credit.
type PaymentType string

const (
	PaymentTypeBooking      PaymentType = "BOOKING"
	PaymentTypeDriverPayout PaymentType = "DRIVER_PAYOUT"
)

// PayoutStatus tracks the driver-side settlement of a booking payment.
// It reaches COMPLETED exactly once per payment.
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusCompleted  PayoutStatus = "COMPLETED"
	PayoutStatusFailed     PayoutStatus = "FAILED"
)

// Payment is a monetary record tied to a booking: the passenger charge placed
// through the external gateway, or the mirrored driver payout entry.
type Payment struct {
	ID                string
	BookingID         string
	PassengerID       string
	DriverID          string
	OrderID           string
	ExternalPaymentID string
	Signature         string
	Amount            float64
	Status            PaymentStatus
	Type              PaymentType
	PayoutStatus      PayoutStatus
	PayoutDate        time.Time
	CreatedAt         time.Time
}
