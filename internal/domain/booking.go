package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// IsTerminal reports whether the booking can no longer change state.
// PENDING -> CONFIRMED -> COMPLETED; any non-terminal state -> CANCELLED.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// Booking is a passenger's reservation of seats on a ride. Seats are committed
// against the ride at creation time; the booking stays PENDING until payment
// verification confirms it.
type Booking struct {
	ID              string
	RideID          string
	PassengerID     string
	Pickup          string
	Dropoff         string
	DistanceCovered float64
	FareAmount      float64
	Seats           int
	Status          BookingStatus
	CreatedAt       time.Time
	CancelledAt     time.Time
}
