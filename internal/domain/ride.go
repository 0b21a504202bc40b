package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusScheduled RideStatus = "SCHEDULED"
	RideStatusOngoing   RideStatus = "ONGOING"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// IsTerminal reports whether the ride can no longer change state.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Ride is a driver-published journey with finite seat capacity.
// Invariant: 0 <= AvailableSeats <= TotalSeats. Seats are mutated only inside
// a transaction that holds the ride row lock.
type Ride struct {
	ID             string
	DriverID       string
	Source         string
	Destination    string
	RideDate       time.Time
	AvailableSeats int
	TotalSeats     int
	BaseFare       float64
	RatePerKm      float64
	TotalDistance  float64
	EstimatedFare  float64
	Status         RideStatus
	CreatedAt      time.Time
}
