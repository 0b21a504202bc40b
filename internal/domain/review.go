package domain

import "time"

// Review is a passenger's rating of a driver for one booking.
// At most one review exists per booking.
type Review struct {
	ID         string
	BookingID  string
	ReviewerID string
	DriverID   string
	Rating     int // 1..5
	Comment    string
	CreatedAt  time.Time
}
