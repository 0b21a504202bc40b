package domain

import "time"

// UserRole distinguishes passengers from drivers.
type UserRole string

const (
	RolePassenger UserRole = "PASSENGER"
	RoleDriver    UserRole = "DRIVER"
)

// User represents a passenger or driver in the system.
// WalletBalance is written only by the payout engine; DriverRating only by the
// review aggregator.
type User struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Role          UserRole
	Approved      bool
	WalletBalance float64
	DriverRating  float64
	TotalRides    int
	CreatedAt     time.Time
}

// IsDriver reports whether the user can publish rides.
func (u *User) IsDriver() bool {
	return u.Role == RoleDriver
}
