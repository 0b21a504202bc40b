package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUserID is returned when a caller identity is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidSeatCount is returned when a seat count is below 1.
	ErrInvalidSeatCount = errors.New("seat count must be at least 1")

	// ErrInvalidRideDate is returned when a ride is posted without a date.
	ErrInvalidRideDate = errors.New("invalid ride date")

	// ErrInvalidRoute is returned when a source or destination is missing.
	ErrInvalidRoute = errors.New("source and destination are required")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidRole is returned when a registration names an unknown role.
	ErrInvalidRole = errors.New("role must be PASSENGER or DRIVER")

	// ErrEmailTaken is returned when registering an email twice.
	ErrEmailTaken = errors.New("email already registered")

	// ErrDriverNotApproved is returned when an unapproved driver posts a ride.
	ErrDriverNotApproved = errors.New("driver is not approved")

	// ErrNotRideOwner is returned when a driver acts on another driver's ride.
	ErrNotRideOwner = errors.New("not your ride")

	// ErrNotBookingOwner is returned when a passenger acts on another
	// passenger's booking.
	ErrNotBookingOwner = errors.New("not your booking")

	// ErrRideTerminal is returned when mutating a COMPLETED or CANCELLED ride.
	ErrRideTerminal = errors.New("ride is already completed or cancelled")

	// ErrBookingTerminal is returned when mutating a COMPLETED or CANCELLED
	// booking.
	ErrBookingTerminal = errors.New("booking is already completed or cancelled")

	// ErrRideNotOpen is returned when booking a ride that is not SCHEDULED.
	ErrRideNotOpen = errors.New("ride is not open for booking")

	// ErrOwnRide is returned when a driver books a seat on their own ride.
	ErrOwnRide = errors.New("drivers cannot book their own ride")

	// ErrBookingNotPayable is returned when creating or verifying a payment
	// for a booking that is not awaiting payment.
	ErrBookingNotPayable = errors.New("booking is not awaiting payment")

	// ErrSignatureMismatch is returned when a gateway callback signature does
	// not verify. The message is deliberately generic.
	ErrSignatureMismatch = errors.New("payment signature verification failed")

	// ErrPaymentRecordNotFound is returned when no payment matches an order
	// id or booking.
	ErrPaymentRecordNotFound = errors.New("payment record not found")

	// ErrBookingNotCompleted is returned when paying out a booking that has
	// not completed.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrAlreadyTransferred is returned when a booking payment was already
	// settled to the driver's wallet.
	ErrAlreadyTransferred = errors.New("payout already transferred")

	// ErrReviewNotEligible is returned when reviewing a booking that has not
	// run its course.
	ErrReviewNotEligible = errors.New("booking is not eligible for review")

	// ErrDuplicateReview is returned when a booking already has a review.
	ErrDuplicateReview = errors.New("booking already reviewed")
)

// InsufficientSeatsError is returned when a booking requests more seats than
// the ride has left. Remaining carries the exact count at evaluation time.
type InsufficientSeatsError struct {
	Remaining int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("insufficient seats: %d remaining", e.Remaining)
}
