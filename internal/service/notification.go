package service

import (
	"context"
	"fmt"
	"time"

	"carpool/internal/domain"
	"carpool/pkg/logger"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingPlaced    NotificationType = "BOOKING_PLACED"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationRideCancelled    NotificationType = "RIDE_CANCELLED"
	NotificationPaymentSuccess   NotificationType = "PAYMENT_SUCCESS"
	NotificationPayoutCompleted  NotificationType = "PAYOUT_COMPLETED"
)

// Notification is an email-style message to one recipient.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Subject     string
	Body        string
	CreatedAt   time.Time
}

// NotificationService delivers notifications. Delivery is fire-and-forget:
// failures are logged and never propagate to the triggering operation.
type NotificationService struct {
	log *logger.Logger
	// In a real system this would hold an SMTP or push client.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(log *logger.Logger) *NotificationService {
	return &NotificationService{log: log}
}

// NotifyBookingPlaced tells the passenger and the driver about a new booking.
func (s *NotificationService) NotifyBookingPlaced(ctx context.Context, booking *domain.Booking, ride *domain.Ride) {
	s.send(ctx, Notification{
		Type:        NotificationBookingPlaced,
		RecipientID: booking.PassengerID,
		Subject:     "Booking placed",
		Body:        fmt.Sprintf("Your booking of %d seat(s) from %s to %s is awaiting payment. Fare: %.2f", booking.Seats, ride.Source, ride.Destination, booking.FareAmount),
	})
	s.send(ctx, Notification{
		Type:        NotificationBookingPlaced,
		RecipientID: ride.DriverID,
		Subject:     "New booking on your ride",
		Body:        fmt.Sprintf("%d seat(s) reserved on your ride %s to %s.", booking.Seats, ride.Source, ride.Destination),
	})
}

// NotifyBookingConfirmed tells the passenger their payment went through.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking) {
	s.send(ctx, Notification{
		Type:        NotificationBookingConfirmed,
		RecipientID: booking.PassengerID,
		Subject:     "Booking confirmed",
		Body:        fmt.Sprintf("Payment received. Your booking of %d seat(s) is confirmed.", booking.Seats),
	})
}

// NotifyBookingCancelled tells the passenger a booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) {
	s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: booking.PassengerID,
		Subject:     "Booking cancelled",
		Body:        fmt.Sprintf("Your booking of %d seat(s) has been cancelled.", booking.Seats),
	})
}

// NotifyRideCancelled tells every affected passenger the ride was cancelled.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride, bookings []*domain.Booking) {
	for _, booking := range bookings {
		s.send(ctx, Notification{
			Type:        NotificationRideCancelled,
			RecipientID: booking.PassengerID,
			Subject:     "Ride cancelled",
			Body:        fmt.Sprintf("The ride from %s to %s on %s was cancelled by the driver.", ride.Source, ride.Destination, ride.RideDate.Format("2006-01-02")),
		})
	}
}

// NotifyPayoutCompleted tells the driver their wallet was credited.
func (s *NotificationService) NotifyPayoutCompleted(ctx context.Context, payment *domain.Payment) {
	s.send(ctx, Notification{
		Type:        NotificationPayoutCompleted,
		RecipientID: payment.DriverID,
		Subject:     "Payout completed",
		Body:        fmt.Sprintf("%.2f has been credited to your wallet.", payment.Amount),
	})
}

// send delivers a notification. The mock transport only logs; a delivery
// error would be logged here too, never returned.
func (s *NotificationService) send(_ context.Context, n Notification) {
	n.CreatedAt = time.Now()
	s.log.Info("notification sent",
		logger.String("type", string(n.Type)),
		logger.String("recipient", n.RecipientID),
		logger.String("subject", n.Subject),
	)
}
