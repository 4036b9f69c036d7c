package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Notification is the message fired after a booking is appended.
type Notification struct {
	Booking model.Booking
	Email   string
	Mobile  string
	Subject string
	Message string
}

// NewBookingNotification renders the confirmation text of a booking.
func NewBookingNotification(b model.Booking, email, mobile string) Notification {
	return Notification{
		Booking: b,
		Email:   email,
		Mobile:  mobile,
		Subject: "Booking confirmed: " + b.MovieTitle,
		Message: "Your booking " + b.ID + " for " + b.MovieTitle + " at " + b.Theater +
			" on " + b.Date + " " + b.Time + " is confirmed. Seats: " + b.SeatList(),
	}
}

// Notifier delivers booking notifications.  Delivery is best-effort; callers
// log and drop errors.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.log.Info("booking notification",
		zap.String("booking_id", n.Booking.ID),
		zap.String("username", n.Booking.Username),
		zap.String("subject", n.Subject),
		zap.String("message", n.Message),
	)
	return nil
}

// notifyTimeout bounds a single background delivery.
const notifyTimeout = 10 * time.Second
