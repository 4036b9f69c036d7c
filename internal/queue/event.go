// Package queue carries booking confirmations over RabbitMQ: the API
// publishes them and the worker consumes them.
package queue

import (
	"time"

	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// BookingQueue is the durable queue holding confirmation events.
const BookingQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a booking is appended to the
// ledger.  It carries enough to log and mail the confirmation without
// reading the ledger.
type BookingConfirmedEvent struct {
	BookingID     string   `json:"booking_id"`
	Username      string   `json:"username"`
	Email         string   `json:"email,omitempty"`
	Mobile        string   `json:"mobile,omitempty"`
	MovieID       string   `json:"movie_id"`
	MovieTitle    string   `json:"movie_title"`
	Theater       string   `json:"theater"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Seats         []string `json:"seats"`
	PriceCents    int64    `json:"price_cents"`
	PaymentMethod string   `json:"payment_method"`
	QRPayload     string   `json:"qr_payload"`
	Subject       string   `json:"subject"`
	Message       string   `json:"message"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event for a notification.
func NewBookingConfirmedEvent(n service.Notification) BookingConfirmedEvent {
	b := n.Booking
	return BookingConfirmedEvent{
		BookingID:     b.ID,
		Username:      b.Username,
		Email:         n.Email,
		Mobile:        n.Mobile,
		MovieID:       b.MovieID,
		MovieTitle:    b.MovieTitle,
		Theater:       b.Theater,
		Date:          b.Date,
		Time:          b.Time,
		Seats:         append([]string(nil), b.Seats...),
		PriceCents:    b.PriceCents,
		PaymentMethod: b.PaymentMethod,
		QRPayload:     b.QRPayload(),
		Subject:       n.Subject,
		Message:       n.Message,
		ConfirmedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
