package model

import (
	"strings"
	"time"
)

// Payment methods accepted at checkout.
const (
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

// Booking is an entry in the append-only ledger.  Once appended a
// booking is never mutated or removed.  For any two bookings of the same
// showing the Seats sets are disjoint.
type Booking struct {
	ID            string    `json:"booking_id"`
	Username      string    `json:"username"`
	MovieID       string    `json:"movie_id"`
	MovieTitle    string    `json:"movie_title"`
	Theater       string    `json:"theater"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Seats         []string  `json:"seats"`
	PriceCents    int64     `json:"price_cents"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// Showing returns the showing this booking belongs to.
func (b Booking) Showing() Showing {
	return Showing{MovieTitle: b.MovieTitle, Theater: b.Theater, Date: b.Date, Time: b.Time}
}

// SeatList joins the seat labels the way they are printed on a ticket.
func (b Booking) SeatList() string {
	return strings.Join(b.Seats, ", ")
}

// QRPayload is the text encoded into the ticket QR code.  It depends only
// on the booking fields, so repeated calls yield the same string.
func (b Booking) QRPayload() string {
	return "ID:" + b.ID + "|Movie:" + b.MovieTitle + "|Seats:" + b.SeatList()
}
