package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// BookingRepo is the MySQL-backed ledger.  Rows are only ever inserted.
// Seats are stored as a comma-joined label list.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `booking_id, username, movie_id, movie_title, theater, show_date, show_time, seats, price_cents, payment_method, created_at`

// Append inserts the booking.  A booking id collision yields ErrConflict.
func (r *BookingRepo) Append(ctx context.Context, b model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.Username, b.MovieID, b.MovieTitle, b.Theater, b.Date, b.Time,
		joinSeats(b.Seats), b.PriceCents, b.PaymentMethod, b.CreatedAt.UTC())
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ForShowing scans the bookings whose four showing columns all match.
func (r *BookingRepo) ForShowing(ctx context.Context, s model.Showing) ([]model.Booking, error) {
	return r.query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE movie_title = ? AND theater = ? AND show_date = ? AND show_time = ?`,
		s.MovieTitle, s.Theater, s.Date, s.Time)
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, username string) ([]model.Booking, error) {
	return r.query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE username = ? ORDER BY created_at DESC`,
		username)
}

func (r *BookingRepo) Get(ctx context.Context, id string) (model.Booking, error) {
	items, err := r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id = ?`, id)
	if err != nil {
		return model.Booking{}, err
	}
	if len(items) == 0 {
		return model.Booking{}, ErrNotFound
	}
	return items[0], nil
}

func (r *BookingRepo) query(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()
	items := make([]model.Booking, 0)
	for rows.Next() {
		var (
			b     model.Booking
			seats string
		)
		if err := rows.Scan(&b.ID, &b.Username, &b.MovieID, &b.MovieTitle, &b.Theater, &b.Date, &b.Time,
			&seats, &b.PriceCents, &b.PaymentMethod, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.Seats = splitSeats(seats)
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
