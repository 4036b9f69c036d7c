package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/metrics"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/validation"
)

// idAttempts bounds retries when a generated booking id is already in the
// ledger.
const idAttempts = 3

// Payment carries the checkout form.  Card fields are used for method
// "card", UPIID for method "upi".  None of it is stored or logged.
type Payment struct {
	Method     string
	CardHolder string
	CardNumber string
	Expiry     string // MM/YY
	CVV        string
	UPIID      string
}

func (p Payment) validate(now time.Time) error {
	switch strings.ToLower(strings.TrimSpace(p.Method)) {
	case model.PaymentCard:
		if !validation.LuhnIsValid(p.CardNumber) {
			return invalid("card number is not valid")
		}
		if !validation.ExpiryIsValid(p.Expiry, now) {
			return invalid("card expiry must be a future MM/YY")
		}
		if !validation.CVVIsValid(p.CVV) {
			return invalid("cvv must be 3 or 4 digits")
		}
	case model.PaymentUPI:
		if !validation.UPIIsValid(strings.TrimSpace(p.UPIID)) {
			return invalid("upi id is not valid")
		}
	default:
		return invalid("payment method must be card or upi")
	}
	return nil
}

// BookingRequest asks for seats at one showing.  MovieID takes precedence
// over Showing.MovieTitle when both are set.
type BookingRequest struct {
	MovieID string
	Showing model.Showing
	Seats   []string
	Payment Payment
}

// BookingEngine enforces that the seat sets of all bookings of a showing
// stay pairwise disjoint.  Each attempt holds the showing's lock across the
// occupancy read and the ledger append; attempts on different showings do
// not contend.
type BookingEngine struct {
	ledger   repository.BookingLedger
	catalog  *Catalog
	accounts repository.AccountStore
	locker   Locker
	notifier Notifier
	log      *zap.Logger

	now   func() time.Time
	newID func() string

	pending sync.WaitGroup
}

// EngineOption customises a BookingEngine.
type EngineOption func(*BookingEngine)

// WithClock overrides the time source used for created_at and card expiry.
func WithClock(now func() time.Time) EngineOption {
	return func(e *BookingEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides booking id generation.
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *BookingEngine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

func NewBookingEngine(
	ledger repository.BookingLedger,
	catalog *Catalog,
	accounts repository.AccountStore,
	locker Locker,
	notifier Notifier,
	log *zap.Logger,
	opts ...EngineOption,
) *BookingEngine {
	e := &BookingEngine{
		ledger:   ledger,
		catalog:  catalog,
		accounts: accounts,
		locker:   locker,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    shortID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// shortID is the first eight hex characters of a random uuid.
func shortID() string {
	return uuid.NewString()[:8]
}

// ResolveShowing looks up the movie, by movieID when set and by title
// otherwise, and returns the showing spelled the way the catalog spells it.
// Booking and the seat map both key occupancy on the resolved showing.
func (e *BookingEngine) ResolveShowing(ctx context.Context, movieID string, s model.Showing) (model.Movie, model.Showing, error) {
	s = s.Normalize()
	movieID = strings.TrimSpace(movieID)
	if (movieID == "" && s.MovieTitle == "") || s.Theater == "" {
		return model.Movie{}, model.Showing{}, invalid("movie and theater are required")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return model.Movie{}, model.Showing{}, invalid("date must be YYYY-MM-DD")
	}
	if s.Time == "" {
		return model.Movie{}, model.Showing{}, invalid("time is required")
	}

	var movie model.Movie
	var err error
	if movieID != "" {
		movie, err = e.catalog.Get(ctx, movieID)
	} else {
		movie, err = e.catalog.FindByTitle(ctx, s.MovieTitle)
	}
	if err != nil {
		return model.Movie{}, model.Showing{}, err
	}
	theater, okTheater := movie.Theater(s.Theater)
	showtime, okTime := movie.Showtime(s.Time)
	if !okTheater || !okTime {
		return model.Movie{}, model.Showing{}, ErrUnknownShowing
	}
	return movie, model.Showing{MovieTitle: movie.Title, Theater: theater, Date: s.Date, Time: showtime}, nil
}

// OccupiedSeats returns the seats claimed for the showing, sorted.
func (e *BookingEngine) OccupiedSeats(ctx context.Context, s model.Showing) ([]string, error) {
	_, s, err := e.ResolveShowing(ctx, "", s)
	if err != nil {
		return nil, err
	}
	taken, err := e.occupied(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(taken))
	for seat := range taken {
		out = append(out, seat)
	}
	model.SortSeats(out)
	return out, nil
}

func (e *BookingEngine) occupied(ctx context.Context, s model.Showing) (map[string]struct{}, error) {
	bookings, err := e.ledger.ForShowing(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	taken := make(map[string]struct{})
	for _, b := range bookings {
		// MySQL compares with a case-insensitive collation; recheck exactly.
		if !s.Matches(b) {
			continue
		}
		for _, seat := range b.Seats {
			taken[strings.TrimSpace(seat)] = struct{}{}
		}
	}
	return taken, nil
}

// Attempt validates the request and, holding the showing lock, appends a
// booking when none of the seats are taken.  A SeatsTakenError lists the
// conflicting seats.  The confirmation is sent in the background after the
// lock is released.
func (e *BookingEngine) Attempt(ctx context.Context, id model.Identity, req BookingRequest) (model.Booking, error) {
	b, err := e.prepare(ctx, id, req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) || errors.Is(err, ErrUnknownShowing) || errors.Is(err, ErrMovieNotFound) {
			metrics.IncBooking(metrics.BookingInvalid)
		}
		return model.Booking{}, err
	}

	b, err = e.commit(ctx, b)
	if err != nil {
		var taken *SeatsTakenError
		if errors.As(err, &taken) {
			metrics.IncBooking(metrics.BookingConflict)
			e.log.Info("booking rejected", zap.String("username", b.Username), zap.Strings("seats", taken.Seats))
		}
		return model.Booking{}, err
	}
	metrics.IncBooking(metrics.BookingAccepted)
	e.log.Info("booking accepted",
		zap.String("booking_id", b.ID),
		zap.String("username", b.Username),
		zap.String("movie", b.MovieTitle),
		zap.String("theater", b.Theater),
		zap.String("date", b.Date),
		zap.String("time", b.Time),
		zap.Strings("seats", b.Seats),
	)
	e.notifyAsync(b)
	return b, nil
}

// prepare resolves and validates everything that does not need the lock.
func (e *BookingEngine) prepare(ctx context.Context, id model.Identity, req BookingRequest) (model.Booking, error) {
	if id.Username == "" {
		return model.Booking{}, ErrAccessDenied
	}
	seats := model.NormalizeSeats(req.Seats)
	if len(seats) == 0 {
		return model.Booking{}, invalid("select at least one seat")
	}
	now := e.now()
	if err := req.Payment.validate(now); err != nil {
		return model.Booking{}, err
	}

	movie, s, err := e.ResolveShowing(ctx, req.MovieID, req.Showing)
	if err != nil {
		return model.Booking{}, err
	}
	layout := model.LayoutFor(s.Theater)
	for _, seat := range seats {
		if !layout.Contains(seat) {
			return model.Booking{}, invalid("seat %s does not exist in %s", seat, s.Theater)
		}
	}
	model.SortSeats(seats)

	return model.Booking{
		Username:      id.Username,
		MovieID:       movie.ID,
		MovieTitle:    movie.Title,
		Theater:       s.Theater,
		Date:          s.Date,
		Time:          s.Time,
		Seats:         seats,
		PriceCents:    int64(len(seats)) * movie.PriceCents,
		PaymentMethod: strings.ToLower(strings.TrimSpace(req.Payment.Method)),
		CreatedAt:     now.UTC(),
	}, nil
}

// commit is the critical section: check occupancy and append under the
// showing lock.  The lock is released on every return path.
func (e *BookingEngine) commit(ctx context.Context, b model.Booking) (model.Booking, error) {
	s := b.Showing()
	unlock, err := e.locker.Lock(ctx, s.Key())
	if err != nil {
		return model.Booking{}, fmt.Errorf("lock showing: %w", err)
	}
	defer unlock()

	taken, err := e.occupied(ctx, s)
	if err != nil {
		return model.Booking{}, err
	}
	var conflicts []string
	for _, seat := range b.Seats {
		if _, ok := taken[seat]; ok {
			conflicts = append(conflicts, seat)
		}
	}
	if len(conflicts) > 0 {
		model.SortSeats(conflicts)
		return b, &SeatsTakenError{Seats: conflicts}
	}

	for i := 0; i < idAttempts; i++ {
		b.ID = e.newID()
		err = e.ledger.Append(ctx, b)
		if !errors.Is(err, repository.ErrConflict) {
			break
		}
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("append booking: %w", err)
	}
	return b, nil
}

// notifyAsync fires the confirmation without holding up the caller.
// Failures are logged and counted, never returned.
func (e *BookingEngine) notifyAsync(b model.Booking) {
	if e.notifier == nil {
		return
	}
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		var email, mobile string
		if acc, err := e.accounts.Get(ctx, b.Username); err == nil {
			email, mobile = acc.Email, acc.Mobile
		}
		if err := e.notifier.Notify(ctx, NewBookingNotification(b, email, mobile)); err != nil {
			metrics.IncNotificationFailed()
			e.log.Warn("booking notification failed", zap.String("booking_id", b.ID), zap.Error(err))
		}
	}()
}

// Wait blocks until background notifications have finished.
func (e *BookingEngine) Wait() {
	e.pending.Wait()
}

// ListMine returns the caller's bookings, newest first.
func (e *BookingEngine) ListMine(ctx context.Context, username string) ([]model.Booking, error) {
	out, err := e.ledger.ListByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// Get returns one booking.  Bookings of other users are reported as not
// found unless the caller is an admin.
func (e *BookingEngine) Get(ctx context.Context, id model.Identity, bookingID string) (model.Booking, error) {
	b, err := e.ledger.Get(ctx, strings.TrimSpace(bookingID))
	if errors.Is(err, repository.ErrNotFound) {
		return model.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	if b.Username != id.Username && !id.IsAdmin {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, nil
}
