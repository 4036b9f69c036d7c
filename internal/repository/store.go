package repository

import (
	"context"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// AccountStore holds customer accounts keyed by username.
type AccountStore interface {
	Create(ctx context.Context, acc model.Account) error
	Get(ctx context.Context, username string) (model.Account, error)
}

// MovieStore holds the catalog keyed by movie id.
type MovieStore interface {
	Create(ctx context.Context, m model.Movie) error
	Get(ctx context.Context, id string) (model.Movie, error)
	List(ctx context.Context) ([]model.Movie, error)
}

// BookingLedger is the append-only list of bookings.  It performs no
// occupancy checks of its own; callers serialise check-and-append per
// showing.
type BookingLedger interface {
	Append(ctx context.Context, b model.Booking) error
	// ForShowing returns every booking of the showing (strict match).
	ForShowing(ctx context.Context, s model.Showing) ([]model.Booking, error)
	ListByUser(ctx context.Context, username string) ([]model.Booking, error)
	Get(ctx context.Context, id string) (model.Booking, error)
}

var (
	_ AccountStore  = (*MemoryAccounts)(nil)
	_ AccountStore  = (*AccountRepo)(nil)
	_ MovieStore    = (*MemoryMovies)(nil)
	_ MovieStore    = (*MovieRepo)(nil)
	_ BookingLedger = (*MemoryLedger)(nil)
	_ BookingLedger = (*BookingRepo)(nil)
)
