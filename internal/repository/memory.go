package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// MemoryAccounts is an AccountStore held in process memory.
type MemoryAccounts struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
}

// NewMemoryAccounts returns an empty account store.
func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{accounts: make(map[string]model.Account)}
}

func (r *MemoryAccounts) Create(_ context.Context, acc model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acc.Username]; ok {
		return ErrUsernameTaken
	}
	r.accounts[acc.Username] = acc
	return nil
}

func (r *MemoryAccounts) Get(_ context.Context, username string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[username]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return acc, nil
}

// MemoryMovies is a MovieStore held in process memory.  List returns
// movies in insertion order.
type MemoryMovies struct {
	mu    sync.RWMutex
	byID  map[string]model.Movie
	order []string
}

// NewMemoryMovies returns an empty catalog.
func NewMemoryMovies() *MemoryMovies {
	return &MemoryMovies{byID: make(map[string]model.Movie)}
}

func (r *MemoryMovies) Create(_ context.Context, m model.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[m.ID]; ok {
		return ErrMovieExists
	}
	r.byID[m.ID] = cloneMovie(m)
	r.order = append(r.order, m.ID)
	return nil
}

func (r *MemoryMovies) Get(_ context.Context, id string) (model.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	if !ok {
		return model.Movie{}, ErrNotFound
	}
	return cloneMovie(m), nil
}

func (r *MemoryMovies) List(_ context.Context) ([]model.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Movie, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneMovie(r.byID[id]))
	}
	return out, nil
}

// MemoryLedger is a BookingLedger held in process memory.
type MemoryLedger struct {
	mu       sync.RWMutex
	bookings []model.Booking
	ids      map[string]struct{}
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{ids: make(map[string]struct{})}
}

func (r *MemoryLedger) Append(_ context.Context, b model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[b.ID]; ok {
		return ErrConflict
	}
	r.ids[b.ID] = struct{}{}
	r.bookings = append(r.bookings, cloneBooking(b))
	return nil
}

func (r *MemoryLedger) ForShowing(_ context.Context, s model.Showing) ([]model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Booking
	for _, b := range r.bookings {
		if s.Matches(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *MemoryLedger) ListByUser(_ context.Context, username string) ([]model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Booking, 0)
	for _, b := range r.bookings {
		if b.Username == username {
			out = append(out, cloneBooking(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryLedger) Get(_ context.Context, id string) (model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return cloneBooking(b), nil
		}
	}
	return model.Booking{}, ErrNotFound
}

// Records are copied on the way in and out so callers cannot mutate the
// ledger through shared slices.
func cloneBooking(b model.Booking) model.Booking {
	b.Seats = append([]string(nil), b.Seats...)
	return b
}

func cloneMovie(m model.Movie) model.Movie {
	m.Theaters = append([]string(nil), m.Theaters...)
	m.Showtimes = append([]string(nil), m.Showtimes...)
	return m
}
