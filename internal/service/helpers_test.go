package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

var (
	testNow   = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	testAdmin = model.Identity{Username: "root", IsAdmin: true}
	alice     = model.Identity{Username: "alice"}
	goodCard  = Payment{Method: "card", CardHolder: "Alice", CardNumber: "4532 0151 1283 0366", Expiry: "12/30", CVV: "123"}
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type env struct {
	accounts *Accounts
	catalog  *Catalog
	engine   *BookingEngine
	notifier *recordingNotifier
	ledger   *repository.MemoryLedger
}

func newEnv(t *testing.T, opts ...EngineOption) *env {
	t.Helper()
	log := zap.NewNop()
	accStore := repository.NewMemoryAccounts()
	accounts, err := NewAccounts(accStore, map[string]string{"root": "R00t!pass"}, bcrypt.MinCost, log)
	require.NoError(t, err)
	catalog := NewCatalog(repository.NewMemoryMovies(), log)
	ledger := repository.NewMemoryLedger()
	n := &recordingNotifier{}
	opts = append([]EngineOption{WithClock(func() time.Time { return testNow })}, opts...)
	engine := NewBookingEngine(ledger, catalog, accStore, NewKeyedMutex(), n, log, opts...)
	t.Cleanup(engine.Wait)
	return &env{accounts: accounts, catalog: catalog, engine: engine, notifier: n, ledger: ledger}
}

func (e *env) addLeo(t *testing.T) model.Movie {
	t.Helper()
	m, err := e.catalog.AddMovie(context.Background(), testAdmin, MovieInput{
		Title:      "Leo",
		Genre:      "Action/Thriller",
		Theaters:   []string{"PVR Velachery", "Rohini Silver Screens"},
		Showtimes:  []string{"10:00 AM", "6:30 PM"},
		PriceCents: 19000,
	})
	require.NoError(t, err)
	return m
}

func leoShowing() model.Showing {
	return model.Showing{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-18", Time: "6:30 PM"}
}

var errStorage = errors.New("connection reset")

type brokenAccounts struct{}

func (brokenAccounts) Create(context.Context, model.Account) error { return errStorage }
func (brokenAccounts) Get(context.Context, string) (model.Account, error) {
	return model.Account{}, errStorage
}

type brokenLedger struct{}

func (brokenLedger) Append(context.Context, model.Booking) error { return errStorage }
func (brokenLedger) ForShowing(context.Context, model.Showing) ([]model.Booking, error) {
	return nil, errStorage
}
func (brokenLedger) ListByUser(context.Context, string) ([]model.Booking, error) {
	return nil, errStorage
}
func (brokenLedger) Get(context.Context, string) (model.Booking, error) {
	return model.Booking{}, errStorage
}
