package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

func book(e *env, id model.Identity, s model.Showing, seats ...string) (model.Booking, error) {
	return e.engine.Attempt(context.Background(), id, BookingRequest{Showing: s, Seats: seats, Payment: goodCard})
}

func TestEndToEndScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.accounts.Create(ctx, "alice", "abcdef1!", "alice@example.com", "9876543210")
	require.NoError(t, err)
	id, err := e.accounts.Authenticate(ctx, "alice", "abcdef1!")
	require.NoError(t, err)
	assert.False(t, id.IsAdmin)

	e.addLeo(t)
	movies, err := e.catalog.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Leo", movies[0].Title)

	b, err := book(e, id, leoShowing(), "A1", "A2")
	require.NoError(t, err)
	assert.Len(t, b.ID, 8)
	assert.EqualValues(t, 2*19000, b.PriceCents)
	assert.Equal(t, "card", b.PaymentMethod)
	assert.Equal(t, "ID:"+b.ID+"|Movie:Leo|Seats:A1, A2", b.QRPayload())

	occ, err := e.engine.OccupiedSeats(ctx, leoShowing())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, occ)

	_, err = book(e, id, leoShowing(), "A2", "A3")
	var taken *SeatsTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, []string{"A2"}, taken.Seats)

	mine, err := e.engine.ListMine(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].ID)

	e.engine.Wait()
	require.Equal(t, 1, e.notifier.count())
	assert.Equal(t, "alice@example.com", e.notifier.sent[0].Email)
	assert.Contains(t, e.notifier.sent[0].Message, "A1, A2")
}

func TestOccupancyIsStrict(t *testing.T) {
	e := newEnv(t)
	e.addLeo(t)

	_, err := book(e, alice, leoShowing(), "C4")
	require.NoError(t, err)

	others := []model.Showing{
		{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-18", Time: "10:00 AM"},
		{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-19", Time: "6:30 PM"},
		{MovieTitle: "Leo", Theater: "Rohini Silver Screens", Date: "2026-10-18", Time: "6:30 PM"},
	}
	for _, s := range others {
		_, err := book(e, alice, s, "C4")
		assert.NoErrorf(t, err, "showing %+v", s)
	}

	// the requested time is matched case-insensitively and stored canonically
	_, err = book(e, alice, model.Showing{MovieTitle: " Leo", Theater: "PVR Velachery", Date: "2026-10-18", Time: "6:30 pm "}, "c4")
	var taken *SeatsTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, []string{"C4"}, taken.Seats)
}

func TestOccupiedSeatsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.addLeo(t)
	_, err := book(e, alice, leoShowing(), "B10", "B2", "A3")
	require.NoError(t, err)

	first, err := e.engine.OccupiedSeats(context.Background(), leoShowing())
	require.NoError(t, err)
	second, err := e.engine.OccupiedSeats(context.Background(), leoShowing())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A3", "B2", "B10"}, first)

	_, err = e.engine.OccupiedSeats(context.Background(), model.Showing{MovieTitle: "Leo"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAttemptRejectsBadInput(t *testing.T) {
	e := newEnv(t)
	e.addLeo(t)
	s := leoShowing()

	tests := []struct {
		name    string
		req     BookingRequest
		wantErr error
	}{
		{"no seats", BookingRequest{Showing: s, Seats: []string{" "}, Payment: goodCard}, nil},
		{"bad date", BookingRequest{Showing: model.Showing{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "18/10/2026", Time: "6:30 PM"}, Seats: []string{"A1"}, Payment: goodCard}, nil},
		{"bad luhn", BookingRequest{Showing: s, Seats: []string{"A1"}, Payment: Payment{Method: "card", CardNumber: "1234567812345678", Expiry: "12/30", CVV: "123"}}, nil},
		{"expired card", BookingRequest{Showing: s, Seats: []string{"A1"}, Payment: Payment{Method: "card", CardNumber: "4532015112830366", Expiry: "09/26", CVV: "123"}}, nil},
		{"bad cvv", BookingRequest{Showing: s, Seats: []string{"A1"}, Payment: Payment{Method: "card", CardNumber: "4532015112830366", Expiry: "12/30", CVV: "12"}}, nil},
		{"bad upi", BookingRequest{Showing: s, Seats: []string{"A1"}, Payment: Payment{Method: "upi", UPIID: "alice"}}, nil},
		{"unknown method", BookingRequest{Showing: s, Seats: []string{"A1"}, Payment: Payment{Method: "cash"}}, nil},
		{"seat outside layout", BookingRequest{Showing: s, Seats: []string{"Z1"}, Payment: goodCard}, nil},
		{"unknown movie", BookingRequest{Showing: model.Showing{MovieTitle: "Nope", Theater: "PVR Velachery", Date: "2026-10-18", Time: "6:30 PM"}, Seats: []string{"A1"}, Payment: goodCard}, ErrMovieNotFound},
		{"unknown movie id", BookingRequest{MovieID: "nope", Showing: s, Seats: []string{"A1"}, Payment: goodCard}, ErrMovieNotFound},
		{"theater not offered", BookingRequest{Showing: model.Showing{MovieTitle: "Leo", Theater: "IMAX Phoenix", Date: "2026-10-18", Time: "6:30 PM"}, Seats: []string{"A1"}, Payment: goodCard}, ErrUnknownShowing},
		{"time not offered", BookingRequest{Showing: model.Showing{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-18", Time: "9:00 PM"}, Seats: []string{"A1"}, Payment: goodCard}, ErrUnknownShowing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.engine.Attempt(context.Background(), alice, tt.req)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	occ, err := e.engine.OccupiedSeats(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, occ)
}

func TestAttemptWithUPIAndMovieID(t *testing.T) {
	e := newEnv(t)
	leo := e.addLeo(t)
	s := leoShowing()
	s.MovieTitle = ""

	b, err := e.engine.Attempt(context.Background(), alice, BookingRequest{
		MovieID: leo.ID,
		Showing: s,
		Seats:   []string{"F10"},
		Payment: Payment{Method: "UPI", UPIID: "alice@okbank"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Leo", b.MovieTitle)
	assert.Equal(t, "upi", b.PaymentMethod)
}

func TestConcurrentOverlappingAttempts(t *testing.T) {
	for round := 0; round < 20; round++ {
		e := newEnv(t)
		e.addLeo(t)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		start := make(chan struct{})
		for i, seats := range [][]string{{"A1", "A2"}, {"A2", "A3"}} {
			wg.Add(1)
			go func(i int, seats []string) {
				defer wg.Done()
				<-start
				_, errs[i] = book(e, alice, leoShowing(), seats...)
			}(i, seats)
		}
		close(start)
		wg.Wait()

		var ok, conflict int
		for _, err := range errs {
			var taken *SeatsTakenError
			switch {
			case err == nil:
				ok++
			case errors.As(err, &taken):
				conflict++
				assert.Equal(t, []string{"A2"}, taken.Seats)
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok, "round %d", round)
		assert.Equal(t, 1, conflict, "round %d", round)
	}
}

func TestAcceptedSeatsStayDisjoint(t *testing.T) {
	e := newEnv(t)
	e.addLeo(t)
	showings := []model.Showing{
		leoShowing(),
		{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-18", Time: "10:00 AM"},
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(g)))
			for i := 0; i < 20; i++ {
				s := showings[r.Intn(len(showings))]
				seats := make([]string, 1+r.Intn(3))
				for j := range seats {
					seats[j] = fmt.Sprintf("%c%d", 'A'+r.Intn(3), 1+r.Intn(4))
				}
				_, _ = book(e, alice, s, seats...)
			}
		}(g)
	}
	wg.Wait()

	for _, s := range showings {
		bookings, err := e.ledger.ForShowing(context.Background(), s)
		require.NoError(t, err)
		seen := map[string]string{}
		for _, b := range bookings {
			for _, seat := range b.Seats {
				prev, dup := seen[seat]
				require.Falsef(t, dup, "seat %s sold twice (%s and %s)", seat, prev, b.ID)
				seen[seat] = b.ID
			}
		}
	}
}

func TestNotificationFailureDoesNotFailBooking(t *testing.T) {
	e := newEnv(t)
	e.notifier.err = errors.New("smtp down")
	e.addLeo(t)

	b, err := book(e, alice, leoShowing(), "A1")
	require.NoError(t, err)
	e.engine.Wait()
	assert.Equal(t, 1, e.notifier.count())

	got, err := e.engine.Get(context.Background(), alice, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestBookingIDCollisionRetries(t *testing.T) {
	ids := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	var mu sync.Mutex
	e := newEnv(t, WithIDGenerator(func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	e.addLeo(t)

	first, err := book(e, alice, leoShowing(), "A1")
	require.NoError(t, err)
	second, err := book(e, alice, leoShowing(), "A2")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa", first.ID)
	assert.Equal(t, "bbbbbbbb", second.ID)
}

func TestGetIsOwnerOnly(t *testing.T) {
	e := newEnv(t)
	e.addLeo(t)
	b, err := book(e, alice, leoShowing(), "A1")
	require.NoError(t, err)

	_, err = e.engine.Get(context.Background(), model.Identity{Username: "mallory"}, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = e.engine.Get(context.Background(), testAdmin, b.ID)
	assert.NoError(t, err)

	_, err = e.engine.Get(context.Background(), alice, "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestSeatMapUsesCatalogSpelling(t *testing.T) {
	e := newEnv(t)
	e.addLeo(t)
	ctx := context.Background()

	loose := model.Showing{MovieTitle: "Leo", Theater: "pvr velachery", Date: "2026-10-18", Time: "6:30 pm"}
	b, err := book(e, alice, loose, "A1")
	require.NoError(t, err)
	assert.Equal(t, "PVR Velachery", b.Theater)
	assert.Equal(t, "6:30 PM", b.Time)

	for _, s := range []model.Showing{loose, leoShowing()} {
		occ, err := e.engine.OccupiedSeats(ctx, s)
		require.NoError(t, err)
		assert.Equalf(t, []string{"A1"}, occ, "showing %+v", s)
	}

	_, resolved, err := e.engine.ResolveShowing(ctx, "", loose)
	require.NoError(t, err)
	assert.Equal(t, leoShowing(), resolved)

	_, err = e.engine.OccupiedSeats(ctx, model.Showing{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-18", Time: "9:00 PM"})
	assert.ErrorIs(t, err, ErrUnknownShowing)
	_, err = e.engine.OccupiedSeats(ctx, model.Showing{MovieTitle: "Nope", Theater: "PVR Velachery", Date: "2026-10-18", Time: "6:30 PM"})
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestLedgerFaultIsReturned(t *testing.T) {
	log := zap.NewNop()
	catalog := NewCatalog(repository.NewMemoryMovies(), log)
	_, err := catalog.AddMovie(context.Background(), testAdmin, MovieInput{
		Title: "Leo", Theaters: []string{"PVR Velachery"}, Showtimes: []string{"6:30 PM"}, PriceCents: 19000,
	})
	require.NoError(t, err)
	n := &recordingNotifier{}
	engine := NewBookingEngine(brokenLedger{}, catalog, repository.NewMemoryAccounts(), NewKeyedMutex(), n, log,
		WithClock(func() time.Time { return testNow }))

	_, err = engine.OccupiedSeats(context.Background(), leoShowing())
	assert.ErrorIs(t, err, errStorage)

	_, err = engine.Attempt(context.Background(), alice, BookingRequest{Showing: leoShowing(), Seats: []string{"A1"}, Payment: goodCard})
	assert.ErrorIs(t, err, errStorage)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))

	_, err = engine.ListMine(context.Background(), "alice")
	assert.ErrorIs(t, err, errStorage)
	_, err = engine.Get(context.Background(), alice, "abcd1234")
	assert.ErrorIs(t, err, errStorage)

	engine.Wait()
	assert.Zero(t, n.count())
}
