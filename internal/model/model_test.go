package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSeats(t *testing.T) {
	got := NormalizeSeats([]string{" a1", "A2 ", "", "a1", "b10"})
	assert.Equal(t, []string{"A1", "A2", "B10"}, got)
}

func TestSortSeats(t *testing.T) {
	seats := []string{"B2", "A10", "A2", "B1"}
	SortSeats(seats)
	assert.Equal(t, []string{"A2", "A10", "B1", "B2"}, seats)
}

func TestLayoutContains(t *testing.T) {
	l := LayoutFor("Luxe Cinemas")
	tests := []struct {
		label string
		want  bool
	}{
		{"A1", true},
		{"E8", true},
		{"F1", false},
		{"A9", false},
		{"A0", false},
		{"A01", false},
		{"1A", false},
		{"A", false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, l.Contains(tt.label), "label %q", tt.label)
	}
}

func TestLayoutForUnknownTheater(t *testing.T) {
	assert.Equal(t, DefaultLayout, LayoutFor("Nowhere Multiplex"))
}

func TestShowingStrictMatch(t *testing.T) {
	s := Showing{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-17", Time: "6:30 PM"}
	b := Booking{MovieTitle: "Leo", Theater: "PVR Velachery", Date: "2026-10-17", Time: "6:30 PM"}
	assert.True(t, s.Matches(b))

	b.Time = "10:00 AM"
	assert.False(t, s.Matches(b), "different showtime must not match")
}

func TestQRPayload(t *testing.T) {
	b := Booking{ID: "ab12cd34", MovieTitle: "Leo", Seats: []string{"A1", "A2"}}
	assert.Equal(t, "ID:ab12cd34|Movie:Leo|Seats:A1, A2", b.QRPayload())
	assert.Equal(t, b.QRPayload(), b.QRPayload())
}

func TestMovieMatchesQuery(t *testing.T) {
	m := Movie{Title: "Avatar: The Way of Water", Genre: "Sci-Fi/Adventure"}
	assert.True(t, m.MatchesQuery(""))
	assert.True(t, m.MatchesQuery("avatar"))
	assert.True(t, m.MatchesQuery("SCI-FI"))
	assert.False(t, m.MatchesQuery("comedy"))
}

func TestMovieCanonicalLookups(t *testing.T) {
	m := Movie{Theaters: []string{"PVR Velachery"}, Showtimes: []string{"10:00 AM", "6:30 PM"}}

	got, ok := m.Showtime(" 6:30 pm")
	assert.True(t, ok)
	assert.Equal(t, "6:30 PM", got)

	got, ok = m.Theater("pvr velachery")
	assert.True(t, ok)
	assert.Equal(t, "PVR Velachery", got)

	_, ok = m.Showtime("9:00 PM")
	assert.False(t, ok)
	_, ok = m.Theater("IMAX Phoenix")
	assert.False(t, ok)
}
