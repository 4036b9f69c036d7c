package model

import (
	"sort"
	"strings"
)

// Showing identifies one screening: a movie in a theater on a date at a
// time of day.  Seat occupancy is tracked per showing.
type Showing struct {
	MovieTitle string `json:"movie"`
	Theater    string `json:"theater"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// Normalize trims surrounding whitespace from every field.
func (s Showing) Normalize() Showing {
	return Showing{
		MovieTitle: strings.TrimSpace(s.MovieTitle),
		Theater:    strings.TrimSpace(s.Theater),
		Date:       strings.TrimSpace(s.Date),
		Time:       strings.TrimSpace(s.Time),
	}
}

// Key is the lock and lookup key of the showing.  Fields are joined with
// the ASCII unit separator so no field value can forge another key.
func (s Showing) Key() string {
	return strings.Join([]string{s.MovieTitle, s.Theater, s.Date, s.Time}, "\x1f")
}

// Matches applies strict matching: all four fields must be equal.
func (s Showing) Matches(b Booking) bool {
	return b.MovieTitle == s.MovieTitle &&
		b.Theater == s.Theater &&
		b.Date == s.Date &&
		b.Time == s.Time
}

// NormalizeSeats trims and upper-cases seat labels, drops empty entries
// and duplicates, and keeps the first-seen order.
func NormalizeSeats(seats []string) []string {
	out := make([]string, 0, len(seats))
	seen := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SortSeats orders labels by row letter, then numerically by column.
func SortSeats(seats []string) {
	sort.Slice(seats, func(i, j int) bool {
		ri, ci, okI := splitSeat(seats[i])
		rj, cj, okJ := splitSeat(seats[j])
		if !okI || !okJ {
			return seats[i] < seats[j]
		}
		if ri != rj {
			return ri < rj
		}
		return ci < cj
	})
}
