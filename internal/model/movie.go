package model

import "strings"

// Movie represents a catalog entry.  Movies are created by an admin and
// are immutable afterwards.  A movie is offered in one or more theaters
// at a fixed set of times of day; every (theater, date, time) combination
// forms a separate showing with its own seat occupancy.
//
// Fields:
//  ID         – stable identifier (a slug derived from the title).
//  Title      – display title, also part of the showing key.
//  Genre      – free-form genre string (e.g. "Action/Thriller").
//  Theaters   – ordered list of venue names.
//  Showtimes  – ordered list of time-of-day strings (e.g. "6:30 PM").
//  PriceCents – price of a single seat in cents.
//  Rating     – optional rating string.
//  Poster     – optional poster URL.
//  Trailer    – optional trailer URL.
type Movie struct {
	ID         string   `json:"movie_id"`
	Title      string   `json:"title"`
	Genre      string   `json:"genre"`
	Theaters   []string `json:"theaters"`
	Showtimes  []string `json:"showtimes"`
	PriceCents int64    `json:"price_cents"`
	Rating     string   `json:"rating,omitempty"`
	Poster     string   `json:"poster,omitempty"`
	Trailer    string   `json:"trailer,omitempty"`
}

// Theater returns the movie's spelling of the named theater.  Comparison
// ignores case and surrounding whitespace.
func (m Movie) Theater(name string) (string, bool) {
	return matchFold(m.Theaters, name)
}

// Showtime returns the movie's spelling of the given time of day.
func (m Movie) Showtime(t string) (string, bool) {
	return matchFold(m.Showtimes, t)
}

func matchFold(list []string, v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return s, true
		}
	}
	return "", false
}

// MatchesQuery reports whether q is a case-insensitive substring of the
// title or genre.  An empty query matches every movie.
func (m Movie) MatchesQuery(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Title), q) ||
		strings.Contains(strings.ToLower(m.Genre), q)
}
