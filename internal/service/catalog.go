package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// BookingWindowDays is how many days ahead, today included, a showing can be
// picked.
const BookingWindowDays = 3

// DateLayout is the format of showing dates.
const DateLayout = "2006-01-02"

// maxSlugAttempts bounds the -2, -3 ... suffix search for a free movie id.
const maxSlugAttempts = 100

// MovieInput is the admin supplied content of a new catalog entry.
type MovieInput struct {
	Title      string
	Genre      string
	Theaters   []string
	Showtimes  []string
	PriceCents int64
	Rating     string
	Poster     string
	Trailer    string
}

// Catalog is the read-mostly movie list.
type Catalog struct {
	store repository.MovieStore
	log   *zap.Logger

	addMu sync.Mutex // serialises the title check and insert of AddMovie
}

func NewCatalog(store repository.MovieStore, log *zap.Logger) *Catalog {
	return &Catalog{store: store, log: log}
}

// List returns movies whose title or genre contains query (case-insensitive),
// sorted by title.  The filter runs before sorting.
func (c *Catalog) List(ctx context.Context, query string) ([]model.Movie, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	out := make([]model.Movie, 0, len(all))
	for _, m := range all {
		if m.MatchesQuery(query) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (model.Movie, error) {
	m, err := c.store.Get(ctx, strings.TrimSpace(id))
	if errors.Is(err, repository.ErrNotFound) {
		return model.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return model.Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

// FindByTitle returns the movie with exactly this title.
func (c *Catalog) FindByTitle(ctx context.Context, title string) (model.Movie, error) {
	all, err := c.store.List(ctx)
	if err != nil {
		return model.Movie{}, fmt.Errorf("list movies: %w", err)
	}
	title = strings.TrimSpace(title)
	for _, m := range all {
		if m.Title == title {
			return m, nil
		}
	}
	return model.Movie{}, ErrMovieNotFound
}

// AddMovie appends a movie to the catalog.  Only admins may call it.  The
// id is a slug of the title, suffixed -2, -3 ... when already in use.
func (c *Catalog) AddMovie(ctx context.Context, id model.Identity, in MovieInput) (model.Movie, error) {
	if !id.IsAdmin {
		return model.Movie{}, ErrAccessDenied
	}
	m, err := buildMovie(in)
	if err != nil {
		return model.Movie{}, err
	}
	c.addMu.Lock()
	defer c.addMu.Unlock()
	if _, err := c.FindByTitle(ctx, m.Title); err == nil {
		return model.Movie{}, repository.ErrMovieExists
	} else if !errors.Is(err, ErrMovieNotFound) {
		return model.Movie{}, err
	}
	if err := c.create(ctx, &m); err != nil {
		return model.Movie{}, err
	}
	c.log.Info("movie added", zap.String("movie_id", m.ID), zap.String("title", m.Title), zap.String("by", id.Username))
	return m, nil
}

func (c *Catalog) create(ctx context.Context, m *model.Movie) error {
	base := slug.Make(m.Title)
	if base == "" {
		base = "movie"
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		m.ID = base
		if n > 1 {
			m.ID = base + "-" + strconv.Itoa(n)
		}
		err := c.store.Create(ctx, *m)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrMovieExists) {
			return fmt.Errorf("create movie: %w", err)
		}
	}
	return fmt.Errorf("create movie: no free id for %q", base)
}

func buildMovie(in MovieInput) (model.Movie, error) {
	m := model.Movie{
		Title:      strings.TrimSpace(in.Title),
		Genre:      strings.TrimSpace(in.Genre),
		Theaters:   cleanList(in.Theaters),
		Showtimes:  cleanList(in.Showtimes),
		PriceCents: in.PriceCents,
		Rating:     strings.TrimSpace(in.Rating),
		Poster:     strings.TrimSpace(in.Poster),
		Trailer:    strings.TrimSpace(in.Trailer),
	}
	switch {
	case m.Title == "":
		return model.Movie{}, invalid("title is required")
	case len(m.Theaters) == 0:
		return model.Movie{}, invalid("at least one theater is required")
	case len(m.Showtimes) == 0:
		return model.Movie{}, invalid("at least one showtime is required")
	case m.PriceCents < 0:
		return model.Movie{}, invalid("price must not be negative")
	}
	return m, nil
}

// cleanList trims entries and drops empties and duplicates, keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Seed loads the starter catalog when the store is empty.
func (c *Catalog) Seed(ctx context.Context) error {
	all, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}
	if len(all) > 0 {
		return nil
	}
	for _, in := range seedMovies {
		m, err := buildMovie(in)
		if err != nil {
			return err
		}
		if err := c.create(ctx, &m); err != nil {
			return err
		}
	}
	c.log.Info("catalog seeded", zap.Int("movies", len(seedMovies)))
	return nil
}

// Dates returns the bookable showing dates starting today.
func Dates(now time.Time) []string {
	out := make([]string, BookingWindowDays)
	for i := range out {
		out[i] = now.AddDate(0, 0, i).Format(DateLayout)
	}
	return out
}

var seedMovies = []MovieInput{
	{
		Title:      "Leo",
		Genre:      "Action/Thriller",
		Theaters:   []string{"PVR Velachery", "Rohini Silver Screens"},
		Showtimes:  []string{"10:00 AM", "2:30 PM", "6:30 PM"},
		PriceCents: 19000,
		Rating:     "4.7",
		Poster:     "https://upload.wikimedia.org/wikipedia/en/7/71/Leo_2023_Indian_poster.jpg",
		Trailer:    "https://www.youtube.com/embed/Po3jStA673E",
	},
	{
		Title:      "Avatar: The Way of Water",
		Genre:      "Sci-Fi/Adventure",
		Theaters:   []string{"IMAX Phoenix", "Luxe Cinemas"},
		Showtimes:  []string{"11:00 AM", "5:00 PM", "9:00 PM"},
		PriceCents: 35000,
		Rating:     "4.9",
		Poster:     "https://upload.wikimedia.org/wikipedia/en/5/54/Avatar_The_Way_of_Water_poster.jpg",
		Trailer:    "https://www.youtube.com/embed/d9MyqFCD6sI",
	},
	{
		Title:      "Jailer",
		Genre:      "Action/Comedy",
		Theaters:   []string{"PVR Velachery", "Rohini Silver Screens"},
		Showtimes:  []string{"6:00 PM", "9:30 PM"},
		PriceCents: 15000,
		Rating:     "4.6",
		Poster:     "https://upload.wikimedia.org/wikipedia/en/c/cb/Jailer_2023_Tamil_film_poster.jpg",
		Trailer:    "https://www.youtube.com/embed/xenOe1ftNCa",
	},
}
