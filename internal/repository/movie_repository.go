package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// MovieRepo stores the catalog in the MySQL `movies` table.  Theater and
// showtime lists are kept as JSON arrays.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `movie_id, title, genre, theaters, showtimes, price_cents, rating, poster, trailer`

func (r *MovieRepo) Create(ctx context.Context, m model.Movie) error {
	theaters, err := json.Marshal(m.Theaters)
	if err != nil {
		return err
	}
	showtimes, err := json.Marshal(m.Showtimes)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO movies (`+movieColumns+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		m.ID, m.Title, m.Genre, string(theaters), string(showtimes), m.PriceCents, m.Rating, m.Poster, m.Trailer)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrMovieExists
		}
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

func (r *MovieRepo) Get(ctx context.Context, id string) (model.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE movie_id = ?`, id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrNotFound
	}
	if err != nil {
		return model.Movie{}, fmt.Errorf("select movie: %w", err)
	}
	return m, nil
}

// List returns every movie in insertion order.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY created_at, movie_id`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(s rowScanner) (model.Movie, error) {
	var (
		m                   model.Movie
		theaters, showtimes string
	)
	if err := s.Scan(&m.ID, &m.Title, &m.Genre, &theaters, &showtimes, &m.PriceCents, &m.Rating, &m.Poster, &m.Trailer); err != nil {
		return model.Movie{}, err
	}
	if err := json.Unmarshal([]byte(theaters), &m.Theaters); err != nil {
		return model.Movie{}, fmt.Errorf("decode theaters: %w", err)
	}
	if err := json.Unmarshal([]byte(showtimes), &m.Showtimes); err != nil {
		return model.Movie{}, fmt.Errorf("decode showtimes: %w", err)
	}
	return m, nil
}
