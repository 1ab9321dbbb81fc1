package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Movie represents a catalog entry maintained by admins.
type Movie struct {
	ID           uint64 `json:"movie_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DurationMins uint32 `json:"duration_mins"`
	Genre        string `json:"genre"`
	ImageURL     string `json:"image_url"`
}

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo encapsulates catalog queries for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// List returns the full movie catalog ordered by ID.
func (r *MovieRepo) List(ctx context.Context) ([]Movie, error) {
	const q = `SELECT movie_id, title, description, duration_mins, genre, image_url
	           FROM movies ORDER BY movie_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movie
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMins, &m.Genre, &m.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one movie, returning ErrMovieNotFound when absent.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT movie_id, title, description, duration_mins, genre, image_url
	           FROM movies WHERE movie_id = ?`
	var m Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.Description, &m.DurationMins, &m.Genre, &m.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a new movie and populates its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	const q = `INSERT INTO movies (title, description, duration_mins, genre, image_url)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMins, m.Genre, m.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// DeleteCascade removes a movie together with every dependent row:
// tickets for the movie's showtimes, then bookings for those showtimes,
// then the showtimes, then the movie itself. Children go first so no
// orphan can survive; the whole cascade is one transaction. Returns
// ErrMovieNotFound when the movie does not exist.
func (r *MovieRepo) DeleteCascade(ctx context.Context, movieID uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM tickets WHERE showtime_id IN
		   (SELECT showtime_id FROM showtimes WHERE movie_id = ?)`, movieID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM bookings WHERE showtime_id IN
		   (SELECT showtime_id FROM showtimes WHERE movie_id = ?)`, movieID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM showtimes WHERE movie_id = ?`, movieID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = ?`, movieID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrMovieNotFound
		return err
	}
	return nil
}
