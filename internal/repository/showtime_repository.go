package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Showtime represents one movie airing on one screen at one instant.
// Seats are shared across all showtimes on the same screen; occupancy is
// tracked per showtime through tickets, not on the seat rows themselves.
type Showtime struct {
	ID            uint64
	MovieID       uint64
	ScreenID      uint64
	StartTime     time.Time
	PriceClassic  uint32
	PricePrime    uint32
	PriceRecliner uint32
	PricePremium  uint32
}

// PriceForTier maps a seat tier to this showtime's price for it.
func (s *Showtime) PriceForTier(tier string) uint32 {
	switch tier {
	case TierClassic:
		return s.PriceClassic
	case TierPrime:
		return s.PricePrime
	case TierRecliner:
		return s.PriceRecliner
	case TierPremiumRecliner:
		return s.PricePremium
	}
	return 0
}

// Fallback prices applied when an admin omits a tier price on creation.
const (
	DefaultPriceClassic  = 200
	DefaultPricePrime    = 350
	DefaultPriceRecliner = 550
	DefaultPricePremium  = 870
)

// ErrShowtimeNotFound indicates that a showtime was not located in the DB.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ShowtimeRepo manages persistence for showtimes.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *ShowtimeRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a showtime within the caller's transaction and
// populates the generated ID. Zero-valued prices must be replaced with the
// tier defaults by the caller before insertion.
func (r *ShowtimeRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *Showtime) error {
	const q = `INSERT INTO showtimes
	             (movie_id, screen_id, start_time, price_classic, price_prime, price_recliner, price_premium)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		s.MovieID, s.ScreenID, s.StartTime.UTC(),
		s.PriceClassic, s.PricePrime, s.PriceRecliner, s.PricePremium)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a showtime by its ID. It returns ErrShowtimeNotFound
// if there is no matching row.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*Showtime, error) {
	const q = `SELECT showtime_id, movie_id, screen_id, start_time,
	                  price_classic, price_prime, price_recliner, price_premium
	           FROM showtimes WHERE showtime_id = ?`
	var s Showtime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.ScreenID, &s.StartTime,
		&s.PriceClassic, &s.PricePrime, &s.PriceRecliner, &s.PricePremium)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ShowtimeListing is a showtime joined with its cinema and screen for
// display to customers picking a showing.
type ShowtimeListing struct {
	ShowtimeID    uint64    `json:"showtime_id"`
	StartTime     time.Time `json:"start_time"`
	ScreenNumber  uint32    `json:"screen_number"`
	CinemaName    string    `json:"cinema_name"`
	Location      string    `json:"location"`
	PriceClassic  uint32    `json:"price_classic"`
	PricePrime    uint32    `json:"price_prime"`
	PriceRecliner uint32    `json:"price_recliner"`
	PricePremium  uint32    `json:"price_premium"`
}

// ListUpcomingByMovie returns future showtimes for a movie sorted by start
// time ascending. Past showtimes are filtered out in SQL so the clock
// comparison happens on the database's clock, not the app server's.
func (r *ShowtimeRepo) ListUpcomingByMovie(ctx context.Context, movieID uint64) ([]ShowtimeListing, error) {
	const q = `SELECT st.showtime_id, st.start_time, s.screen_number, c.name, c.location,
	                  st.price_classic, st.price_prime, st.price_recliner, st.price_premium
	           FROM showtimes st
	           JOIN screens s ON s.screen_id = st.screen_id
	           JOIN cinemas c ON c.cinema_id = s.cinema_id
	           WHERE st.movie_id = ? AND st.start_time > UTC_TIMESTAMP()
	           ORDER BY st.start_time`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ShowtimeListing, 0)
	for rows.Next() {
		var l ShowtimeListing
		if err := rows.Scan(&l.ShowtimeID, &l.StartTime, &l.ScreenNumber, &l.CinemaName, &l.Location,
			&l.PriceClassic, &l.PricePrime, &l.PriceRecliner, &l.PricePremium); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminShowtimeListing extends ShowtimeListing with the movie title for
// the admin console, which lists every showtime regardless of date.
type AdminShowtimeListing struct {
	ShowtimeID    uint64    `json:"showtime_id"`
	StartTime     time.Time `json:"start_time"`
	MovieTitle    string    `json:"title"`
	ScreenNumber  uint32    `json:"screen_number"`
	CinemaName    string    `json:"cinema_name"`
	Location      string    `json:"location"`
	PriceClassic  uint32    `json:"price_classic"`
	PricePrime    uint32    `json:"price_prime"`
	PriceRecliner uint32    `json:"price_recliner"`
	PricePremium  uint32    `json:"price_premium"`
}

// ListAll returns every showtime with movie, cinema and screen context,
// newest first.
func (r *ShowtimeRepo) ListAll(ctx context.Context) ([]AdminShowtimeListing, error) {
	const q = `SELECT st.showtime_id, st.start_time, m.title, s.screen_number, c.name, c.location,
	                  st.price_classic, st.price_prime, st.price_recliner, st.price_premium
	           FROM showtimes st
	           JOIN movies m ON m.movie_id = st.movie_id
	           JOIN screens s ON s.screen_id = st.screen_id
	           JOIN cinemas c ON c.cinema_id = s.cinema_id
	           ORDER BY st.start_time DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AdminShowtimeListing, 0)
	for rows.Next() {
		var l AdminShowtimeListing
		if err := rows.Scan(&l.ShowtimeID, &l.StartTime, &l.MovieTitle, &l.ScreenNumber, &l.CinemaName, &l.Location,
			&l.PriceClassic, &l.PricePrime, &l.PriceRecliner, &l.PricePremium); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCascade removes a showtime and its dependent tickets and bookings
// in one transaction, children first. Returns ErrShowtimeNotFound when the
// showtime does not exist.
func (r *ShowtimeRepo) DeleteCascade(ctx context.Context, showtimeID uint64) (err error) {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM tickets WHERE showtime_id = ?`, showtimeID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE showtime_id = ?`, showtimeID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM showtimes WHERE showtime_id = ?`, showtimeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrShowtimeNotFound
		return err
	}
	return nil
}
