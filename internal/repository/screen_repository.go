package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Screen represents an auditorium inside a cinema. Each screen owns a
// fixed seat layout created exactly once at screen-creation time and never
// regenerated. The (CinemaID, ScreenNumber) pair is unique.
type Screen struct {
	ID           uint64
	CinemaID     uint64
	ScreenNumber uint32
	Capacity     uint32
}

// ErrScreenNotFound is returned when a screen lookup yields no rows.
var ErrScreenNotFound = errors.New("screen not found")

// ScreenRepo provides persistence for screens.
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo {
	return &ScreenRepo{db: db}
}

// FindByCinemaAndNumberTx resolves a screen inside the caller's
// transaction. sql.ErrNoRows signals the caller to create the screen.
func (r *ScreenRepo) FindByCinemaAndNumberTx(ctx context.Context, tx *sql.Tx, cinemaID uint64, screenNumber uint32) (uint64, error) {
	const q = `SELECT screen_id FROM screens WHERE cinema_id = ? AND screen_number = ?`
	var id uint64
	if err := tx.QueryRowContext(ctx, q, cinemaID, screenNumber).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateTx inserts a new screen within the caller's transaction. The seat
// layout for the screen must be generated in the same transaction by the
// caller so screen and seats commit (or roll back) together. A duplicate
// key means a concurrent submission created the same screen; it is mapped
// to ErrConflict.
func (r *ScreenRepo) CreateTx(ctx context.Context, tx *sql.Tx, cinemaID uint64, screenNumber, capacity uint32) (uint64, error) {
	const q = `INSERT INTO screens (cinema_id, screen_number, capacity) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, cinemaID, screenNumber, capacity)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a screen by ID, returning ErrScreenNotFound when absent.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*Screen, error) {
	const q = `SELECT screen_id, cinema_id, screen_number, capacity FROM screens WHERE screen_id = ?`
	var s Screen
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.CinemaID, &s.ScreenNumber, &s.Capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	return &s, nil
}
