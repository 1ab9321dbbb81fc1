// Package repository contains data access logic separated from HTTP
// handlers. This file covers cinemas. Cinemas are created lazily by the
// showtime registry the first time a showtime references a new
// (name, location) pair and are never deleted by normal flows.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Cinema represents a venue. The (Name, Location) pair is unique in the
// database; concurrent creates are resolved by that constraint.
type Cinema struct {
	ID       uint64
	Name     string
	Location string
}

// ErrCinemaNotFound is returned when a cinema cannot be found in the DB.
var ErrCinemaNotFound = errors.New("cinema not found")

// CinemaRepo encapsulates all database queries related to cinemas.
type CinemaRepo struct {
	db *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *CinemaRepo) DB() *sql.DB { return r.db }

// FindByNameAndLocationTx looks up a cinema inside the caller's
// transaction. It returns sql.ErrNoRows when no cinema matches so the
// caller can decide to create one.
func (r *CinemaRepo) FindByNameAndLocationTx(ctx context.Context, tx *sql.Tx, name, location string) (uint64, error) {
	const q = `SELECT cinema_id FROM cinemas WHERE name = ? AND location = ?`
	var id uint64
	if err := tx.QueryRowContext(ctx, q, name, location).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateTx inserts a new cinema within the caller's transaction and returns
// the generated ID. A duplicate-key failure means another transaction
// created the same cinema concurrently; it is mapped to ErrConflict so the
// caller can surface a retryable error.
func (r *CinemaRepo) CreateTx(ctx context.Context, tx *sql.Tx, name, location string) (uint64, error) {
	const q = `INSERT INTO cinemas (name, location) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, name, location)
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

// GetByID fetches a cinema by its ID. It returns ErrCinemaNotFound when no
// row matches.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64) (*Cinema, error) {
	const q = `SELECT cinema_id, name, location FROM cinemas WHERE cinema_id = ?`
	var c Cinema
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Location); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}
	return &c, nil
}
