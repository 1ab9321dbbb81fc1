package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// User is an account row. Accounts are provisioned by an external identity
// service; this service only reads them and, for admins, deletes them.
type User struct {
	ID        uint64    `json:"user_id"`
	Name      string    `json:"user_name"`
	Email     string    `json:"user_email"`
	Mobile    string    `json:"mobile_number"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepo provides read and admin-delete access to user accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// List returns every account ordered by creation time, newest first.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	const q = `SELECT user_id, user_name, user_email, mobile_number, role, avatar_url, created_at
	           FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Role, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one account, returning ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*User, error) {
	const q = `SELECT user_id, user_name, user_email, mobile_number, role, avatar_url, created_at
	           FROM users WHERE user_id = ?`
	var u User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Role, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DeleteCascade removes an account together with its bookings and their
// tickets, children first, in one transaction. Returns ErrUserNotFound
// when no account row was removed.
func (r *UserRepo) DeleteCascade(ctx context.Context, userID uint64) (err error) {
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
		`DELETE FROM tickets WHERE booking_id IN
		   (SELECT booking_id FROM bookings WHERE user_id = ?)`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE user_id = ?`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrUserNotFound
		return err
	}
	return nil
}
