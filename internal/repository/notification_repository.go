package repository

import (
	"context"
	"database/sql"
	"time"
)

// Notification is one admin-console notice, written in the same
// transaction as the booking change it describes.
type Notification struct {
	ID        uint64    `json:"notification_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification type values.
const (
	NotifyBooking      = "booking"
	NotifyCancellation = "cancellation"
)

// NotificationRepo persists admin notifications.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo constructs a NotificationRepo with the given DB handle.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// InsertTx writes a notification row inside the caller's transaction so it
// commits or rolls back with the booking change it announces.
func (r *NotificationRepo) InsertTx(ctx context.Context, tx *sql.Tx, message, typ string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO notifications (message, type) VALUES (?, ?)`, message, typ)
	return err
}

// ListRecent returns up to limit notifications, newest first.
func (r *NotificationRepo) ListRecent(ctx context.Context, limit int) ([]Notification, error) {
	const q = `SELECT notification_id, message, type, is_read, created_at
	           FROM notifications ORDER BY created_at DESC, notification_id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkAllRead flags every notification as read and returns how many rows
// changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
