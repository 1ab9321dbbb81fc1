package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Booking is one purchase event: one user, one showtime, one or more
// seats. A booking and its tickets are created together in a single
// transaction and destroyed together; no path may leave one without the
// other.
type Booking struct {
	ID            uint64
	UserID        uint64
	ShowtimeID    uint64
	TotalAmount   int64
	TransactionID string
	CardHolder    string
	CardMask      string
}

// ErrBookingNotFound is returned when a booking is absent or not owned by
// the requesting user. The two cases are deliberately indistinguishable so
// the API does not leak other users' booking IDs.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo persists bookings and their tickets. All multi-row writes
// happen through ...Tx methods inside a caller-owned transaction.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// DB exposes the underlying sql.DB for transaction control.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts the booking row inside the caller's transaction and
// populates the generated ID. Tickets are inserted separately via
// InsertTicketsTx in the same transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *Booking) error {
	const q = `INSERT INTO bookings (user_id, showtime_id, total_amount, transaction_id, card_holder, card_number_mask)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.ShowtimeID, b.TotalAmount, b.TransactionID, b.CardHolder, b.CardMask)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// InsertTicketsTx bulk-inserts one ticket per seat for a booking inside
// the caller's transaction. When another committed booking already holds
// one of the seats, the unique key on (showtime_id, seat_id) rejects the
// insert and ErrSeatTaken is returned; the caller must roll back the whole
// transaction so the booking row does not survive without tickets.
func (r *BookingRepo) InsertTicketsTx(ctx context.Context, tx *sql.Tx, bookingID, showtimeID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO tickets (booking_id, showtime_id, seat_id) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*3)
	for i, seatID := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, bookingID, showtimeID, seatID)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrSeatTaken
		}
		return err
	}
	return nil
}

// ConfirmInfo carries the context needed to build the confirmation
// notification after a successful booking.
type ConfirmInfo struct {
	MovieTitle string
	StartTime  time.Time
	UserName   string
	UserEmail  string
	Mobile     string
}

// GetConfirmInfoTx loads movie and user details for the confirmation
// message inside the booking transaction, so the notification row written
// in the same transaction matches what was actually booked.
func (r *BookingRepo) GetConfirmInfoTx(ctx context.Context, tx *sql.Tx, userID, showtimeID uint64) (*ConfirmInfo, error) {
	const q = `SELECT m.title, st.start_time, u.user_name, u.user_email, u.mobile_number
	           FROM showtimes st
	           JOIN movies m ON m.movie_id = st.movie_id
	           JOIN users u ON u.user_id = ?
	           WHERE st.showtime_id = ?`
	var info ConfirmInfo
	err := tx.QueryRowContext(ctx, q, userID, showtimeID).Scan(
		&info.MovieTitle, &info.StartTime, &info.UserName, &info.UserEmail, &info.Mobile)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// CancelInfo describes a booking about to be cancelled, for ownership
// verification and for the cancellation notification.
type CancelInfo struct {
	BookingID   uint64
	TotalAmount int64
	UserName    string
	UserEmail   string
	MovieTitle  string
	TicketCount uint32
}

// GetCancelInfoTx fetches a booking scoped to (bookingID, userID) inside
// the caller's transaction. A missing booking and a booking owned by
// someone else both return ErrBookingNotFound.
func (r *BookingRepo) GetCancelInfoTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (*CancelInfo, error) {
	const q = `SELECT b.booking_id, b.total_amount, u.user_name, u.user_email, m.title,
	                  COUNT(t.ticket_id)
	           FROM bookings b
	           JOIN users u ON u.user_id = b.user_id
	           JOIN showtimes st ON st.showtime_id = b.showtime_id
	           JOIN movies m ON m.movie_id = st.movie_id
	           LEFT JOIN tickets t ON t.booking_id = b.booking_id
	           WHERE b.booking_id = ? AND b.user_id = ?
	           GROUP BY b.booking_id, b.total_amount, u.user_name, u.user_email, m.title`
	var info CancelInfo
	err := tx.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&info.BookingID, &info.TotalAmount, &info.UserName, &info.UserEmail, &info.MovieTitle, &info.TicketCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &info, nil
}

// DeleteTx removes a booking's tickets and then the booking row inside the
// caller's transaction. Order matters: tickets reference the booking.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE booking_id = ?`, bookingID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = ?`, bookingID); err != nil {
		return err
	}
	return nil
}

// BookingSummary is one row of a user's booking history, aggregated with
// the seat labels and ticket count for display.
type BookingSummary struct {
	BookingID     uint64    `json:"booking_id"`
	BookingTime   time.Time `json:"booking_time"`
	TotalAmount   int64     `json:"total_amount"`
	TransactionID string    `json:"transaction_id"`
	CardMask      string    `json:"card_number_mask"`
	MovieTitle    string    `json:"title"`
	ImageURL      string    `json:"image_url"`
	DurationMins  uint32    `json:"duration_mins"`
	CinemaName    string    `json:"cinema_name"`
	Location      string    `json:"location"`
	StartTime     time.Time `json:"start_time"`
	ScreenNumber  uint32    `json:"screen_number"`
	SeatNumbers   string    `json:"seat_numbers"`
	TotalTickets  uint32    `json:"total_tickets"`
}

// ListByUser returns a user's bookings newest first, each aggregated with
// a comma-separated seat label list and the ticket count.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingSummary, error) {
	const q = `SELECT b.booking_id, b.booking_time, b.total_amount, b.transaction_id, b.card_number_mask,
	                  m.title, m.image_url, m.duration_mins,
	                  c.name, c.location, st.start_time, scr.screen_number,
	                  GROUP_CONCAT(CONCAT(s.seat_row, s.seat_number) ORDER BY s.seat_row, s.seat_number SEPARATOR ', '),
	                  COUNT(t.ticket_id)
	           FROM bookings b
	           JOIN showtimes st ON st.showtime_id = b.showtime_id
	           JOIN movies m ON m.movie_id = st.movie_id
	           JOIN screens scr ON scr.screen_id = st.screen_id
	           JOIN cinemas c ON c.cinema_id = scr.cinema_id
	           JOIN tickets t ON t.booking_id = b.booking_id
	           JOIN seats s ON s.seat_id = t.seat_id
	           WHERE b.user_id = ?
	           GROUP BY b.booking_id, m.movie_id, c.cinema_id, st.showtime_id, scr.screen_id
	           ORDER BY b.booking_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BookingSummary, 0)
	for rows.Next() {
		var s BookingSummary
		if err := rows.Scan(
			&s.BookingID, &s.BookingTime, &s.TotalAmount, &s.TransactionID, &s.CardMask,
			&s.MovieTitle, &s.ImageURL, &s.DurationMins,
			&s.CinemaName, &s.Location, &s.StartTime, &s.ScreenNumber,
			&s.SeatNumbers, &s.TotalTickets); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCascade removes a booking and its tickets in one transaction,
// without an ownership check; it backs the admin delete endpoint. Returns
// ErrBookingNotFound when no booking row was removed.
func (r *BookingRepo) DeleteCascade(ctx context.Context, bookingID uint64) (err error) {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM tickets WHERE booking_id = ?`, bookingID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = ?`, bookingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrBookingNotFound
		return err
	}
	return nil
}

// PaymentRecord is one simulated payment for the admin payments overview.
type PaymentRecord struct {
	TransactionID string    `json:"transaction_id"`
	BookingTime   time.Time `json:"booking_time"`
	TotalAmount   int64     `json:"total_amount"`
	CardHolder    string    `json:"card_holder"`
	CardMask      string    `json:"card_number_mask"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	MovieTitle    string    `json:"movie_title"`
}

// ListPayments returns every recorded payment newest first plus the summed
// revenue across all bookings.
func (r *BookingRepo) ListPayments(ctx context.Context) ([]PaymentRecord, int64, error) {
	const q = `SELECT b.transaction_id, b.booking_time, b.total_amount, b.card_holder, b.card_number_mask,
	                  u.user_name, u.user_email, m.title
	           FROM bookings b
	           JOIN users u ON u.user_id = b.user_id
	           JOIN showtimes st ON st.showtime_id = b.showtime_id
	           JOIN movies m ON m.movie_id = st.movie_id
	           ORDER BY b.booking_time DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PaymentRecord, 0)
	var total int64
	for rows.Next() {
		var p PaymentRecord
		if err := rows.Scan(&p.TransactionID, &p.BookingTime, &p.TotalAmount, &p.CardHolder, &p.CardMask,
			&p.UserName, &p.UserEmail, &p.MovieTitle); err != nil {
			return nil, 0, err
		}
		total += p.TotalAmount
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
