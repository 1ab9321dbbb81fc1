package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Seat tiers. The row partition below is the single source of truth for
// both layout generation and pricing; the two must never drift apart.
const (
	TierClassic         = "classic"
	TierPrime           = "prime"
	TierRecliner        = "recliner"
	TierPremiumRecliner = "premium_recliner"
)

// SeatsPerRow is the fixed number of seats in every row of every screen.
const SeatsPerRow = 10

// tierPartition assigns each row label to exactly one tier. Ten rows of
// ten seats give every screen a fixed capacity of 100.
var tierPartition = []struct {
	Tier string
	Rows []string
}{
	{TierClassic, []string{"A", "B"}},
	{TierPrime, []string{"C", "D", "E", "F"}},
	{TierRecliner, []string{"G", "H", "I"}},
	{TierPremiumRecliner, []string{"J"}},
}

// TierForRow returns the price tier for a row label, or "" when the label
// is outside the fixed layout.
func TierForRow(row string) string {
	for _, p := range tierPartition {
		for _, r := range p.Rows {
			if r == row {
				return p.Tier
			}
		}
	}
	return ""
}

// LayoutRows enumerates the full seating grid as (row, number, tier)
// triples in layout order. It is a pure function of the partition above.
func LayoutRows() []LayoutSeat {
	out := make([]LayoutSeat, 0, len(tierPartition)*SeatsPerRow)
	for _, p := range tierPartition {
		for _, row := range p.Rows {
			for n := uint32(1); n <= SeatsPerRow; n++ {
				out = append(out, LayoutSeat{Row: row, Number: n, Tier: p.Tier})
			}
		}
	}
	return out
}

// LayoutSeat is one position in the fixed seating grid.
type LayoutSeat struct {
	Row    string
	Number uint32
	Tier   string
}

// Seat represents a physical seat row persisted for a screen. Identity is
// (ScreenID, Row, Number); rows are immutable once generated.
type Seat struct {
	ID     uint64
	Screen uint64
	Row    string
	Number uint32
	Tier   string
}

// SeatStatus is the per-showtime availability projection of a seat.
type SeatStatus struct {
	SeatID uint64 `json:"seat_id"`
	Row    string `json:"seat_row"`
	Number uint32 `json:"seat_number"`
	Tier   string `json:"seat_type"`
	Status string `json:"status"` // "available" or "booked"
}

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides persistence for seats and the availability view.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GenerateLayoutTx inserts the fixed 100-seat grid for a screen inside the
// caller's transaction. INSERT IGNORE plus the unique key on
// (screen_id, seat_row, seat_number) makes the operation idempotent:
// re-running it for an existing screen inserts nothing and is not an
// error. It must run in the same transaction that created the screen so a
// partial layout can never be committed.
func (r *SeatRepo) GenerateLayoutTx(ctx context.Context, tx *sql.Tx, screenID uint64) error {
	grid := LayoutRows()
	query := `INSERT IGNORE INTO seats (screen_id, seat_row, seat_number, seat_type) VALUES `
	args := make([]interface{}, 0, len(grid)*4)
	for i, s := range grid {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, screenID, s.Row, s.Number, s.Tier)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListAvailability joins the screen's seats against tickets issued for one
// showtime and returns the booked/available projection ordered by row then
// seat number. The read runs outside any transaction; read-committed
// isolation guarantees a committed booking is visible to the next reader.
func (r *SeatRepo) ListAvailability(ctx context.Context, showtimeID, screenID uint64) ([]SeatStatus, error) {
	const q = `SELECT s.seat_id, s.seat_row, s.seat_number, s.seat_type,
	                  CASE WHEN t.ticket_id IS NOT NULL THEN 'booked' ELSE 'available' END AS status
	           FROM seats s
	           LEFT JOIN tickets t ON t.seat_id = s.seat_id AND t.showtime_id = ?
	           WHERE s.screen_id = ?
	           ORDER BY s.seat_row, s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SeatStatus, 0, len(tierPartition)*SeatsPerRow*2)
	for rows.Next() {
		var ss SeatStatus
		if err := rows.Scan(&ss.SeatID, &ss.Row, &ss.Number, &ss.Tier, &ss.Status); err != nil {
			return nil, err
		}
		out = append(out, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByIDsTx fetches seats by ID inside the caller's transaction, scoped
// to one screen. Seats from other screens are silently dropped; callers
// compare the result length against the request to detect bogus IDs.
func (r *SeatRepo) ListByIDsTx(ctx context.Context, tx *sql.Tx, screenID uint64, seatIDs []uint64) ([]Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	query := `SELECT seat_id, screen_id, seat_row, seat_number, seat_type FROM seats WHERE screen_id = ? AND seat_id IN (`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, screenID)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ") ORDER BY seat_row, seat_number"

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Seat, 0, len(seatIDs))
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.ID, &s.Screen, &s.Row, &s.Number, &s.Tier); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByScreen returns the number of seat rows stored for a screen.
func (r *SeatRepo) CountByScreen(ctx context.Context, screenID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE screen_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, screenID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
