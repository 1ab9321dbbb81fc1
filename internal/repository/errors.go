// Package repository defines error values and helpers reused across the
// individual repositories. Sentinel errors let handlers translate storage
// failures into the right HTTP status without inspecting SQL details.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrSeatTaken is returned when a ticket insert loses the race for a seat:
// the unique key on (showtime_id, seat_id) rejected the row. The whole
// booking transaction must be rolled back; handlers translate this into
// HTTP 409 so the client can re-fetch availability and retry.
var ErrSeatTaken = errors.New("seat already booked for this showtime")

// ErrConflict is returned when a lookup-or-create race on cinemas or
// screens hits a uniqueness constraint. The operation is retryable.
var ErrConflict = errors.New("conflict")

const mysqlDupEntry = 1062

// isDuplicateKey reports whether err is a MySQL duplicate-key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}
