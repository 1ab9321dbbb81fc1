// Package queue defines the payloads exchanged over the message broker and
// the background consumer that turns them into customer notifications.
package queue

// Event kinds carried on the booking.events queue.
const (
	KindConfirmed = "confirmed"
	KindCancelled = "cancelled"
)

// BookingEvent is published after a booking transaction commits. It carries
// enough context for the notification consumer to compose the email and SMS
// without touching the primary database.
type BookingEvent struct {
	Kind          string `json:"kind"` // "confirmed" or "cancelled"
	BookingID     uint64 `json:"booking_id"`
	TransactionID string `json:"transaction_id"`
	UserID        uint64 `json:"user_id"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	MobileNumber  string `json:"mobile_number"`
	MovieTitle    string `json:"movie_title"`
	StartTime     string `json:"start_time"`
	SeatLabels    string `json:"seat_labels"`
	TicketCount   uint32 `json:"ticket_count"`
	TotalAmount   int64  `json:"total_amount"`
	OccurredAt    string `json:"occurred_at"`
}
