package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Chaitanyateke/MovieBooking/internal/queue"
	"github.com/Chaitanyateke/MovieBooking/internal/repository"
	"github.com/labstack/echo/v4"
)

// bookRequest is the payload for POST /v1/events/book. Card details are
// optional; a missing card number records a cash payment.
type bookRequest struct {
	ShowtimeID uint64   `json:"showtime_id" validate:"required"`
	SeatIDs    []uint64 `json:"seat_ids" validate:"required,min=1,dive,gt=0"`
	CardHolder string   `json:"card_holder"`
	CardNumber string   `json:"card_number"`

	// TotalAmount is what the client computed from the displayed prices.
	// The server re-derives the total from the tier table and rejects a
	// mismatch; zero means the client did not send one.
	TotalAmount int64 `json:"total_amount"`
}

// BookTickets handles POST /v1/events/book. The booking row, its tickets,
// and the admin notification are written in one transaction; the unique
// key on (showtime_id, seat_id) decides any race for a seat, and a loss
// rolls the whole transaction back so no partial booking can be observed.
// The confirmation event is published only after commit.
func (h *EventHandler) BookTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body bookRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id and a non-empty seat_ids are required"})
	}

	// Deduplicate so a repeated seat ID cannot self-collide on the
	// tickets unique key.
	seen := make(map[uint64]struct{}, len(body.SeatIDs))
	seatIDs := make([]uint64, 0, len(body.SeatIDs))
	for _, id := range body.SeatIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		seatIDs = append(seatIDs, id)
	}

	ctx := c.Request().Context()
	st, err := h.ShowtimeRepo.GetByID(ctx, body.ShowtimeID)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seats, err := h.SeatRepo.ListByIDsTx(ctx, tx, st.ScreenID, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	if len(seats) != len(seatIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more seats do not belong to this showtime"})
	}

	var total int64
	labels := make([]string, 0, len(seats))
	for _, s := range seats {
		total += int64(st.PriceForTier(s.Tier))
		labels = append(labels, fmt.Sprintf("%s%d", s.Row, s.Number))
	}
	if body.TotalAmount != 0 && body.TotalAmount != total {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_amount does not match current seat prices"})
	}

	holder := strings.TrimSpace(body.CardHolder)
	if holder == "" {
		holder = "Unknown"
	}
	booking := &repository.Booking{
		UserID:        userID,
		ShowtimeID:    st.ID,
		TotalAmount:   total,
		TransactionID: uuid.NewString(),
		CardHolder:    holder,
		CardMask:      maskCard(body.CardNumber),
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := h.BookingRepo.InsertTicketsTx(ctx, tx, booking.ID, st.ID, seatIDs); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seats were just booked by someone else"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tickets"})
	}

	info, err := h.BookingRepo.GetConfirmInfoTx(ctx, tx, userID, st.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking details"})
	}
	msg := fmt.Sprintf("%s booked %d ticket(s) for \"%s\" (seats %s, Rs.%d)",
		info.UserName, len(seatIDs), info.MovieTitle, strings.Join(labels, ", "), total)
	if err := h.NotifRepo.InsertTx(ctx, tx, msg, repository.NotifyBooking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record notification"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if h.Notify != nil {
		ev := queue.BookingEvent{
			Kind:          queue.KindConfirmed,
			BookingID:     booking.ID,
			TransactionID: booking.TransactionID,
			UserID:        userID,
			UserName:      info.UserName,
			UserEmail:     info.UserEmail,
			MobileNumber:  info.Mobile,
			MovieTitle:    info.MovieTitle,
			StartTime:     info.StartTime.UTC().Format(time.RFC3339),
			SeatLabels:    strings.Join(labels, ", "),
			TicketCount:   uint32(len(seatIDs)),
			TotalAmount:   total,
			OccurredAt:    time.Now().UTC().Format(time.RFC3339),
		}
		go h.Notify(ev)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "booking confirmed",
		"booking_id": booking.ID,
	})
}

// ListMyBookings handles GET /v1/events/my-bookings. Returns the caller's
// bookings, newest first, with seat labels aggregated per booking.
func (h *EventHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// CancelBooking handles DELETE /v1/events/bookings/:bookingId. The lookup
// is scoped to the calling user, so a booking owned by someone else is
// indistinguishable from a missing one. Tickets and booking are removed in
// one transaction together with the cancellation notification; the seats
// become available the instant the transaction commits.
func (h *EventHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	info, err := h.BookingRepo.GetCancelInfoTx(ctx, tx, bookingID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	if err := h.BookingRepo.DeleteTx(ctx, tx, bookingID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	msg := fmt.Sprintf("%s cancelled booking #%d for \"%s\" (Rs.%d refunded)",
		info.UserName, info.BookingID, info.MovieTitle, info.TotalAmount)
	if err := h.NotifRepo.InsertTx(ctx, tx, msg, repository.NotifyCancellation); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record notification"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if h.Notify != nil {
		ev := queue.BookingEvent{
			Kind:        queue.KindCancelled,
			BookingID:   info.BookingID,
			UserID:      userID,
			UserName:    info.UserName,
			UserEmail:   info.UserEmail,
			MovieTitle:  info.MovieTitle,
			TicketCount: info.TicketCount,
			TotalAmount: info.TotalAmount,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		}
		go h.Notify(ev)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

// PublishWith adapts a fire-and-forget publisher into a Notify hook. The
// booking has already committed when the hook runs, so publish errors are
// dropped; the publisher logs them itself.
func PublishWith(publish func(context.Context, queue.BookingEvent) error) func(queue.BookingEvent) {
	return func(ev queue.BookingEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = publish(ctx, ev)
	}
}
