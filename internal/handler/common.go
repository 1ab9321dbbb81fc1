// Package handler contains the HTTP handlers. Handlers own transaction
// boundaries for multi-step mutations: begin on the repo's DB handle, pass
// the tx into repository ...Tx methods, commit at the end, and roll back on
// any earlier return.
package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Chaitanyateke/MovieBooking/internal/queue"
	"github.com/Chaitanyateke/MovieBooking/internal/repository"
	"github.com/labstack/echo/v4"
)

// validate is the shared request validator. Request bodies are typed
// structs checked once at the boundary; handlers never inspect raw maps.
var validate = validator.New()

// EventHandler serves the customer-facing browsing and booking endpoints.
// JWT authentication and role checks happen in middleware before any of
// these methods run.
type EventHandler struct {
	MovieRepo    *repository.MovieRepo
	ShowtimeRepo *repository.ShowtimeRepo
	ScreenRepo   *repository.ScreenRepo
	SeatRepo     *repository.SeatRepo
	BookingRepo  *repository.BookingRepo
	NotifRepo    *repository.NotificationRepo

	// Notify publishes a booking event after commit. Nil disables
	// publishing, which tests rely on.
	Notify func(queue.BookingEvent)
}

// NewEventHandler constructs an EventHandler. All repositories must be
// non-nil; notify may be nil to disable event publishing.
func NewEventHandler(movieRepo *repository.MovieRepo, showtimeRepo *repository.ShowtimeRepo, screenRepo *repository.ScreenRepo, seatRepo *repository.SeatRepo, bookingRepo *repository.BookingRepo, notifRepo *repository.NotificationRepo, notify func(queue.BookingEvent)) *EventHandler {
	if movieRepo == nil || showtimeRepo == nil || screenRepo == nil || seatRepo == nil || bookingRepo == nil || notifRepo == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{
		MovieRepo:    movieRepo,
		ShowtimeRepo: showtimeRepo,
		ScreenRepo:   screenRepo,
		SeatRepo:     seatRepo,
		BookingRepo:  bookingRepo,
		NotifRepo:    notifRepo,
		Notify:       notify,
	}
}

// AdminHandler serves the admin console: catalog management, showtime
// registry, user administration and the operational overviews.
type AdminHandler struct {
	MovieRepo    *repository.MovieRepo
	CinemaRepo   *repository.CinemaRepo
	ScreenRepo   *repository.ScreenRepo
	SeatRepo     *repository.SeatRepo
	ShowtimeRepo *repository.ShowtimeRepo
	UserRepo     *repository.UserRepo
	BookingRepo  *repository.BookingRepo
	NotifRepo    *repository.NotificationRepo

	// ShowtimeFutureOnly rejects showtimes scheduled in the past when set.
	ShowtimeFutureOnly bool
}

// NewAdminHandler constructs an AdminHandler and panics if any repository
// is nil.
func NewAdminHandler(movieRepo *repository.MovieRepo, cinemaRepo *repository.CinemaRepo, screenRepo *repository.ScreenRepo, seatRepo *repository.SeatRepo, showtimeRepo *repository.ShowtimeRepo, userRepo *repository.UserRepo, bookingRepo *repository.BookingRepo, notifRepo *repository.NotificationRepo, showtimeFutureOnly bool) *AdminHandler {
	if movieRepo == nil || cinemaRepo == nil || screenRepo == nil || seatRepo == nil || showtimeRepo == nil || userRepo == nil || bookingRepo == nil || notifRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		MovieRepo:          movieRepo,
		CinemaRepo:         cinemaRepo,
		ScreenRepo:         screenRepo,
		SeatRepo:           seatRepo,
		ShowtimeRepo:       showtimeRepo,
		UserRepo:           userRepo,
		BookingRepo:        bookingRepo,
		NotifRepo:          notifRepo,
		ShowtimeFutureOnly: showtimeFutureOnly,
	}
}

// getUserID extracts the authenticated user's ID from the echo context,
// tolerating the numeric representations different JWT claim decoders
// produce.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// maskCard reduces a card number to its display mask, keeping the last
// four digits. An empty card number means a cash payment.
func maskCard(cardNumber string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cardNumber)
	if len(digits) < 4 {
		return "CASH"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}
