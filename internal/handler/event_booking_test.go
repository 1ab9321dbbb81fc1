package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyateke/MovieBooking/internal/repository"
)

func newEventHandler(db *sql.DB) *EventHandler {
	return NewEventHandler(
		repository.NewMovieRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewScreenRepo(db),
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
		repository.NewNotificationRepo(db),
		nil, // no event publishing in tests
	)
}

func jsonRequest(method, target, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	return c, rec
}

func expectShowtimeLookup(mock sqlmock.Sqlmock, showtimeID, screenID uint64) {
	start := time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT showtime_id, movie_id, screen_id, start_time").
		WithArgs(showtimeID).
		WillReturnRows(sqlmock.NewRows([]string{
			"showtime_id", "movie_id", "screen_id", "start_time",
			"price_classic", "price_prime", "price_recliner", "price_premium",
		}).AddRow(showtimeID, 1, screenID, start, 200, 350, 550, 870))
}

func TestBookTicketsHappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectShowtimeLookup(mock, 5, 3)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_id, screen_id, seat_row, seat_number, seat_type").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "screen_id", "seat_row", "seat_number", "seat_type"}).
			AddRow(10, 3, "C", 1, repository.TierPrime).
			AddRow(11, 3, "J", 2, repository.TierPremiumRecliner))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectQuery("SELECT m.title, st.start_time").
		WillReturnRows(sqlmock.NewRows([]string{"title", "start_time", "user_name", "user_email", "mobile_number"}).
			AddRow("Inception", time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC), "Asha", "asha@example.com", "9999999999"))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodPost, "/v1/events/book",
		`{"showtime_id":5,"seat_ids":[10,11],"card_holder":"Asha","card_number":"4111 1111 1111 1234"}`, 7)

	require.NoError(t, h.BookTickets(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"booking_id":55`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsSeatConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectShowtimeLookup(mock, 5, 3)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_id, screen_id, seat_row, seat_number, seat_type").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "screen_id", "seat_row", "seat_number", "seat_type"}).
			AddRow(10, 3, "C", 1, repository.TierPrime))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(56, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodPost, "/v1/events/book", `{"showtime_id":5,"seat_ids":[10]}`, 7)

	require.NoError(t, h.BookTickets(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsRejectsEmptySeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := newEventHandler(db)

	for _, body := range []string{
		`{"showtime_id":5,"seat_ids":[]}`,
		`{"seat_ids":[1]}`,
		`{"showtime_id":5}`,
	} {
		c, rec := jsonRequest(http.MethodPost, "/v1/events/book", body, 7)
		require.NoError(t, h.BookTickets(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
	// No database traffic for rejected payloads.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsRejectsStaleTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectShowtimeLookup(mock, 5, 3)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_id, screen_id, seat_row, seat_number, seat_type").
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "screen_id", "seat_row", "seat_number", "seat_type"}).
			AddRow(10, 3, "C", 1, repository.TierPrime))
	mock.ExpectRollback()

	h := newEventHandler(db)
	// Client priced the prime seat at an outdated 300 instead of 350.
	c, rec := jsonRequest(http.MethodPost, "/v1/events/book",
		`{"showtime_id":5,"seat_ids":[10],"total_amount":300}`, 7)

	require.NoError(t, h.BookTickets(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTicketsUnknownShowtime(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT showtime_id, movie_id, screen_id, start_time").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodPost, "/v1/events/book", `{"showtime_id":99,"seat_ids":[1]}`, 7)

	require.NoError(t, h.BookTickets(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingNotOwnedIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT b.booking_id, b.total_amount").
		WithArgs(uint64(42), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "total_amount", "user_name", "user_email", "title", "count"}))
	mock.ExpectRollback()

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodDelete, "/v1/events/bookings/42", "", 7)
	c.SetParamNames("bookingId")
	c.SetParamValues("42")

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingHappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT b.booking_id, b.total_amount").
		WithArgs(uint64(42), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "total_amount", "user_name", "user_email", "title", "count"}).
			AddRow(42, 700, "Asha", "asha@example.com", "Inception", 2))
	mock.ExpectExec("DELETE FROM tickets WHERE booking_id").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM bookings WHERE booking_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodDelete, "/v1/events/bookings/42", "", 7)
	c.SetParamNames("bookingId")
	c.SetParamValues("42")

	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
