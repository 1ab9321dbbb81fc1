package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyateke/MovieBooking/internal/repository"
)

func TestGetSeatsUnknownShowtime(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT showtime_id, movie_id, screen_id, start_time").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"showtime_id", "movie_id", "screen_id", "start_time",
			"price_classic", "price_prime", "price_recliner", "price_premium",
		}))

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodGet, "/v1/events/seats/99", "", 7)
	c.SetParamNames("showtimeId")
	c.SetParamValues("99")

	require.NoError(t, h.GetSeats(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSeatsProjection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectShowtimeLookup(mock, 5, 3)
	mock.ExpectQuery("SELECT s.seat_id, s.seat_row, s.seat_number, s.seat_type").
		WithArgs(uint64(5), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "seat_row", "seat_number", "seat_type", "status"}).
			AddRow(1, "A", 1, repository.TierClassic, "available").
			AddRow(2, "A", 2, repository.TierClassic, "booked"))

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodGet, "/v1/events/seats/5", "", 7)
	c.SetParamNames("showtimeId")
	c.SetParamValues("5")

	require.NoError(t, h.GetSeats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"status":"booked"`)
	assert.Contains(t, body, `"status":"available"`)
	assert.Contains(t, body, `"premium_recliner":870`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSeatsInvalidID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := newEventHandler(db)
	c, rec := jsonRequest(http.MethodGet, "/v1/events/seats/abc", "", 7)
	c.SetParamNames("showtimeId")
	c.SetParamValues("abc")

	require.NoError(t, h.GetSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
