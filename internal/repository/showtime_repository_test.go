package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceForTier(t *testing.T) {
	st := &Showtime{
		PriceClassic:  200,
		PricePrime:    350,
		PriceRecliner: 550,
		PricePremium:  870,
	}
	assert.Equal(t, uint32(200), st.PriceForTier(TierClassic))
	assert.Equal(t, uint32(350), st.PriceForTier(TierPrime))
	assert.Equal(t, uint32(550), st.PriceForTier(TierRecliner))
	assert.Equal(t, uint32(870), st.PriceForTier(TierPremiumRecliner))
	assert.Equal(t, uint32(0), st.PriceForTier("balcony"))
}

func TestShowtimeDeleteCascadeOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tickets WHERE showtime_id").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM bookings WHERE showtime_id").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM showtimes WHERE showtime_id").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewShowtimeRepo(db)
	require.NoError(t, repo.DeleteCascade(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUpcomingByMovie(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT st.showtime_id, st.start_time").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"showtime_id", "start_time", "screen_number", "name", "location",
			"price_classic", "price_prime", "price_recliner", "price_premium",
		}).AddRow(5, start, 2, "PVR", "Pune", 200, 350, 550, 870))

	repo := NewShowtimeRepo(db)
	out, err := repo.ListUpcomingByMovie(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(5), out[0].ShowtimeID)
	assert.Equal(t, "PVR", out[0].CinemaName)
	assert.True(t, out[0].StartTime.Equal(start))
	assert.NoError(t, mock.ExpectationsWereMet())
}
