package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForRow(t *testing.T) {
	cases := map[string]string{
		"A": TierClassic,
		"B": TierClassic,
		"C": TierPrime,
		"F": TierPrime,
		"G": TierRecliner,
		"I": TierRecliner,
		"J": TierPremiumRecliner,
		"K": "",
		"":  "",
	}
	for row, want := range cases {
		assert.Equal(t, want, TierForRow(row), "row %q", row)
	}
}

func TestLayoutRowsCoversFullGrid(t *testing.T) {
	grid := LayoutRows()
	require.Len(t, grid, 100)

	perTier := map[string]int{}
	perRow := map[string]int{}
	for _, s := range grid {
		perTier[s.Tier]++
		perRow[s.Row]++
		assert.Equal(t, TierForRow(s.Row), s.Tier)
		assert.GreaterOrEqual(t, s.Number, uint32(1))
		assert.LessOrEqual(t, s.Number, uint32(SeatsPerRow))
	}
	assert.Equal(t, 20, perTier[TierClassic])
	assert.Equal(t, 40, perTier[TierPrime])
	assert.Equal(t, 30, perTier[TierRecliner])
	assert.Equal(t, 10, perTier[TierPremiumRecliner])
	for row, n := range perRow {
		assert.Equal(t, SeatsPerRow, n, "row %q", row)
	}
}

func TestGenerateLayoutTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT IGNORE INTO seats").
		WillReturnResult(sqlmock.NewResult(1, 100))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	repo := NewSeatRepo(db)
	require.NoError(t, repo.GenerateLayoutTx(ctx, tx, 7))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailabilityProjection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"seat_id", "seat_row", "seat_number", "seat_type", "status"}).
		AddRow(1, "A", 1, TierClassic, "available").
		AddRow(2, "A", 2, TierClassic, "booked").
		AddRow(91, "J", 1, TierPremiumRecliner, "available")
	mock.ExpectQuery("SELECT s.seat_id, s.seat_row, s.seat_number, s.seat_type").
		WithArgs(uint64(5), uint64(3)).
		WillReturnRows(rows)

	repo := NewSeatRepo(db)
	seats, err := repo.ListAvailability(context.Background(), 5, 3)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, "booked", seats[1].Status)
	assert.Equal(t, "available", seats[0].Status)
	assert.Equal(t, TierPremiumRecliner, seats[2].Tier)
	assert.NoError(t, mock.ExpectationsWereMet())
}
