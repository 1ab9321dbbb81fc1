package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertTicketsTxSeatConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	repo := NewBookingRepo(db)
	err = repo.InsertTicketsTx(ctx, tx, 1, 2, []uint64{10, 11})
	assert.ErrorIs(t, err, ErrSeatTaken)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCancelInfoTxScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// No row for (booking, user): either the booking does not exist or it
	// belongs to someone else. Both must look identical to the caller.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT b.booking_id, b.total_amount").
		WithArgs(uint64(42), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "total_amount", "user_name", "user_email", "title", "count"}))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	repo := NewBookingRepo(db)
	_, err = repo.GetCancelInfoTx(ctx, tx, 42, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascadeChildrenFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tickets WHERE booking_id").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM bookings WHERE booking_id").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewBookingRepo(db)
	require.NoError(t, repo.DeleteCascade(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascadeMissingBookingRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tickets WHERE booking_id").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM bookings WHERE booking_id").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	err = repo.DeleteCascade(context.Background(), 9)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
