// repository/cash_repository_test.go
package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestEnsurePool_CreatesRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashRepository(db)

	mock.ExpectExec("INSERT INTO atm_cash").
		WithArgs(int64(200000)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.EnsurePool(200000)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsurePool_ExistingRowUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashRepository(db)

	// ON CONFLICT DO NOTHING affects zero rows on a restart.
	mock.ExpectExec("INSERT INTO atm_cash").
		WithArgs(int64(200000)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.EnsurePool(200000)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTotalCash_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashRepository(db)

	mock.ExpectQuery("SELECT total_cash FROM atm_cash WHERE id = 1").
		WillReturnRows(sqlmock.NewRows([]string{"total_cash"}).AddRow(int64(150000)))

	total, err := repo.GetTotalCash()
	assert.NoError(t, err)
	assert.Equal(t, int64(150000), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTotalCashForUpdate_LocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT total_cash FROM atm_cash WHERE id = 1 FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"total_cash"}).AddRow(int64(150000)))

	tx, err := db.Begin()
	assert.NoError(t, err)

	total, err := repo.GetTotalCashForUpdate(tx)
	assert.NoError(t, err)
	assert.Equal(t, int64(150000), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTotalCash_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewCashRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE atm_cash SET total_cash").
		WithArgs(int64(170000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	assert.NoError(t, err)

	err = repo.SetTotalCash(tx, 170000)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
