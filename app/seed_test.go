// app/seed_test.go
package app

import (
	"database/sql"
	"go-atm/logger"
	"go-atm/repository"
	"go-atm/service"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newSeedApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &App{
		Database: db,
		Accounts: repository.NewAccountRepository(db),
		Verifier: service.PlainVerifier{},
	}, mock
}

func TestSeed_CreatesMissingAccounts(t *testing.T) {
	app, mock := newSeedApp(t)

	// Neither demo card exists yet, so both get created.
	mock.ExpectQuery("FROM accounts WHERE card_no").
		WithArgs("1234567890").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("1001", "Alice", "1234567890", "1111", int64(100000)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	mock.ExpectQuery("FROM accounts WHERE card_no").
		WithArgs("9876543210").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("1002", "Bob", "9876543210", "2222", int64(50000)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	assert.NoError(t, app.Seed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_SkipsExistingAccounts(t *testing.T) {
	app, mock := newSeedApp(t)

	columns := []string{"account_no", "name", "card_no", "pin", "balance", "blocked", "failed_attempts", "created_at"}

	// A rerun finds both cards and inserts nothing.
	mock.ExpectQuery("FROM accounts WHERE card_no").
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("1001", "Alice", "1234567890", "1111", int64(100000), false, 0, time.Now()))
	mock.ExpectQuery("FROM accounts WHERE card_no").
		WithArgs("9876543210").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("1002", "Bob", "9876543210", "2222", int64(50000), false, 0, time.Now()))

	assert.NoError(t, app.Seed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_PropagatesLookupErrors(t *testing.T) {
	app, mock := newSeedApp(t)

	mock.ExpectQuery("FROM accounts WHERE card_no").
		WithArgs("1234567890").
		WillReturnError(sql.ErrConnDone)

	assert.Error(t, app.Seed())
}
