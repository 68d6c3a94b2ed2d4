package repository

import (
	"database/sql"
	"go-atm/logger"
	"go-atm/model"

	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
// Mutations outside an engine transaction are single-field and atomic;
// balance updates always happen inside a transaction under a row lock.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountByCardNo(cardNo string) (*model.Account, error)
	GetAccountByNo(accountNo string) (*model.Account, error)
	GetAccountForUpdate(tx *sql.Tx, accountNo string) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, accountNo string, newBalance int64) error
	SetFailedAttempts(accountNo string, attempts int) error
	SetBlocked(accountNo string, blocked bool) error
	SetPIN(accountNo string, pin string) error
}

// AccountRepository implements IAccountRepository.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// CreateAccount adds a new account to the database.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_no": account.AccountNo,
		"card_no":    account.CardNo,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (account_no, name, card_no, pin, balance) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.DB.QueryRow(query, account.AccountNo, account.Name, account.CardNo, account.PIN, account.Balance).Scan(&account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountByCardNo resolves the card inserted into the machine to its
// account record.
func (r *AccountRepository) GetAccountByCardNo(cardNo string) (*model.Account, error) {
	log := logger.Log.WithField("card_no", cardNo)
	log.Info("Executing query to get account by card number")

	account := &model.Account{}
	query := `SELECT account_no, name, card_no, pin, balance, blocked, failed_attempts, created_at FROM accounts WHERE card_no = $1`
	err := r.DB.QueryRow(query, cardNo).Scan(&account.AccountNo, &account.Name, &account.CardNo, &account.PIN, &account.Balance, &account.Blocked, &account.FailedAttempts, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("No account for card number")
		} else {
			log.WithError(err).Error("Failed to execute get account by card number query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByNo retrieves an account by its account number.
func (r *AccountRepository) GetAccountByNo(accountNo string) (*model.Account, error) {
	log := logger.Log.WithField("account_no", accountNo)
	log.Info("Executing query to get account by account number")

	account := &model.Account{}
	query := `SELECT account_no, name, card_no, pin, balance, blocked, failed_attempts, created_at FROM accounts WHERE account_no = $1`
	err := r.DB.QueryRow(query, accountNo).Scan(&account.AccountNo, &account.Name, &account.CardNo, &account.PIN, &account.Balance, &account.Blocked, &account.FailedAttempts, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found")
		} else {
			log.WithError(err).Error("Failed to execute get account by account number query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, accountNo string) (*model.Account, error) {
	log := logger.Log.WithField("account_no", accountNo)
	log.Info("Executing query to get account for update")

	account := &model.Account{}
	query := `SELECT account_no, name, card_no, pin, balance, blocked, failed_attempts FROM accounts WHERE account_no = $1 FOR UPDATE`
	err := tx.QueryRow(query, accountNo).Scan(&account.AccountNo, &account.Name, &account.CardNo, &account.PIN, &account.Balance, &account.Blocked, &account.FailedAttempts)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, accountNo string, newBalance int64) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_no":  accountNo,
		"new_balance": newBalance,
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1 WHERE account_no = $2`
	_, err := tx.Exec(query, newBalance, accountNo)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}

// SetFailedAttempts persists the consecutive failed-PIN counter.
func (r *AccountRepository) SetFailedAttempts(accountNo string, attempts int) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_no": accountNo,
		"attempts":   attempts,
	})
	log.Info("Executing query to set failed attempts")

	query := `UPDATE accounts SET failed_attempts = $1 WHERE account_no = $2`
	_, err := r.DB.Exec(query, attempts, accountNo)
	if err != nil {
		log.WithError(err).Error("Failed to execute set failed attempts query")
		return err
	}
	return nil
}

// SetBlocked persists the blocked flag.
func (r *AccountRepository) SetBlocked(accountNo string, blocked bool) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_no": accountNo,
		"blocked":    blocked,
	})
	log.Info("Executing query to set blocked flag")

	query := `UPDATE accounts SET blocked = $1 WHERE account_no = $2`
	_, err := r.DB.Exec(query, blocked, accountNo)
	if err != nil {
		log.WithError(err).Error("Failed to execute set blocked flag query")
		return err
	}
	return nil
}

// SetPIN persists a new credential for the account.
func (r *AccountRepository) SetPIN(accountNo string, pin string) error {
	log := logger.Log.WithField("account_no", accountNo)
	log.Info("Executing query to set PIN")

	query := `UPDATE accounts SET pin = $1 WHERE account_no = $2`
	_, err := r.DB.Exec(query, pin, accountNo)
	if err != nil {
		log.WithError(err).Error("Failed to execute set PIN query")
		return err
	}
	return nil
}
