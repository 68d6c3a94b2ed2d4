package repository

import (
	"database/sql"
	"go-atm/logger"
	"go-atm/model"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for ledger database operations.
// Ledger rows are append-only: written inside an engine transaction, never
// updated or deleted.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error
	GetRecentByAccountNo(accountNo string, limit int) ([]*model.Transaction, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_no": transaction.AccountNo,
		"kind":       transaction.Kind,
		"amount":     transaction.Amount,
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions (reference, account_no, kind, amount, detail) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := tx.QueryRow(query, transaction.Reference, transaction.AccountNo, transaction.Kind, transaction.Amount, transaction.Detail).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

// GetRecentByAccountNo retrieves the newest ledger entries for an account,
// newest first, bounded by limit.
func (r *TransactionRepository) GetRecentByAccountNo(accountNo string, limit int) ([]*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_no": accountNo,
		"limit":      limit,
	})
	log.Info("Executing query to get recent transactions")

	query := `
		SELECT id, reference, account_no, kind, amount, detail, created_at
		FROM transactions
		WHERE account_no = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.DB.Query(query, accountNo, limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for recent transactions")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.Reference, &t.AccountNo, &t.Kind, &t.Amount, &t.Detail, &t.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		log.WithError(err).Error("Failed to iterate transaction rows")
		return nil, err
	}

	return transactions, nil
}
