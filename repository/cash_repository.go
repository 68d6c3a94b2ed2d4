package repository

import (
	"database/sql"
	"go-atm/logger"
)

// ICashRepository defines the contract for the machine's cash pool, a single
// shared counter persisted as the one-row atm_cash table.
type ICashRepository interface {
	EnsurePool(initial int64) error
	GetTotalCash() (int64, error)
	GetTotalCashForUpdate(tx *sql.Tx) (int64, error)
	SetTotalCash(tx *sql.Tx, total int64) error
}

// CashRepository implements ICashRepository.
type CashRepository struct {
	DB *sql.DB
}

func NewCashRepository(db *sql.DB) *CashRepository {
	return &CashRepository{DB: db}
}

// EnsurePool creates the pool row with the given initial total if it does
// not exist yet. An existing pool is left untouched.
func (r *CashRepository) EnsurePool(initial int64) error {
	log := logger.Log.WithField("initial", initial)
	log.Info("Executing query to ensure cash pool row")

	query := `INSERT INTO atm_cash (id, total_cash) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`
	_, err := r.DB.Exec(query, initial)
	if err != nil {
		log.WithError(err).Error("Failed to execute ensure cash pool query")
		return err
	}
	return nil
}

// GetTotalCash reads the current pool total.
func (r *CashRepository) GetTotalCash() (int64, error) {
	log := logger.Log
	log.Info("Executing query to get total cash")

	var total int64
	query := `SELECT total_cash FROM atm_cash WHERE id = 1`
	err := r.DB.QueryRow(query).Scan(&total)
	if err != nil {
		log.WithError(err).Error("Failed to execute get total cash query")
		return 0, err
	}
	return total, nil
}

// GetTotalCashForUpdate reads and locks the pool row inside a transaction.
func (r *CashRepository) GetTotalCashForUpdate(tx *sql.Tx) (int64, error) {
	log := logger.Log
	log.Info("Executing query to get total cash for update")

	var total int64
	query := `SELECT total_cash FROM atm_cash WHERE id = 1 FOR UPDATE`
	err := tx.QueryRow(query).Scan(&total)
	if err != nil {
		log.WithError(err).Error("Failed to execute get total cash for update query")
		return 0, err
	}
	return total, nil
}

func (r *CashRepository) SetTotalCash(tx *sql.Tx, total int64) error {
	log := logger.Log.WithField("total", total)
	log.Info("Executing query to set total cash")

	query := `UPDATE atm_cash SET total_cash = $1 WHERE id = 1`
	_, err := tx.Exec(query, total)
	if err != nil {
		log.WithError(err).Error("Failed to execute set total cash query")
		return err
	}
	return nil
}
