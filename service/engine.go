package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-atm/audit"
	"go-atm/common"
	"go-atm/logger"
	"go-atm/model"
	"go-atm/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoActiveSession      = errors.New("no authenticated session")
	ErrInvalidAmount        = errors.New("amount must be a positive number")
	ErrInsufficientFunds    = errors.New("insufficient funds in account")
	ErrLimitExceeded        = errors.New("amount exceeds the withdrawal limit")
	ErrPoolExhausted        = errors.New("machine cannot dispense this amount")
	ErrPoolCapacityExceeded = errors.New("machine cash capacity exceeded")
	ErrTargetNotFound       = errors.New("target account not found")
	ErrSameAccountTransfer  = errors.New("cannot transfer to the same account")
	ErrInvalidOption        = errors.New("invalid fast cash option")
	ErrAuthenticationFailed = errors.New("current PIN is incorrect")
	ErrPinMismatch          = errors.New("new PIN and confirmation do not match")
)

// Limits carries the machine's operating parameters. The withdrawal limit is
// enforced per call, not per calendar day, despite its configured name; there
// is no day tracking in this engine.
type Limits struct {
	CashCapacity         int64
	DailyWithdrawalLimit int64
	FastCashOptions      []int64
	MiniStatementCount   int
}

// TransactionEngine executes every money movement as a single database
// transaction: row locks on the touched account(s) and, for cash operations,
// the pool row, ordered validations, balance and pool updates, ledger
// append, commit. A failed validation rolls back with no state touched.
type TransactionEngine struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	cashRepo        repository.ICashRepository
	transactionRepo repository.ITransactionRepository
	verifier        CredentialVerifier
	trail           *audit.Trail
	cache           *StatementCache
	limits          Limits
}

func NewTransactionEngine(db *sql.DB, accountRepo repository.IAccountRepository, cashRepo repository.ICashRepository, transactionRepo repository.ITransactionRepository, verifier CredentialVerifier, trail *audit.Trail, cache *StatementCache, limits Limits) *TransactionEngine {
	return &TransactionEngine{
		db:              db,
		accountRepo:     accountRepo,
		cashRepo:        cashRepo,
		transactionRepo: transactionRepo,
		verifier:        verifier,
		trail:           trail,
		cache:           cache,
		limits:          limits,
	}
}

// FastCashOptions returns the preset amounts the machine offers, in menu
// order.
func (s *TransactionEngine) FastCashOptions() []int64 {
	return append([]int64(nil), s.limits.FastCashOptions...)
}

// Withdraw dispenses cash from the account. Checks run in order: amount,
// funds, withdrawal limit, machine cash. Returns the new balance.
func (s *TransactionEngine) Withdraw(ctx context.Context, account *model.Account, req model.WithdrawRequest) (int64, error) {
	if account == nil {
		return 0, ErrNoActiveSession
	}
	if err := common.ValidateStruct(req); err != nil {
		return 0, ErrInvalidAmount
	}

	return s.dispense(ctx, account, req.Amount, model.KindWithdraw, "Cash withdrawal")
}

// FastCash dispenses one of the preset amounts. The option is the 1-based
// index shown on the menu; anything outside the configured set fails with
// ErrInvalidOption before any state is touched.
func (s *TransactionEngine) FastCash(ctx context.Context, account *model.Account, option int) (int64, error) {
	if account == nil {
		return 0, ErrNoActiveSession
	}
	if option < 1 || option > len(s.limits.FastCashOptions) {
		return 0, ErrInvalidOption
	}

	amount := s.limits.FastCashOptions[option-1]
	return s.dispense(ctx, account, amount, model.KindFastCash, "Fast cash")
}

// dispense is the shared withdrawal path for Withdraw and FastCash.
func (s *TransactionEngine) dispense(ctx context.Context, account *model.Account, amount int64, kind model.TransactionKind, detail string) (int64, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_no": account.AccountNo,
		"amount":     amount,
		"kind":       kind,
	})
	log.Info("Starting cash withdrawal")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	current, err := s.accountRepo.GetAccountForUpdate(tx, account.AccountNo)
	if err != nil {
		return 0, err
	}
	if amount > current.Balance {
		return 0, ErrInsufficientFunds
	}
	if amount > s.limits.DailyWithdrawalLimit {
		return 0, ErrLimitExceeded
	}

	totalCash, err := s.cashRepo.GetTotalCashForUpdate(tx)
	if err != nil {
		return 0, err
	}
	if amount > totalCash {
		return 0, ErrPoolExhausted
	}

	newBalance := current.Balance - amount
	if err := s.accountRepo.UpdateAccountBalance(tx, account.AccountNo, newBalance); err != nil {
		return 0, fmt.Errorf("could not update account balance: %w", err)
	}
	if err := s.cashRepo.SetTotalCash(tx, totalCash-amount); err != nil {
		return 0, fmt.Errorf("could not update cash pool: %w", err)
	}

	transaction := &model.Transaction{
		Reference: model.NewReference(),
		AccountNo: account.AccountNo,
		Kind:      kind,
		Amount:    amount,
		Detail:    detail,
	}
	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return 0, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}

	account.Balance = newBalance
	s.trail.Movement(account.AccountNo, kind, amount, detail)
	s.cache.Invalidate(ctx, account.AccountNo)

	log.Info("Withdrawal completed successfully")
	return newBalance, nil
}

// Deposit accepts cash into the account. The machine refuses a deposit that
// would push its cash holding over capacity. Returns the new balance.
// Deposits are not subject to the withdrawal limit.
func (s *TransactionEngine) Deposit(ctx context.Context, account *model.Account, req model.DepositRequest) (int64, error) {
	if account == nil {
		return 0, ErrNoActiveSession
	}
	if err := common.ValidateStruct(req); err != nil {
		return 0, ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"account_no": account.AccountNo,
		"amount":     req.Amount,
	})
	log.Info("Starting cash deposit")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := s.accountRepo.GetAccountForUpdate(tx, account.AccountNo)
	if err != nil {
		return 0, err
	}

	totalCash, err := s.cashRepo.GetTotalCashForUpdate(tx)
	if err != nil {
		return 0, err
	}
	// totalCash+req.Amount can wrap for amounts near MaxInt64.
	if req.Amount > s.limits.CashCapacity-totalCash {
		return 0, ErrPoolCapacityExceeded
	}

	newBalance := current.Balance + req.Amount
	if err := s.accountRepo.UpdateAccountBalance(tx, account.AccountNo, newBalance); err != nil {
		return 0, fmt.Errorf("could not update account balance: %w", err)
	}
	if err := s.cashRepo.SetTotalCash(tx, totalCash+req.Amount); err != nil {
		return 0, fmt.Errorf("could not update cash pool: %w", err)
	}

	transaction := &model.Transaction{
		Reference: model.NewReference(),
		AccountNo: account.AccountNo,
		Kind:      model.KindDeposit,
		Amount:    req.Amount,
		Detail:    "Cash deposit",
	}
	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return 0, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}

	account.Balance = newBalance
	s.trail.Movement(account.AccountNo, model.KindDeposit, req.Amount, "Cash deposit")
	s.cache.Invalidate(ctx, account.AccountNo)

	log.Info("Deposit completed successfully")
	return newBalance, nil
}

// Transfer moves book balance from the session account to another account.
// The target is resolved before the amount is validated. No physical cash
// moves, so the pool and the withdrawal limit play no part here. Two ledger
// entries record the movement, one per side. Returns the new source balance.
func (s *TransactionEngine) Transfer(ctx context.Context, account *model.Account, req model.TransferRequest) (int64, error) {
	if account == nil {
		return 0, ErrNoActiveSession
	}

	log := logger.Log.WithFields(logrus.Fields{
		"source_account": account.AccountNo,
		"target_account": req.TargetAccountNo,
		"amount":         req.Amount,
	})
	log.Info("Starting funds transfer")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	target, err := s.accountRepo.GetAccountByNo(req.TargetAccountNo)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrTargetNotFound
		}
		return 0, err
	}
	if target.AccountNo == account.AccountNo {
		return 0, ErrSameAccountTransfer
	}
	if err := common.ValidateStruct(req); err != nil {
		return 0, ErrInvalidAmount
	}

	source, err := s.accountRepo.GetAccountForUpdate(tx, account.AccountNo)
	if err != nil {
		return 0, err
	}
	if req.Amount > source.Balance {
		return 0, ErrInsufficientFunds
	}

	locked, err := s.accountRepo.GetAccountForUpdate(tx, target.AccountNo)
	if err != nil {
		return 0, err
	}

	newBalance := source.Balance - req.Amount
	if err := s.accountRepo.UpdateAccountBalance(tx, source.AccountNo, newBalance); err != nil {
		return 0, fmt.Errorf("could not update source balance: %w", err)
	}
	if err := s.accountRepo.UpdateAccountBalance(tx, locked.AccountNo, locked.Balance+req.Amount); err != nil {
		return 0, fmt.Errorf("could not update target balance: %w", err)
	}

	out := &model.Transaction{
		Reference: model.NewReference(),
		AccountNo: account.AccountNo,
		Kind:      model.KindTransferOut,
		Amount:    req.Amount,
		Detail:    "To " + locked.AccountNo,
	}
	if err := s.transactionRepo.CreateTransaction(tx, out); err != nil {
		return 0, fmt.Errorf("could not create transaction record: %w", err)
	}

	in := &model.Transaction{
		Reference: model.NewReference(),
		AccountNo: locked.AccountNo,
		Kind:      model.KindTransferIn,
		Amount:    req.Amount,
		Detail:    "From " + account.AccountNo,
	}
	if err := s.transactionRepo.CreateTransaction(tx, in); err != nil {
		return 0, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}

	account.Balance = newBalance
	s.trail.Movement(account.AccountNo, model.KindTransferOut, req.Amount, out.Detail)
	s.trail.Movement(locked.AccountNo, model.KindTransferIn, req.Amount, in.Detail)
	s.cache.Invalidate(ctx, account.AccountNo, locked.AccountNo)

	log.Info("Transfer completed successfully")
	return newBalance, nil
}

// LoadCash tops up the machine's cash pool. It is an operator action with no
// account session: it touches no account, writes no ledger entry, and is
// recorded on the audit trail only. Returns the new pool total.
func (s *TransactionEngine) LoadCash(ctx context.Context, req model.LoadCashRequest) (int64, error) {
	if err := common.ValidateStruct(req); err != nil {
		return 0, ErrInvalidAmount
	}

	log := logger.Log.WithField("amount", req.Amount)
	log.Info("Starting cash load")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	totalCash, err := s.cashRepo.GetTotalCashForUpdate(tx)
	if err != nil {
		return 0, err
	}
	// totalCash+req.Amount can wrap for amounts near MaxInt64.
	if req.Amount > s.limits.CashCapacity-totalCash {
		return 0, ErrPoolCapacityExceeded
	}

	newTotal := totalCash + req.Amount
	if err := s.cashRepo.SetTotalCash(tx, newTotal); err != nil {
		return 0, fmt.Errorf("could not update cash pool: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.trail.Event("Operator loaded %d, machine now holds %d", req.Amount, newTotal)
	log.Info("Cash load completed successfully")
	return newTotal, nil
}

// ChangePin re-verifies the current PIN, checks the confirmation and
// persists the new credential. The failed-attempt counter is unrelated state
// and stays untouched; no ledger entry is written.
func (s *TransactionEngine) ChangePin(ctx context.Context, account *model.Account, currentPin, newPin, confirmPin string) error {
	if account == nil {
		return ErrNoActiveSession
	}
	if !s.verifier.Verify(currentPin, account.PIN) {
		return ErrAuthenticationFailed
	}
	if newPin != confirmPin {
		return ErrPinMismatch
	}

	encoded, err := s.verifier.Encode(newPin)
	if err != nil {
		return fmt.Errorf("could not encode new PIN: %w", err)
	}
	if err := s.accountRepo.SetPIN(account.AccountNo, encoded); err != nil {
		return err
	}

	account.PIN = encoded
	s.trail.Event("Account %s changed its PIN", account.AccountNo)
	logger.Log.WithField("account_no", account.AccountNo).Info("PIN changed")
	return nil
}

// MiniStatement returns the newest ledger entries for the account, newest
// first, bounded by the configured count. Reads never mutate state.
func (s *TransactionEngine) MiniStatement(ctx context.Context, account *model.Account) ([]*model.Transaction, error) {
	if account == nil {
		return nil, ErrNoActiveSession
	}

	if cached, ok := s.cache.Get(ctx, account.AccountNo); ok {
		return cached, nil
	}

	transactions, err := s.transactionRepo.GetRecentByAccountNo(account.AccountNo, s.limits.MiniStatementCount)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, account.AccountNo, transactions)
	return transactions, nil
}

// Balance reads the current balance from the store and refreshes the
// session's account handle with it.
func (s *TransactionEngine) Balance(ctx context.Context, account *model.Account) (int64, error) {
	if account == nil {
		return 0, ErrNoActiveSession
	}

	current, err := s.accountRepo.GetAccountByNo(account.AccountNo)
	if err != nil {
		return 0, err
	}

	account.Balance = current.Balance
	return current.Balance, nil
}

// PoolTotal reads the machine's current cash holding.
func (s *TransactionEngine) PoolTotal(ctx context.Context) (int64, error) {
	return s.cashRepo.GetTotalCash()
}
