// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-atm/audit"
	"go-atm/config"
	"go-atm/db"
	"go-atm/logger"
	"go-atm/repository"
	"go-atm/service"
	"go-atm/terminal"
	"os"
)

// App holds the wired layers of the machine.
type App struct {
	Database *sql.DB
	Trail    *audit.Trail
	Accounts repository.IAccountRepository
	Verifier service.CredentialVerifier
	Sessions *service.SessionService
	Engine   *service.TransactionEngine
}

// Bootstrap connects the stores and wires every layer together.
// Configuration and the logger must already be initialized. Callers own
// Close.
func Bootstrap() (*App, error) {
	database, err := db.Connect()
	if err != nil {
		return nil, err
	}

	trail, err := audit.New(config.AppConfig.Audit.LogFile)
	if err != nil {
		database.Close()
		return nil, err
	}

	// --- Wiring All Layers Together ---
	// Repositories own persistence, services own the rules, the terminal
	// owns the screen.

	accountRepo := repository.NewAccountRepository(database)
	cashRepo := repository.NewCashRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)

	cfg := config.AppConfig.ATM
	// The machine starts full: the pool row is created at capacity on the
	// first boot and left alone afterwards.
	if err := cashRepo.EnsurePool(cfg.CashCapacity); err != nil {
		trail.Close()
		database.Close()
		return nil, err
	}

	var cache *service.StatementCache
	if config.AppConfig.Redis.Enabled {
		redisClient, err := db.ConnectRedis()
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, statement caching disabled")
		} else {
			cache = service.NewStatementCache(redisClient)
		}
	}

	verifier := service.NewVerifier(cfg.PinScheme)
	sessions := service.NewSessionService(accountRepo, verifier, trail)
	engine := service.NewTransactionEngine(database, accountRepo, cashRepo, transactionRepo, verifier, trail, cache, service.Limits{
		CashCapacity:         cfg.CashCapacity,
		DailyWithdrawalLimit: cfg.DailyWithdrawalLimit,
		FastCashOptions:      cfg.FastCashOptions,
		MiniStatementCount:   cfg.MiniStatementCount,
	})

	return &App{
		Database: database,
		Trail:    trail,
		Accounts: accountRepo,
		Verifier: verifier,
		Sessions: sessions,
		Engine:   engine,
	}, nil
}

// Run starts the interactive terminal on stdin/stdout.
func (a *App) Run() error {
	t := terminal.New(os.Stdin, os.Stdout, a.Sessions, a.Engine, a.Trail)
	return t.Run(context.Background())
}

// RunAdmin starts the terminal directly in the operator menu.
func (a *App) RunAdmin() error {
	t := terminal.New(os.Stdin, os.Stdout, a.Sessions, a.Engine, a.Trail)
	return t.RunAdmin(context.Background())
}

// Close releases the audit trail and the database connection.
func (a *App) Close() {
	if a.Trail != nil {
		a.Trail.Close()
	}
	if a.Database != nil {
		a.Database.Close()
	}
}
