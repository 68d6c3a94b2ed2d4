package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-atm/audit"
	"go-atm/logger"
	"go-atm/model"
	"go-atm/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrCardNotFound  = errors.New("card not recognized")
	ErrCardBlocked   = errors.New("card is blocked, please contact your branch")
	ErrAuthExhausted = errors.New("card blocked after 3 failed attempts")
)

// maxPinAttempts is how many PIN submissions one session allows. It is a
// rule of the machine, not configuration.
const maxPinAttempts = 3

// PinPrompt supplies one PIN submission. It is called with the 1-based
// attempt number, so the caller can warn the user after a miss.
type PinPrompt func(attempt int) (string, error)

// SessionService authenticates a card and enforces the lockout policy. The
// failed-attempt counter and the blocked flag are persisted on every
// mismatch, so an interrupted session leaves correct state behind.
type SessionService struct {
	accountRepo repository.IAccountRepository
	verifier    CredentialVerifier
	trail       *audit.Trail
}

func NewSessionService(accountRepo repository.IAccountRepository, verifier CredentialVerifier, trail *audit.Trail) *SessionService {
	return &SessionService{
		accountRepo: accountRepo,
		verifier:    verifier,
		trail:       trail,
	}
}

// Authenticate resolves the card and verifies up to three PIN submissions.
// It returns the account on success; ErrCardNotFound, ErrCardBlocked and
// ErrAuthExhausted are terminal outcomes. A prompt failure aborts the
// session and is returned as-is, wrapped.
func (s *SessionService) Authenticate(ctx context.Context, cardNo string, prompt PinPrompt) (*model.Account, error) {
	log := logger.Log.WithField("card_no", cardNo)
	log.Info("Starting card authentication")

	account, err := s.accountRepo.GetAccountByCardNo(cardNo)
	if err != nil {
		if err == sql.ErrNoRows {
			s.trail.Event("Login attempt with unknown card %s", cardNo)
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if account.Blocked {
		log.Warn("Login attempt on blocked card")
		s.trail.Event("Login attempt on blocked card for account %s", account.AccountNo)
		return nil, ErrCardBlocked
	}

	for attempt := 1; attempt <= maxPinAttempts; attempt++ {
		pin, err := prompt(attempt)
		if err != nil {
			return nil, fmt.Errorf("could not read PIN: %w", err)
		}

		if s.verifier.Verify(pin, account.PIN) {
			if account.FailedAttempts != 0 {
				if err := s.accountRepo.SetFailedAttempts(account.AccountNo, 0); err != nil {
					return nil, err
				}
				account.FailedAttempts = 0
			}
			log.WithField("account_no", account.AccountNo).Info("Authentication successful")
			s.trail.Event("Account %s logged in", account.AccountNo)
			return account, nil
		}

		// The counter carries over from previous sessions, so a card can
		// block before this session's attempts run out.
		account.FailedAttempts++
		if err := s.accountRepo.SetFailedAttempts(account.AccountNo, account.FailedAttempts); err != nil {
			return nil, err
		}

		log.WithFields(logrus.Fields{
			"account_no":      account.AccountNo,
			"failed_attempts": account.FailedAttempts,
		}).Warn("Incorrect PIN")

		if account.FailedAttempts >= maxPinAttempts {
			if err := s.accountRepo.SetBlocked(account.AccountNo, true); err != nil {
				return nil, err
			}
			account.Blocked = true
			log.WithField("account_no", account.AccountNo).Warn("Card blocked after repeated failures")
			s.trail.Event("Account %s blocked after %d failed attempts", account.AccountNo, account.FailedAttempts)
			return nil, ErrAuthExhausted
		}
	}

	return nil, ErrAuthExhausted
}
