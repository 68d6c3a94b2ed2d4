// service/session_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"go-atm/audit"
	"go-atm/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// pinScript returns a PinPrompt that feeds the given PINs in order and
// records the attempt numbers it was called with.
func pinScript(t *testing.T, pins ...string) (PinPrompt, *[]int) {
	attempts := &[]int{}
	next := 0
	return func(attempt int) (string, error) {
		*attempts = append(*attempts, attempt)
		if next >= len(pins) {
			t.Fatalf("prompt called %d times, scripted for %d", next+1, len(pins))
		}
		pin := pins[next]
		next++
		return pin, nil
	}, attempts
}

func TestSessionService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("success on the first attempt", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		accountRepo.On("GetAccountByCardNo", "1234567890").Return(&model.Account{AccountNo: "1001", CardNo: "1234567890", PIN: "1111"}, nil).Once()

		prompt, attempts := pinScript(t, "1111")
		account, err := sessions.Authenticate(ctx, "1234567890", prompt)

		assert.NoError(t, err)
		assert.Equal(t, "1001", account.AccountNo)
		assert.Equal(t, []int{1}, *attempts)
		// A clean counter is not rewritten.
		accountRepo.AssertNotCalled(t, "SetFailedAttempts", mock.Anything, mock.Anything)
		accountRepo.AssertNotCalled(t, "SetBlocked", mock.Anything, mock.Anything)
	})

	t.Run("success after two misses resets the counter", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		accountRepo.On("GetAccountByCardNo", "1234567890").Return(&model.Account{AccountNo: "1001", CardNo: "1234567890", PIN: "1111"}, nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 1).Return(nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 2).Return(nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 0).Return(nil).Once()

		prompt, attempts := pinScript(t, "0000", "9999", "1111")
		account, err := sessions.Authenticate(ctx, "1234567890", prompt)

		assert.NoError(t, err)
		assert.Equal(t, 0, account.FailedAttempts)
		assert.Equal(t, []int{1, 2, 3}, *attempts)
		accountRepo.AssertNotCalled(t, "SetBlocked", mock.Anything, mock.Anything)
		accountRepo.AssertExpectations(t)
	})

	t.Run("unknown card", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		accountRepo.On("GetAccountByCardNo", "0000000000").Return(nil, sql.ErrNoRows).Once()

		prompt, attempts := pinScript(t)
		account, err := sessions.Authenticate(ctx, "0000000000", prompt)

		assert.Nil(t, account)
		assert.Equal(t, ErrCardNotFound, err)
		assert.Empty(t, *attempts)
	})

	t.Run("blocked card rejected before any prompt", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		accountRepo.On("GetAccountByCardNo", "1234567890").Return(&model.Account{AccountNo: "1001", CardNo: "1234567890", PIN: "1111", Blocked: true}, nil).Once()

		prompt, attempts := pinScript(t)
		account, err := sessions.Authenticate(ctx, "1234567890", prompt)

		assert.Nil(t, account)
		assert.Equal(t, ErrCardBlocked, err)
		assert.Empty(t, *attempts)
	})

	t.Run("three misses block the card", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		accountRepo.On("GetAccountByCardNo", "1234567890").Return(&model.Account{AccountNo: "1001", CardNo: "1234567890", PIN: "1111"}, nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 1).Return(nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 2).Return(nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 3).Return(nil).Once()
		accountRepo.On("SetBlocked", "1001", true).Return(nil).Once()

		prompt, attempts := pinScript(t, "0000", "0000", "0000")
		account, err := sessions.Authenticate(ctx, "1234567890", prompt)

		assert.Nil(t, account)
		assert.Equal(t, ErrAuthExhausted, err)
		assert.Equal(t, []int{1, 2, 3}, *attempts)
		accountRepo.AssertExpectations(t)
	})

	t.Run("carried-over misses block on the first prompt", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		// Two misses persisted by earlier sessions leave one attempt.
		accountRepo.On("GetAccountByCardNo", "1234567890").Return(&model.Account{AccountNo: "1001", CardNo: "1234567890", PIN: "1111", FailedAttempts: 2}, nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 3).Return(nil).Once()
		accountRepo.On("SetBlocked", "1001", true).Return(nil).Once()

		prompt, attempts := pinScript(t, "0000")
		account, err := sessions.Authenticate(ctx, "1234567890", prompt)

		assert.Nil(t, account)
		assert.Equal(t, ErrAuthExhausted, err)
		assert.Equal(t, []int{1}, *attempts)
		accountRepo.AssertExpectations(t)
	})

	t.Run("carried-over misses still clear on a correct PIN", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		accountRepo.On("GetAccountByCardNo", "1234567890").Return(&model.Account{AccountNo: "1001", CardNo: "1234567890", PIN: "1111", FailedAttempts: 2}, nil).Once()
		accountRepo.On("SetFailedAttempts", "1001", 0).Return(nil).Once()

		prompt, _ := pinScript(t, "1111")
		account, err := sessions.Authenticate(ctx, "1234567890", prompt)

		assert.NoError(t, err)
		assert.Equal(t, 0, account.FailedAttempts)
		accountRepo.AssertNotCalled(t, "SetBlocked", mock.Anything, mock.Anything)
		accountRepo.AssertExpectations(t)
	})

	t.Run("prompt failure aborts the session", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		sessions := NewSessionService(accountRepo, PlainVerifier{}, audit.Discard())

		accountRepo.On("GetAccountByCardNo", "1234567890").Return(&model.Account{AccountNo: "1001", CardNo: "1234567890", PIN: "1111"}, nil).Once()

		errInput := errors.New("input closed")
		account, err := sessions.Authenticate(ctx, "1234567890", func(attempt int) (string, error) {
			return "", errInput
		})

		assert.Nil(t, account)
		assert.ErrorIs(t, err, errInput)
		// An aborted prompt is not a miss.
		accountRepo.AssertNotCalled(t, "SetFailedAttempts", mock.Anything, mock.Anything)
	})
}
