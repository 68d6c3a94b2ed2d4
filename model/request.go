// file: model/request.go

package model

// WithdrawRequest defines the input for a cash withdrawal.
// Validation tags guard the engine boundary before any row is locked.
type WithdrawRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// DepositRequest defines the input for a cash deposit.
type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// TransferRequest defines the input for a balance transfer. The source
// account always comes from the authenticated session, never from the
// request itself.
type TransferRequest struct {
	TargetAccountNo string `json:"target_account_no" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
}

// LoadCashRequest defines the input for the operator cash load.
type LoadCashRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}
