package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	KindWithdraw    TransactionKind = "WITHDRAW"
	KindDeposit     TransactionKind = "DEPOSIT"
	KindTransferOut TransactionKind = "TRANSFER_OUT"
	KindTransferIn  TransactionKind = "TRANSFER_IN"
	KindFastCash    TransactionKind = "FAST_CASH"
)

type Transaction struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	AccountNo string          `json:"account_no"`
	Kind      TransactionKind `json:"kind"`
	Amount    int64           `json:"amount"`
	Detail    string          `json:"detail"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewReference generates a unique ledger reference of the form "txn_<uuid>".
func NewReference() string {
	return fmt.Sprintf("txn_%s", uuid.New().String())
}
