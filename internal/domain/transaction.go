package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the two-letter code stored with every transaction row.
type TxnType string

const (
	TxnCredit   TxnType = "CR"
	TxnDebit    TxnType = "DR"
	TxnTransfer TxnType = "TR"
	TxnDeposit  TxnType = "DP"
	TxnWithdraw TxnType = "WD"
	TxnReceived TxnType = "RC"
)

// Display returns the human-readable name for the type code.
func (t TxnType) Display() string {
	switch t {
	case TxnCredit:
		return "Credit"
	case TxnDebit:
		return "Debit"
	case TxnTransfer:
		return "Transfer"
	case TxnDeposit:
		return "Deposit"
	case TxnWithdraw:
		return "Withdraw"
	case TxnReceived:
		return "Received"
	}
	return string(t)
}

type Transaction struct {
	ID          int64
	AccountID   int64
	Type        TxnType
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// TransactionRecord joins a transaction with its account number and owner
// username for history and export views.
type TransactionRecord struct {
	Transaction
	AccountNumber string
	OwnerUsername string
}
