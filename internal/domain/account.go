package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID            int64
	UserID        int64
	AccountNumber string
	Balance       decimal.Decimal
	CreatedAt     time.Time
}
