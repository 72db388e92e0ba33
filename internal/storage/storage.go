// Package storage defines the persistence boundary of the ledger: accounts,
// their owners, and the append-only transaction log.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bankweb/internal/domain"
)

// TxnFilter narrows the transaction history. Zero values mean "no filter".
// From is an inclusive lower bound and To an exclusive upper bound on
// created_at; callers working with calendar dates add a day to To.
type TxnFilter struct {
	// Search matches account number or description substrings,
	// case-insensitive.
	Search string
	Type   domain.TxnType
	From   *time.Time
	To     *time.Time
}

// Ledger is the persistent store for users, accounts and transactions.
//
// Mutating money-movement sequences must run inside ExecTx; the Ledger
// passed to the callback is bound to that transaction, and
// GetAccountForUpdate holds a row lock until it commits or rolls back.
type Ledger interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error)
	UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, email string) error

	CreateAccount(ctx context.Context, a *domain.Account) error
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetAccountForUpdate(ctx context.Context, number string) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	AddToBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error)

	CreateTransaction(ctx context.Context, t *domain.Transaction) error
	ListTransactions(ctx context.Context, f TxnFilter) ([]domain.TransactionRecord, error)
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.TransactionRecord, error)

	ExecTx(ctx context.Context, fn func(Ledger) error) error
}
