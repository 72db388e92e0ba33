package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bankweb/internal/domain"
	"bankweb/internal/storage"
)

// LedgerService implements the money-movement operations. Every mutation
// runs inside a storage transaction that locks the affected account rows
// before reading balances, so concurrent operations cannot drive a balance
// negative or lose an update.
type LedgerService struct {
	store storage.Ledger
}

func NewLedgerService(store storage.Ledger) *LedgerService {
	return &LedgerService{store: store}
}

// Deposit credits the account and records a deposit transaction. It returns
// the new balance.
func (s *LedgerService) Deposit(ctx context.Context, accountNumber, amountRaw string) (decimal.Decimal, error) {
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal
	err = s.store.ExecTx(ctx, func(tx storage.Ledger) error {
		acc, err := tx.GetAccountForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}

		newBalance, err = tx.AddToBalance(ctx, acc.ID, amount)
		if err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		return tx.CreateTransaction(ctx, &domain.Transaction{
			AccountID:   acc.ID,
			Type:        domain.TxnDeposit,
			Amount:      amount,
			Description: "Deposit",
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Withdraw debits the account after checking the balance under a row lock.
func (s *LedgerService) Withdraw(ctx context.Context, accountNumber, amountRaw string) (decimal.Decimal, error) {
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal
	err = s.store.ExecTx(ctx, func(tx storage.Ledger) error {
		acc, err := tx.GetAccountForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}

		if acc.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}

		newBalance, err = tx.AddToBalance(ctx, acc.ID, amount.Neg())
		if err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		return tx.CreateTransaction(ctx, &domain.Transaction{
			AccountID:   acc.ID,
			Type:        domain.TxnWithdraw,
			Amount:      amount,
			Description: "Withdraw",
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// Transfer moves amount from one account to another and records a
// transaction on each side. Both rows are locked before the balance check;
// locks are taken in account-number order to avoid deadlock between
// opposing transfers. A same-number transfer is allowed and yields a
// net-zero pair of log entries. Returns the sender's new balance.
func (s *LedgerService) Transfer(ctx context.Context, fromNumber, toNumber, amountRaw string) (decimal.Decimal, error) {
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return decimal.Zero, err
	}

	var senderBalance decimal.Decimal
	err = s.store.ExecTx(ctx, func(tx storage.Ledger) error {
		from, to, err := lockPair(ctx, tx, fromNumber, toNumber)
		if err != nil {
			return err
		}

		if from.Balance.LessThan(amount) {
			return domain.ErrInsufficientBalance
		}

		senderBalance, err = tx.AddToBalance(ctx, from.ID, amount.Neg())
		if err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}
		if _, err = tx.AddToBalance(ctx, to.ID, amount); err != nil {
			return fmt.Errorf("credit receiver: %w", err)
		}

		err = tx.CreateTransaction(ctx, &domain.Transaction{
			AccountID:   from.ID,
			Type:        domain.TxnTransfer,
			Amount:      amount,
			Description: fmt.Sprintf("Transfer to %s", toNumber),
		})
		if err != nil {
			return fmt.Errorf("record transfer: %w", err)
		}

		err = tx.CreateTransaction(ctx, &domain.Transaction{
			AccountID:   to.ID,
			Type:        domain.TxnReceived,
			Amount:      amount,
			Description: fmt.Sprintf("Received from %s", fromNumber),
		})
		if err != nil {
			return fmt.Errorf("record receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return senderBalance, nil
}

// lockPair locks both accounts in a stable order and reports which side is
// missing with a distinct error.
func lockPair(ctx context.Context, tx storage.Ledger, fromNumber, toNumber string) (from, to *domain.Account, err error) {
	lock := func(number string, missing error) (*domain.Account, error) {
		acc, err := tx.GetAccountForUpdate(ctx, number)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, missing
			}
			return nil, err
		}
		return acc, nil
	}

	if fromNumber <= toNumber {
		if from, err = lock(fromNumber, domain.ErrSenderNotFound); err != nil {
			return nil, nil, err
		}
		if toNumber == fromNumber {
			return from, from, nil
		}
		if to, err = lock(toNumber, domain.ErrReceiverNotFound); err != nil {
			return nil, nil, err
		}
		return from, to, nil
	}

	if to, err = lock(toNumber, domain.ErrReceiverNotFound); err != nil {
		return nil, nil, err
	}
	if from, err = lock(fromNumber, domain.ErrSenderNotFound); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// CreateAccount opens an account for the given user with an optional
// starting balance. An empty balance string means zero.
func (s *LedgerService) CreateAccount(ctx context.Context, userID int64, accountNumber, balanceRaw string) (*domain.Account, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, domain.ErrAccountNumberRequired
	}

	if strings.TrimSpace(balanceRaw) == "" {
		balanceRaw = "0"
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(balanceRaw))
	if err != nil || balance.IsNegative() {
		return nil, domain.ErrInvalidBalance
	}

	account := &domain.Account{
		UserID:        userID,
		AccountNumber: accountNumber,
		Balance:       balance,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Accounts lists the accounts owned by a user.
func (s *LedgerService) Accounts(ctx context.Context, userID int64) ([]domain.Account, error) {
	return s.store.ListAccountsByUser(ctx, userID)
}

// parseAmount validates money-movement input: it must be a parsable decimal
// and strictly positive.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount, nil
}
