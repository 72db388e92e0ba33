package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"bankweb/internal/domain"
	"bankweb/internal/storage"
)

func TestAccountLifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	acc := &domain.Account{UserID: 1, AccountNumber: "ACC1", Balance: decimal.RequireFromString("10.00")}
	if err := s.CreateAccount(ctx, acc); err != nil {
		t.Fatal(err)
	}
	if acc.ID == 0 || acc.CreatedAt.IsZero() {
		t.Fatalf("id/created_at not assigned: %+v", acc)
	}

	dup := &domain.Account{UserID: 2, AccountNumber: "ACC1"}
	if err := s.CreateAccount(ctx, dup); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("want ErrDuplicateAccount, got %v", err)
	}

	got, err := s.GetAccountByNumber(ctx, "ACC1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(acc.Balance) {
		t.Fatalf("balance=%s want=%s", got.Balance, acc.Balance)
	}

	if _, err := s.GetAccountByNumber(ctx, "NOPE"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestReturnedAccountIsACopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	acc := &domain.Account{UserID: 1, AccountNumber: "ACC1", Balance: decimal.Zero}
	if err := s.CreateAccount(ctx, acc); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetAccountByNumber(ctx, "ACC1")
	got.Balance = decimal.RequireFromString("999")

	again, _ := s.GetAccountByNumber(ctx, "ACC1")
	if !again.Balance.IsZero() {
		t.Fatalf("store state mutated through returned copy: %s", again.Balance)
	}
}

func TestExecTxSerializesConcurrentUpdates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	acc := &domain.Account{UserID: 1, AccountNumber: "ACC1", Balance: decimal.Zero}
	if err := s.CreateAccount(ctx, acc); err != nil {
		t.Fatal(err)
	}

	const workers = 100
	one := decimal.RequireFromString("1")

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := s.ExecTx(ctx, func(tx storage.Ledger) error {
				locked, err := tx.GetAccountForUpdate(ctx, "ACC1")
				if err != nil {
					return err
				}
				_, err = tx.AddToBalance(ctx, locked.ID, one)
				return err
			})
			if err != nil {
				t.Errorf("ExecTx: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.GetAccountByNumber(ctx, "ACC1")
	if want := decimal.NewFromInt(workers); !got.Balance.Equal(want) {
		t.Fatalf("balance=%s want=%s", got.Balance, want)
	}
}

func TestListRecentByUserLimitsAndFiltersOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.CreateUser(ctx, &domain.User{Username: "alice", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	mine := &domain.Account{UserID: 1, AccountNumber: "MINE"}
	theirs := &domain.Account{UserID: 2, AccountNumber: "THEIRS"}
	if err := s.CreateAccount(ctx, mine); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateAccount(ctx, theirs); err != nil {
		t.Fatal(err)
	}

	one := decimal.RequireFromString("1")
	for i := 0; i < 4; i++ {
		if err := s.CreateTransaction(ctx, &domain.Transaction{AccountID: mine.ID, Type: domain.TxnDeposit, Amount: one}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateTransaction(ctx, &domain.Transaction{AccountID: theirs.ID, Type: domain.TxnDeposit, Amount: one}); err != nil {
		t.Fatal(err)
	}

	records, err := s.ListRecentByUser(ctx, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records=%d want=3", len(records))
	}
	for _, r := range records {
		if r.AccountNumber != "MINE" || r.OwnerUsername != "alice" {
			t.Fatalf("record unexpected: %+v", r)
		}
	}
}
