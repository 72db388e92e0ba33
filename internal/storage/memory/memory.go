// Package memory implements storage.Ledger with in-process maps. It backs
// the test suite and serializes ExecTx under a single mutex, giving the same
// isolation the postgres store gets from row locks.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bankweb/internal/domain"
	"bankweb/internal/storage"
)

type data struct {
	users        map[int64]*domain.User
	accounts     map[int64]*domain.Account
	transactions []*domain.Transaction

	nextUserID    int64
	nextAccountID int64
	nextTxnID     int64
}

type Store struct {
	mu *sync.Mutex
	d  *data

	// inTx is set on the view handed to an ExecTx callback; that view runs
	// with the store lock already held.
	inTx bool
}

func NewStore() *Store {
	return &Store{
		mu: &sync.Mutex{},
		d: &data{
			users:    make(map[int64]*domain.User),
			accounts: make(map[int64]*domain.Account),
		},
	}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ExecTx serializes the callback against all other store access. Mutations
// are not rolled back on error; callers check preconditions before writing,
// as the service layer does.
func (s *Store) ExecTx(ctx context.Context, fn func(storage.Ledger) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Store{mu: s.mu, d: s.d, inTx: true})
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	defer s.lock()()

	for _, existing := range s.d.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}

	s.d.nextUserID++
	u.ID = s.d.nextUserID
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	cp := *u
	s.d.users[u.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	defer s.lock()()

	u, ok := s.d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer s.lock()()

	for _, u := range s.d.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	defer s.lock()()

	for _, u := range s.d.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	defer s.lock()()

	for _, u := range s.d.users {
		if u.Email == email && u.ID != excludeUserID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, email string) error {
	defer s.lock()()

	u, ok := s.d.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

// --- Accounts ---

func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	defer s.lock()()

	for _, existing := range s.d.accounts {
		if existing.AccountNumber == a.AccountNumber {
			return domain.ErrDuplicateAccount
		}
	}

	s.d.nextAccountID++
	a.ID = s.d.nextAccountID
	a.CreatedAt = time.Now()

	cp := *a
	s.d.accounts[a.ID] = &cp
	return nil
}

func (s *Store) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	defer s.lock()()
	return s.findAccount(number)
}

func (s *Store) GetAccountForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	// ExecTx already holds the store lock, which is this store's
	// equivalent of a row lock.
	defer s.lock()()
	return s.findAccount(number)
}

func (s *Store) findAccount(number string) (*domain.Account, error) {
	for _, a := range s.d.accounts {
		if a.AccountNumber == number {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *Store) ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	defer s.lock()()

	var accounts []domain.Account
	for _, a := range s.d.accounts {
		if a.UserID == userID {
			accounts = append(accounts, *a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (s *Store) AddToBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	defer s.lock()()

	a, ok := s.d.accounts[accountID]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(delta)
	return a.Balance, nil
}

// --- Transactions ---

func (s *Store) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	defer s.lock()()

	if _, ok := s.d.accounts[t.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	s.d.nextTxnID++
	t.ID = s.d.nextTxnID
	t.CreatedAt = time.Now()

	cp := *t
	s.d.transactions = append(s.d.transactions, &cp)
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, f storage.TxnFilter) ([]domain.TransactionRecord, error) {
	defer s.lock()()

	var records []domain.TransactionRecord
	for _, t := range s.d.transactions {
		r, ok := s.record(t)
		if !ok || !matches(r, f) {
			continue
		}
		records = append(records, r)
	}
	sortNewestFirst(records)
	return records, nil
}

func (s *Store) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.TransactionRecord, error) {
	defer s.lock()()

	var records []domain.TransactionRecord
	for _, t := range s.d.transactions {
		r, ok := s.record(t)
		if !ok {
			continue
		}
		if a := s.d.accounts[t.AccountID]; a.UserID != userID {
			continue
		}
		records = append(records, r)
	}
	sortNewestFirst(records)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *Store) record(t *domain.Transaction) (domain.TransactionRecord, bool) {
	a, ok := s.d.accounts[t.AccountID]
	if !ok {
		return domain.TransactionRecord{}, false
	}
	var owner string
	if u, ok := s.d.users[a.UserID]; ok {
		owner = u.Username
	}
	return domain.TransactionRecord{
		Transaction:   *t,
		AccountNumber: a.AccountNumber,
		OwnerUsername: owner,
	}, true
}

func matches(r domain.TransactionRecord, f storage.TxnFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.AccountNumber), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			return false
		}
	}
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !r.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

func sortNewestFirst(records []domain.TransactionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

var _ storage.Ledger = (*Store)(nil)
