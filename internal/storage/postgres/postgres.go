// Package postgres implements the storage.Ledger interface on top of a pgx
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bankweb/internal/domain"
	"bankweb/internal/storage"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods run inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db   DBTX
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, pool: pool}
}

// ExecTx runs fn inside a single database transaction. Row locks taken via
// GetAccountForUpdate are held until commit or rollback.
func (s *Store) ExecTx(ctx context.Context, fn func(storage.Ledger) error) error {
	if s.pool == nil {
		// Already transaction-bound, reuse it.
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if constraintViolated(err, "users_username_key") {
			return domain.ErrDuplicateUsername
		}
		if constraintViolated(err, "users_email_key") {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, `WHERE username = $1`, username)
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return taken, nil
}

func (s *Store) EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, excludeUserID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id int64, firstName, lastName, email string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE users SET first_name = $2, last_name = $3, email = $4, updated_at = NOW()
		WHERE id = $1`,
		id, firstName, lastName, email,
	)
	if err != nil {
		if constraintViolated(err, "users_email_key") {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// --- Accounts ---

func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO accounts (user_id, account_number, balance)
		VALUES ($1, $2, $3::numeric)
		RETURNING id, created_at`,
		a.UserID, a.AccountNumber, a.Balance.String(),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if constraintViolated(err, "accounts_account_number_key") {
			return domain.ErrDuplicateAccount
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return s.getAccount(ctx, number, "")
}

// GetAccountForUpdate locks the account row for the duration of the
// surrounding transaction. Outside ExecTx the lock is released immediately,
// so it only makes sense transaction-bound.
func (s *Store) GetAccountForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	return s.getAccount(ctx, number, " FOR UPDATE")
}

func (s *Store) getAccount(ctx context.Context, number, suffix string) (*domain.Account, error) {
	a := &domain.Account{}
	var balance string
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, account_number, balance::text, created_at
		FROM accounts WHERE account_number = $1`+suffix, number,
	).Scan(&a.ID, &a.UserID, &a.AccountNumber, &balance, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	return a, nil
}

func (s *Store) ListAccountsByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, account_number, balance::text, created_at
		FROM accounts WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		var balance string
		if err := rows.Scan(&a.ID, &a.UserID, &a.AccountNumber, &balance, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("parse balance: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) AddToBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance string
	err := s.db.QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $2::numeric
		WHERE id = $1
		RETURNING balance::text`,
		accountID, delta.String(),
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}
		return decimal.Zero, fmt.Errorf("update balance: %w", err)
	}
	newBalance, err := decimal.NewFromString(balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance: %w", err)
	}
	return newBalance, nil
}

// --- Transactions ---

func (s *Store) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO transactions (account_id, txn_type, amount, description)
		VALUES ($1, $2, $3::numeric, $4)
		RETURNING id, created_at`,
		t.AccountID, string(t.Type), t.Amount.String(), t.Description,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, f storage.TxnFilter) ([]domain.TransactionRecord, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(a.account_number ILIKE %s OR t.description ILIKE %s)", p, p))
	}
	if f.Type != "" {
		conds = append(conds, "t.txn_type = "+arg(string(f.Type)))
	}
	if f.From != nil {
		conds = append(conds, "t.created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "t.created_at < "+arg(*f.To))
	}

	query := `
		SELECT t.id, t.account_id, t.txn_type, t.amount::text, t.description, t.created_at,
		       a.account_number, u.username
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN users u ON u.id = a.user_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"

	return s.queryRecords(ctx, query, args...)
}

func (s *Store) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.TransactionRecord, error) {
	return s.queryRecords(ctx, `
		SELECT t.id, t.account_id, t.txn_type, t.amount::text, t.description, t.created_at,
		       a.account_number, u.username
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2`, userID, limit)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]domain.TransactionRecord, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var (
			r       domain.TransactionRecord
			txnType string
			amount  string
		)
		err := rows.Scan(&r.ID, &r.AccountID, &txnType, &amount, &r.Description, &r.CreatedAt,
			&r.AccountNumber, &r.OwnerUsername)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		r.Type = domain.TxnType(txnType)
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func constraintViolated(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

var _ storage.Ledger = (*Store)(nil)
