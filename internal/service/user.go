package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bankweb/internal/auth"
	"bankweb/internal/config"
	"bankweb/internal/domain"
	"bankweb/internal/storage"
)

// UserService handles registration, login and profile editing.
type UserService struct {
	store storage.Ledger
}

func NewUserService(store storage.Ledger) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Register(ctx context.Context, username, email, password, confirm string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if password != confirm {
		return nil, domain.ErrPasswordMismatch
	}

	taken, err := s.store.UsernameTaken(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials. Unknown username and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// Profile aggregates what the profile view shows: the user, their accounts
// and their most recent transactions.
type Profile struct {
	User               *domain.User
	Accounts           []domain.Account
	RecentTransactions []domain.TransactionRecord
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.store.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	recent, err := s.store.ListRecentByUser(ctx, userID, config.ProfileRecentTransactions)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return &Profile{User: user, Accounts: accounts, RecentTransactions: recent}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, email string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)

	if email == "" {
		return domain.ErrEmailRequired
	}

	taken, err := s.store.EmailTaken(ctx, email, userID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return domain.ErrDuplicateEmail
	}

	return s.store.UpdateUserProfile(ctx, userID, firstName, lastName, email)
}
