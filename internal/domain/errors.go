package domain

import "errors"

var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrSenderNotFound        = errors.New("sender account not found")
	ErrReceiverNotFound      = errors.New("receiver account not found")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidBalance        = errors.New("invalid balance amount")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrAccountNumberRequired = errors.New("account number required")
	ErrDuplicateAccount      = errors.New("account number already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicateUsername     = errors.New("username already taken")
	ErrDuplicateEmail        = errors.New("email already used by another account")
	ErrEmailRequired         = errors.New("email is required")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrInvalidCredentials    = errors.New("invalid username or password")
)
