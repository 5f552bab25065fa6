package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrSenderNotFound    = errors.New("sender wallet not found")
	ErrRecipientNotFound = errors.New("recipient wallet not found")
	ErrWalletExists      = errors.New("wallet already exists")

	// Transfer errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrPinMismatch       = errors.New("pin incorrect")

	// Record errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateHash       = errors.New("duplicate transaction hash")
	ErrInvalidOperation    = errors.New("invalid wallet log operation")

	// ErrIntegrity marks a post-validation invariant violation: a balance
	// adjustment that would go negative after the sufficiency check passed,
	// or a transaction hash collision. It always aborts the scope.
	ErrIntegrity = errors.New("integrity violation")

	// ErrUnavailable covers store unreachability and expired scopes. Callers
	// may retry it with their own backoff; no other error is retry-safe
	// without re-validating preconditions.
	ErrUnavailable = errors.New("store unavailable")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
