package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUserBlocked          = errors.New("user is blocked")
	ErrDuplicateTransaction = errors.New("transaction already recorded")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidTxHash        = errors.New("invalid transaction hash")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already exists")
	ErrWalletTaken          = errors.New("wallet address already connected to another user")
	ErrChainUnavailable     = errors.New("chain unavailable")
	ErrChainSchemaMismatch  = errors.New("chain schema mismatch")
)
