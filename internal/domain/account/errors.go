package account

import "errors"

var (
	// ErrInvalidAmount is returned when amount is <= 0, above MaxAmount,
	// or would overflow the account's counters
	ErrInvalidAmount = errors.New("amount must be between 1 and 1000000000")

	// ErrInsufficientCredits is returned when the balance does not cover a debit
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrAccountNotFound is returned by lookups that do not create accounts
	ErrAccountNotFound = errors.New("account not found")

	ErrInternal = errors.New("internal error")
)
