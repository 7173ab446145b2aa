package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientFunds indicates a debit larger than the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConcurrencyConflict indicates a lock-wait timeout or write conflict
	// during a balance mutation. Safe to retry: nothing was committed.
	ErrConcurrencyConflict = errors.New("concurrent balance mutation conflict")
)
