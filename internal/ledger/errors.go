package ledger

import "errors"

var (
	// ErrWalletNotFound indicates the referenced wallet does not exist.
	ErrWalletNotFound = errors.New("ledger: wallet not found")
	// ErrInvalidAmount indicates a non-positive posting amount.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")
	// ErrUnknownSourceKind indicates a source kind outside the closed set.
	ErrUnknownSourceKind = errors.New("ledger: unknown source kind")
	// ErrUnknownWalletKind indicates a wallet kind outside the closed set.
	ErrUnknownWalletKind = errors.New("ledger: unknown wallet kind")
)
