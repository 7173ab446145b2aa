package aggregator

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Account pools a donor's micro-donations until the balance is transferred
// to an organization wallet. It is not tied to any wallet before then.
type Account struct {
	ID        uuid.UUID
	DonorID   uuid.UUID
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	// ErrAccountNotFound indicates no aggregator account for the donor.
	ErrAccountNotFound = errors.New("aggregator: account not found")
	// ErrInvalidAmount indicates a non-positive credit or debit amount.
	ErrInvalidAmount = errors.New("aggregator: amount must be positive")
)
