package transfer

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Status enumerates queue item lifecycle values.
// pending -> processing -> {succeeded | failed}. Terminal states are final;
// a failed item is retried only by resubmission as a brand-new pending row.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status ends the state machine.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Type discriminates the source side of a transfer.
type Type string

const (
	TypeAggregatorToWallet Type = "aggregator_to_wallet"
	TypeWalletToWallet     Type = "wallet_to_wallet"
)

// Valid reports whether the type is a member of the closed set.
func (t Type) Valid() bool {
	return t == TypeAggregatorToWallet || t == TypeWalletToWallet
}

// QueueItem is the mutable record of one requested fund transfer. The row is
// never deleted; together with the immutable Record it forms the audit pair.
// TransferAmount holds what actually moved, which may be less than Amount
// when the source could only be partially satisfied.
type QueueItem struct {
	ID              uuid.UUID
	SourceID        uuid.UUID
	SourceName      string
	DestinationID   uuid.UUID
	DestinationName string
	Amount          int64
	TransferAmount  int64
	Status          Status
	Type            Type
	ProofURL        string
	ProofChecksum   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Record is the immutable audit counterpart of a queue item, written at most
// once when the item reaches a terminal state.
type Record struct {
	ID              uuid.UUID
	QueueID         uuid.UUID
	SourceID        uuid.UUID
	SourceName      string
	DestinationID   uuid.UUID
	DestinationName string
	Amount          int64
	TransferAmount  int64
	Status          Status
	Type            Type
	RecordedAt      time.Time
}

// TransferState is the direct return value of a transfer attempt, shaped
// like an HTTP status for uniform error surfacing to callers.
type TransferState struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Amount      int64  `json:"amount"`
	StatusCode  int    `json:"statusCode"`
}

func stateFor(item QueueItem, code int) TransferState {
	return TransferState{
		Source:      item.SourceName,
		Destination: item.DestinationName,
		Amount:      item.TransferAmount,
		StatusCode:  code,
	}
}

func successState(item QueueItem) TransferState {
	return stateFor(item, http.StatusOK)
}
