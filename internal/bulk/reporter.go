// Package bulk aggregates per-item results when many ledger-affecting
// records are posted in one request. Items succeed or fail independently;
// the batch as a whole is multi-status.
package bulk

import (
	"context"
	"errors"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

// Reason tags classify per-item failures for machine consumption.
const (
	ReasonValidation        = "validation"
	ReasonNotFound          = "not_found"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonConflict          = "conflict"
	ReasonInternal          = "internal"
)

// Item statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ItemResult reports the outcome for the input row at Index. Results come
// back in input order, one per row.
type ItemResult struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// LedgerPort is the slice of the ledger store the reporter posts through.
type LedgerPort interface {
	PostTransaction(ctx context.Context, input ledger.PostInput) (ledger.Transaction, error)
}

// Reporter posts batches of ledger records.
type Reporter struct {
	ledger LedgerPort
}

// NewReporter builds Reporter.
func NewReporter(l LedgerPort) *Reporter {
	return &Reporter{ledger: l}
}

// PostBulk processes every input row regardless of earlier failures and
// returns one result per row, at the corresponding index.
func (r *Reporter) PostBulk(ctx context.Context, inputs []ledger.PostInput) []ItemResult {
	results := make([]ItemResult, len(inputs))
	for i, input := range inputs {
		results[i] = r.postOne(ctx, i, input)
	}
	return results
}

func (r *Reporter) postOne(ctx context.Context, index int, input ledger.PostInput) ItemResult {
	txn, err := r.ledger.PostTransaction(ctx, input)
	if err != nil {
		return ItemResult{
			Index:   index,
			Status:  StatusFailed,
			Reason:  reasonFor(err),
			Message: err.Error(),
		}
	}
	return ItemResult{Index: index, ID: txn.ID.String(), Status: StatusSuccess}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrUnknownSourceKind):
		return ReasonValidation
	case errors.Is(err, ledger.ErrWalletNotFound):
		return ReasonNotFound
	case errors.Is(err, shared.ErrInsufficientFunds):
		return ReasonInsufficientFunds
	case errors.Is(err, shared.ErrConcurrencyConflict):
		return ReasonConflict
	default:
		return ReasonInternal
	}
}

// HasFailures reports whether any item failed.
func HasFailures(results []ItemResult) bool {
	for _, res := range results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}
