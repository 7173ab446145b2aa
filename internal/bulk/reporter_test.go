package bulk

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

type scriptedLedger struct {
	errs  map[int]error
	calls int
}

func (l *scriptedLedger) PostTransaction(ctx context.Context, input ledger.PostInput) (ledger.Transaction, error) {
	call := l.calls
	l.calls++
	if err, ok := l.errs[call]; ok {
		return ledger.Transaction{}, err
	}
	return ledger.Transaction{ID: uuid.New()}, nil
}

func inputsOf(n int) []ledger.PostInput {
	inputs := make([]ledger.PostInput, n)
	for i := range inputs {
		inputs[i] = ledger.PostInput{
			Source: ledger.SourceDocument{Kind: ledger.SourceZakat, DocumentID: uuid.New()},
			Amount: int64(100 * (i + 1)),
		}
	}
	return inputs
}

func TestPostBulkAllSucceed(t *testing.T) {
	reporter := NewReporter(&scriptedLedger{})
	results := reporter.PostBulk(context.Background(), inputsOf(3))
	require.Len(t, results, 3)
	for i, res := range results {
		require.Equal(t, i, res.Index)
		require.Equal(t, StatusSuccess, res.Status)
		require.NotEmpty(t, res.ID)
	}
	require.False(t, HasFailures(results))
}

func TestPostBulkFailureDoesNotAbortBatch(t *testing.T) {
	l := &scriptedLedger{errs: map[int]error{2: shared.ErrInsufficientFunds}}
	reporter := NewReporter(l)
	results := reporter.PostBulk(context.Background(), inputsOf(5))
	require.Len(t, results, 5)
	for i, res := range results {
		require.Equal(t, i, res.Index)
		if i == 2 {
			require.Equal(t, StatusFailed, res.Status)
			require.Equal(t, ReasonInsufficientFunds, res.Reason)
			require.Empty(t, res.ID)
		} else {
			require.Equal(t, StatusSuccess, res.Status)
		}
	}
	require.True(t, HasFailures(results))
	require.Equal(t, 5, l.calls)
}

func TestReasonMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		reason string
	}{
		"validation":   {ledger.ErrInvalidAmount, ReasonValidation},
		"unknown kind": {ledger.ErrUnknownSourceKind, ReasonValidation},
		"not found":    {ledger.ErrWalletNotFound, ReasonNotFound},
		"insufficient": {shared.ErrInsufficientFunds, ReasonInsufficientFunds},
		"conflict":     {shared.ErrConcurrencyConflict, ReasonConflict},
		"other":        {errors.New("boom"), ReasonInternal},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			l := &scriptedLedger{errs: map[int]error{0: tc.err}}
			results := NewReporter(l).PostBulk(context.Background(), inputsOf(1))
			require.Equal(t, tc.reason, results[0].Reason)
		})
	}
}

func TestPostBulkEmptyInput(t *testing.T) {
	results := NewReporter(&scriptedLedger{}).PostBulk(context.Background(), nil)
	require.Empty(t, results)
	require.False(t, HasFailures(results))
}
