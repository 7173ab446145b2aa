package transfer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort counts transfer outcomes.
type MetricsPort interface {
	ObserveTransfer(outcome string)
}

// GuardPort serialises executions of the same queue item across processes.
type GuardPort interface {
	Acquire(ctx context.Context, key string) error
	Release(ctx context.Context, key string)
}

// Service is the transfer invoker: it owns every mutation of queue rows and
// drives them through the status machine.
type Service struct {
	repo    Repository
	audit   AuditPort
	guard   GuardPort
	metrics MetricsPort
	now     func() time.Time
}

// NewService builds Service. Guard and metrics are optional.
func NewService(repo Repository, audit AuditPort, guard GuardPort, metrics MetricsPort) *Service {
	return &Service{repo: repo, audit: audit, guard: guard, metrics: metrics, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Enqueue validates the request and inserts a pending queue row.
func (s *Service) Enqueue(ctx context.Context, input CreateInput) (QueueItem, error) {
	if err := input.Validate(); err != nil {
		return QueueItem{}, err
	}
	now := s.now().UTC()
	item := QueueItem{
		ID:              uuid.New(),
		SourceID:        input.SourceID,
		SourceName:      input.SourceName,
		DestinationID:   input.DestinationID,
		DestinationName: input.DestinationName,
		Amount:          input.Amount,
		Status:          StatusPending,
		Type:            input.Type,
		ProofURL:        input.ProofURL,
		ProofChecksum:   input.proofChecksum(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.InsertQueueItem(ctx, item); err != nil {
		return QueueItem{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  input.ActorID,
			Action:   "transfer.enqueue",
			Entity:   "cross_transfer_queue",
			EntityID: item.ID.String(),
			Meta: map[string]any{
				"type":   string(item.Type),
				"amount": item.Amount,
			},
			At: now,
		})
	}
	return item, nil
}

// Execute runs a pending queue item to a terminal state and reports the
// outcome as a TransferState. Structural failures (unknown source or
// destination, empty source) terminate the item as failed and are encoded in
// the state's status code rather than returned as errors; the error return
// is reserved for infrastructure problems, concurrency conflicts and misuse
// (unknown or non-pending items).
func (s *Service) Execute(ctx context.Context, queueID uuid.UUID) (TransferState, error) {
	item, err := s.repo.GetQueueItem(ctx, queueID)
	if err != nil {
		return TransferState{}, err
	}
	if item.Status != StatusPending {
		return TransferState{}, ErrQueueItemNotPending
	}

	if s.guard != nil {
		key := shared.TransferLockKey(item.ID.String())
		if err := s.guard.Acquire(ctx, key); err != nil {
			if errors.Is(err, shared.ErrLockHeld) {
				return TransferState{}, ErrTransferInFlight
			}
			return TransferState{}, err
		}
		defer s.guard.Release(ctx, key)
	}

	strategy, err := strategyFor(item.Type)
	if err != nil {
		return TransferState{}, err
	}

	// The processing transition commits on its own so a crash mid-transfer
	// is observable in the queue instead of silently lost. The claim is a
	// compare-and-set on the pending status: the snapshot check above can be
	// stale, so only the executor that wins this update may move funds.
	if err := s.repo.ClaimQueueItem(ctx, item.ID); err != nil {
		return TransferState{}, err
	}
	item.Status = StatusProcessing

	now := s.now().UTC()
	var moved int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		moved, err = strategy.debit(ctx, tx, item, now)
		if err != nil {
			return err
		}
		if moved == 0 {
			return errNoAvailableFunds
		}
		destination, err := tx.GetWalletForUpdate(ctx, item.DestinationID)
		if err != nil {
			if errors.Is(err, ledger.ErrWalletNotFound) {
				return errDestinationNotFound
			}
			return err
		}
		if err := tx.UpdateWalletBalance(ctx, destination.ID, destination.Balance+moved); err != nil {
			return err
		}
		destID := destination.ID
		err = tx.InsertLedgerTransaction(ctx, ledger.Transaction{
			ID:          uuid.New(),
			WalletID:    &destID,
			Source:      s.receiveDocument(item, destination),
			Amount:      moved,
			Date:        now,
			Description: "Cross transfer from " + item.SourceName,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}
		item.TransferAmount = moved
		item.Status = StatusSucceeded
		if err := tx.SetQueueResult(ctx, item.ID, moved, StatusSucceeded); err != nil {
			return err
		}
		return tx.InsertRecord(ctx, s.recordFor(item, now))
	})
	switch {
	case err == nil:
		s.observe(item)
		s.auditExecution(ctx, item)
		return successState(item), nil
	case errors.Is(err, errNoAvailableFunds):
		return s.fail(ctx, item, http.StatusUnprocessableEntity)
	case errors.Is(err, errSourceNotFound), errors.Is(err, errDestinationNotFound):
		return s.fail(ctx, item, http.StatusNotFound)
	case errors.Is(err, shared.ErrConcurrencyConflict):
		// The unit of work rolled back whole, so the item can go straight
		// back to pending for an immediate retry instead of waiting on the
		// reaper. The claim is released best-effort; a crash here leaves the
		// row in processing, which the reaper handles.
		_ = s.repo.SetQueueStatus(ctx, item.ID, StatusPending)
		return TransferState{}, err
	default:
		return TransferState{}, err
	}
}

// CreateAndExecute is the synchronous request path: enqueue and run the
// transfer in the caller's lifetime.
func (s *Service) CreateAndExecute(ctx context.Context, input CreateInput) (QueueItem, TransferState, error) {
	item, err := s.Enqueue(ctx, input)
	if err != nil {
		return QueueItem{}, TransferState{}, err
	}
	state, err := s.Execute(ctx, item.ID)
	if err != nil {
		return item, TransferState{}, err
	}
	refreshed, getErr := s.repo.GetQueueItem(ctx, item.ID)
	if getErr == nil {
		item = refreshed
	}
	return item, state, nil
}

// Resubmit clones a failed queue item into a brand-new pending row. The
// engine never auto-retries, so every attempt stays individually auditable.
func (s *Service) Resubmit(ctx context.Context, queueID uuid.UUID) (QueueItem, error) {
	item, err := s.repo.GetQueueItem(ctx, queueID)
	if err != nil {
		return QueueItem{}, err
	}
	if item.Status != StatusFailed {
		return QueueItem{}, ErrNotResubmittable
	}
	now := s.now().UTC()
	clone := item
	clone.ID = uuid.New()
	clone.TransferAmount = 0
	clone.Status = StatusPending
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if err := s.repo.InsertQueueItem(ctx, clone); err != nil {
		return QueueItem{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "transfer.resubmit",
			Entity:   "cross_transfer_queue",
			EntityID: clone.ID.String(),
			Meta:     map[string]any{"origin": queueID.String()},
			At:       now,
		})
	}
	return clone, nil
}

// Get returns one queue item.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (QueueItem, error) {
	return s.repo.GetQueueItem(ctx, id)
}

// List returns queue items, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]QueueItem, error) {
	return s.repo.ListQueueItems(ctx, filter)
}

// receiveDocument builds the ledger source document for the destination
// credit: aggregator-sourced moves arrive as NuCoinAggregator postings,
// wallet-sourced moves as the receive kind of the destination's program.
func (s *Service) receiveDocument(item QueueItem, destination ledger.Wallet) ledger.SourceDocument {
	if item.Type == TypeAggregatorToWallet {
		return ledger.SourceDocument{Kind: ledger.SourceNuCoinAggregator, DocumentID: item.ID}
	}
	return ledger.SourceDocument{Kind: ledger.ReceiveKindFor(destination.Kind), DocumentID: item.ID}
}

// fail terminates the item after its unit of work rolled back: no balances
// moved, so the queue result and the audit record are written directly.
func (s *Service) fail(ctx context.Context, item QueueItem, code int) (TransferState, error) {
	item.TransferAmount = 0
	item.Status = StatusFailed
	if err := s.repo.SetQueueResult(ctx, item.ID, 0, StatusFailed); err != nil {
		return TransferState{}, err
	}
	if err := s.repo.InsertRecord(ctx, s.recordFor(item, s.now().UTC())); err != nil {
		return TransferState{}, err
	}
	s.observe(item)
	s.auditExecution(ctx, item)
	return stateFor(item, code), nil
}

func (s *Service) recordFor(item QueueItem, at time.Time) Record {
	return Record{
		ID:              uuid.New(),
		QueueID:         item.ID,
		SourceID:        item.SourceID,
		SourceName:      item.SourceName,
		DestinationID:   item.DestinationID,
		DestinationName: item.DestinationName,
		Amount:          item.Amount,
		TransferAmount:  item.TransferAmount,
		Status:          item.Status,
		Type:            item.Type,
		RecordedAt:      at,
	}
}

func (s *Service) observe(item QueueItem) {
	if s.metrics == nil {
		return
	}
	switch {
	case item.Status == StatusFailed:
		s.metrics.ObserveTransfer("failed")
	case item.TransferAmount < item.Amount:
		s.metrics.ObserveTransfer("partial")
	default:
		s.metrics.ObserveTransfer("succeeded")
	}
}

func (s *Service) auditExecution(ctx context.Context, item QueueItem) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   "transfer.execute",
		Entity:   "cross_transfer_queue",
		EntityID: item.ID.String(),
		Meta: map[string]any{
			"status":          string(item.Status),
			"amount":          item.Amount,
			"transfer_amount": item.TransferAmount,
		},
		At: s.now(),
	})
}
