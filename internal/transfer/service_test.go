package transfer

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/amanah-zis/amanah-zis/internal/aggregator"
	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

type memoryRepo struct {
	mu       sync.Mutex
	wallets  map[uuid.UUID]ledger.Wallet
	accounts map[uuid.UUID]aggregator.Account
	queue    map[uuid.UUID]QueueItem
	records  map[uuid.UUID]Record // keyed by queue id
	txns     []ledger.Transaction
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		wallets:  make(map[uuid.UUID]ledger.Wallet),
		accounts: make(map[uuid.UUID]aggregator.Account),
		queue:    make(map[uuid.UUID]QueueItem),
		records:  make(map[uuid.UUID]Record),
	}
}

// memoryTx buffers writes and applies them on commit, so a failed unit of
// work leaves no partial effect, like the SQL repository's rollback.
type memoryTx struct {
	repo    *memoryRepo
	wallets map[uuid.UUID]ledger.Wallet
	acct    map[uuid.UUID]aggregator.Account
	queue   map[uuid.UUID]QueueItem
	records []Record
	txns    []ledger.Transaction
}

// WithTx serialises units of work, standing in for row locks.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &memoryTx{
		repo:    r,
		wallets: make(map[uuid.UUID]ledger.Wallet),
		acct:    make(map[uuid.UUID]aggregator.Account),
		queue:   make(map[uuid.UUID]QueueItem),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for id, w := range tx.wallets {
		r.wallets[id] = w
	}
	for id, a := range tx.acct {
		r.accounts[id] = a
	}
	for id, q := range tx.queue {
		r.queue[id] = q
	}
	for _, rec := range tx.records {
		if _, ok := r.records[rec.QueueID]; !ok {
			r.records[rec.QueueID] = rec
		}
	}
	r.txns = append(r.txns, tx.txns...)
	return nil
}

func (r *memoryRepo) InsertQueueItem(ctx context.Context, item QueueItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue[item.ID] = item
	return nil
}

func (r *memoryRepo) GetQueueItem(ctx context.Context, id uuid.UUID) (QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.queue[id]; ok {
		return item, nil
	}
	return QueueItem{}, ErrQueueItemNotFound
}

func (r *memoryRepo) ListQueueItems(ctx context.Context, filter ListFilter) ([]QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []QueueItem
	for _, item := range r.queue {
		if filter.Status == "" || item.Status == filter.Status {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memoryRepo) ClaimQueueItem(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.queue[id]
	if !ok {
		return ErrQueueItemNotFound
	}
	if item.Status != StatusPending {
		return ErrQueueItemNotPending
	}
	item.Status = StatusProcessing
	item.UpdatedAt = time.Now()
	r.queue[id] = item
	return nil
}

func (r *memoryRepo) SetQueueStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.queue[id]
	if !ok {
		return ErrQueueItemNotFound
	}
	item.Status = status
	item.UpdatedAt = time.Now()
	r.queue[id] = item
	return nil
}

func (r *memoryRepo) SetQueueResult(ctx context.Context, id uuid.UUID, transferAmount int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return setQueueResult(r.queue, id, transferAmount, status)
}

func (r *memoryRepo) InsertRecord(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.QueueID]; !ok {
		r.records[record.QueueID] = record
	}
	return nil
}

func (r *memoryRepo) GetRecordByQueueID(ctx context.Context, queueID uuid.UUID) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[queueID]; ok {
		return rec, nil
	}
	return Record{}, ErrQueueItemNotFound
}

func setQueueResult(queue map[uuid.UUID]QueueItem, id uuid.UUID, transferAmount int64, status Status) error {
	item, ok := queue[id]
	if !ok {
		return ErrQueueItemNotFound
	}
	item.TransferAmount = transferAmount
	item.Status = status
	item.UpdatedAt = time.Now()
	queue[id] = item
	return nil
}

func (tx *memoryTx) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (ledger.Wallet, error) {
	if w, ok := tx.wallets[id]; ok {
		return w, nil
	}
	if w, ok := tx.repo.wallets[id]; ok {
		return w, nil
	}
	return ledger.Wallet{}, ledger.ErrWalletNotFound
}

func (tx *memoryTx) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	w, err := tx.GetWalletForUpdate(ctx, id)
	if err != nil {
		return err
	}
	w.Balance = balance
	tx.wallets[id] = w
	return nil
}

func (tx *memoryTx) GetAggregatorAccountForUpdate(ctx context.Context, id uuid.UUID) (aggregator.Account, error) {
	if a, ok := tx.acct[id]; ok {
		return a, nil
	}
	if a, ok := tx.repo.accounts[id]; ok {
		return a, nil
	}
	return aggregator.Account{}, aggregator.ErrAccountNotFound
}

func (tx *memoryTx) UpdateAggregatorAccountBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	a, err := tx.GetAggregatorAccountForUpdate(ctx, id)
	if err != nil {
		return err
	}
	a.Balance = balance
	tx.acct[id] = a
	return nil
}

func (tx *memoryTx) InsertLedgerTransaction(ctx context.Context, txn ledger.Transaction) error {
	tx.txns = append(tx.txns, txn)
	return nil
}

func (tx *memoryTx) SetQueueResult(ctx context.Context, id uuid.UUID, transferAmount int64, status Status) error {
	item, ok := tx.repo.queue[id]
	if !ok {
		return ErrQueueItemNotFound
	}
	item.TransferAmount = transferAmount
	item.Status = status
	item.UpdatedAt = time.Now()
	tx.queue[id] = item
	return nil
}

func (tx *memoryTx) InsertRecord(ctx context.Context, record Record) error {
	tx.records = append(tx.records, record)
	return nil
}

func (r *memoryRepo) addWallet(kind ledger.WalletKind, balance int64) ledger.Wallet {
	w := ledger.Wallet{ID: uuid.New(), OrganizationID: uuid.New(), Kind: kind, Balance: balance}
	r.wallets[w.ID] = w
	return w
}

func (r *memoryRepo) addAccount(balance int64) aggregator.Account {
	a := aggregator.Account{ID: uuid.New(), DonorID: uuid.New(), Balance: balance}
	r.accounts[a.ID] = a
	return a
}

func TestFullAggregatorTransfer(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 1000)
	account := repo.addAccount(1500)

	item, state, err := svc.CreateAndExecute(ctx, CreateInput{
		SourceID:        account.ID,
		SourceName:      "Hamba Allah",
		DestinationID:   wallet.ID,
		DestinationName: "LAZ Cabang Kota",
		Amount:          1500,
		Type:            TypeAggregatorToWallet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, state.StatusCode)
	require.Equal(t, int64(1500), state.Amount)
	require.Equal(t, StatusSucceeded, item.Status)
	require.Equal(t, int64(1500), item.TransferAmount)

	require.Equal(t, int64(2500), repo.wallets[wallet.ID].Balance)
	require.Equal(t, int64(0), repo.accounts[account.ID].Balance)

	require.Len(t, repo.txns, 1)
	txn := repo.txns[0]
	require.Equal(t, ledger.SourceNuCoinAggregator, txn.Source.Kind)
	require.Equal(t, item.ID, txn.Source.DocumentID)
	require.Equal(t, int64(1500), txn.Amount)

	rec, err := repo.GetRecordByQueueID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, rec.Status)
	require.Equal(t, int64(1500), rec.TransferAmount)
}

func TestEmptySourceFailsWithoutSideEffects(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 2500)
	account := repo.addAccount(0)

	item, state, err := svc.CreateAndExecute(ctx, CreateInput{
		SourceID:      account.ID,
		DestinationID: wallet.ID,
		Amount:        500,
		Type:          TypeAggregatorToWallet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, state.StatusCode)
	require.Equal(t, int64(0), state.Amount)
	require.Equal(t, StatusFailed, item.Status)

	require.Equal(t, int64(2500), repo.wallets[wallet.ID].Balance)
	require.Empty(t, repo.txns)

	rec, err := repo.GetRecordByQueueID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, rec.Status)
	require.Equal(t, int64(0), rec.TransferAmount)
}

func TestPartialFill(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindInfaq, 0)
	account := repo.addAccount(300)

	item, state, err := svc.CreateAndExecute(ctx, CreateInput{
		SourceID:      account.ID,
		DestinationID: wallet.ID,
		Amount:        1000,
		Type:          TypeAggregatorToWallet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, state.StatusCode)
	require.Equal(t, int64(300), state.Amount)
	require.Equal(t, StatusSucceeded, item.Status)
	require.Equal(t, int64(1000), item.Amount)
	require.Equal(t, int64(300), item.TransferAmount)

	require.Equal(t, int64(0), repo.accounts[account.ID].Balance)
	require.Equal(t, int64(300), repo.wallets[wallet.ID].Balance)
}

func TestWalletToWalletConservation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	src := repo.addWallet(ledger.WalletKindZakat, 800)
	dst := repo.addWallet(ledger.WalletKindZakat, 200)

	item, state, err := svc.CreateAndExecute(ctx, CreateInput{
		SourceID:      src.ID,
		DestinationID: dst.ID,
		Amount:        500,
		Type:          TypeWalletToWallet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, state.StatusCode)

	require.Equal(t, int64(300), repo.wallets[src.ID].Balance)
	require.Equal(t, int64(700), repo.wallets[dst.ID].Balance)
	require.Equal(t, int64(500), repo.wallets[dst.ID].Balance-dst.Balance)
	require.Equal(t, src.Balance-repo.wallets[src.ID].Balance, repo.wallets[dst.ID].Balance-dst.Balance)

	// Both sides of a wallet move carry a ledger entry.
	require.Len(t, repo.txns, 2)
	require.Equal(t, ledger.SourceZakatDistribution, repo.txns[0].Source.Kind)
	require.Equal(t, ledger.SourceZakat, repo.txns[1].Source.Kind)
	require.Equal(t, item.ID, repo.txns[0].Source.DocumentID)
}

func TestUnknownDestinationFails(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	account := repo.addAccount(100)

	item, state, err := svc.CreateAndExecute(context.Background(), CreateInput{
		SourceID:      account.ID,
		DestinationID: uuid.New(),
		Amount:        100,
		Type:          TypeAggregatorToWallet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, state.StatusCode)
	require.Equal(t, StatusFailed, item.Status)
	require.Equal(t, int64(100), repo.accounts[account.ID].Balance)
	require.Empty(t, repo.txns)
}

func TestUnknownSourceFails(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	wallet := repo.addWallet(ledger.WalletKindInfaq, 0)

	_, state, err := svc.CreateAndExecute(context.Background(), CreateInput{
		SourceID:      uuid.New(),
		DestinationID: wallet.ID,
		Amount:        100,
		Type:          TypeAggregatorToWallet,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, state.StatusCode)
}

func TestRecordIdempotency(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 0)
	account := repo.addAccount(100)

	item, _, err := svc.CreateAndExecute(ctx, CreateInput{
		SourceID:      account.ID,
		DestinationID: wallet.ID,
		Amount:        100,
		Type:          TypeAggregatorToWallet,
	})
	require.NoError(t, err)

	first, err := repo.GetRecordByQueueID(ctx, item.ID)
	require.NoError(t, err)

	// A second write for the same queue item must not create a duplicate.
	require.NoError(t, repo.InsertRecord(ctx, Record{ID: uuid.New(), QueueID: item.ID, Status: StatusFailed}))
	again, err := repo.GetRecordByQueueID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.Equal(t, StatusSucceeded, again.Status)
	require.Len(t, repo.records, 1)
}

func TestConcurrentTransfersSingleWinner(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 0)
	account := repo.addAccount(1000)

	itemA, err := svc.Enqueue(ctx, CreateInput{SourceID: account.ID, DestinationID: wallet.ID, Amount: 1000, Type: TypeAggregatorToWallet})
	require.NoError(t, err)
	itemB, err := svc.Enqueue(ctx, CreateInput{SourceID: account.ID, DestinationID: wallet.ID, Amount: 1000, Type: TypeAggregatorToWallet})
	require.NoError(t, err)

	var wg sync.WaitGroup
	states := make([]TransferState, 2)
	errs := make([]error, 2)
	for i, id := range []uuid.UUID{itemA.ID, itemB.ID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			states[i], errs[i] = svc.Execute(ctx, id)
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var full, empty int
	for _, state := range states {
		switch state.StatusCode {
		case http.StatusOK:
			require.Equal(t, int64(1000), state.Amount)
			full++
		case http.StatusUnprocessableEntity:
			require.Equal(t, int64(0), state.Amount)
			empty++
		default:
			t.Fatalf("unexpected status code %d", state.StatusCode)
		}
	}
	require.Equal(t, 1, full)
	require.Equal(t, 1, empty)

	require.Equal(t, int64(0), repo.accounts[account.ID].Balance)
	require.Equal(t, int64(1000), repo.wallets[wallet.ID].Balance)
}

// staleReadRepo serves a frozen pending snapshot from GetQueueItem while the
// underlying store has already advanced, imitating an executor that read the
// row before another finished it.
type staleReadRepo struct {
	*memoryRepo
	stale QueueItem
}

func (r *staleReadRepo) GetQueueItem(ctx context.Context, id uuid.UUID) (QueueItem, error) {
	if id == r.stale.ID {
		return r.stale, nil
	}
	return r.memoryRepo.GetQueueItem(ctx, id)
}

func TestStaleSnapshotCannotReexecute(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 0)
	account := repo.addAccount(1000)

	item, err := svc.Enqueue(ctx, CreateInput{SourceID: account.ID, DestinationID: wallet.ID, Amount: 600, Type: TypeAggregatorToWallet})
	require.NoError(t, err)
	pendingSnapshot := item

	state, err := svc.Execute(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, state.StatusCode)
	require.Equal(t, int64(600), repo.wallets[wallet.ID].Balance)

	// A second executor still holding the pending snapshot must lose the
	// compare-and-set claim and move nothing.
	staleSvc := NewService(&staleReadRepo{memoryRepo: repo, stale: pendingSnapshot}, nil, nil, nil)
	_, err = staleSvc.Execute(ctx, item.ID)
	require.ErrorIs(t, err, ErrQueueItemNotPending)

	require.Equal(t, int64(400), repo.accounts[account.ID].Balance)
	require.Equal(t, int64(600), repo.wallets[wallet.ID].Balance)
	require.Len(t, repo.txns, 1)

	rec, err := repo.GetRecordByQueueID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, rec.Status)
	require.Equal(t, int64(600), rec.TransferAmount)
}

func TestConcurrentExecuteSameItemSingleClaim(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 0)
	account := repo.addAccount(500)

	item, err := svc.Enqueue(ctx, CreateInput{SourceID: account.ID, DestinationID: wallet.ID, Amount: 500, Type: TypeAggregatorToWallet})
	require.NoError(t, err)

	var wg sync.WaitGroup
	states := make([]TransferState, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i], errs[i] = svc.Execute(ctx, item.ID)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for i := 0; i < 2; i++ {
		switch {
		case errs[i] == nil:
			require.Equal(t, http.StatusOK, states[i].StatusCode)
			won++
		default:
			require.ErrorIs(t, errs[i], ErrQueueItemNotPending)
			lost++
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	// The transfer applied exactly once.
	require.Equal(t, int64(0), repo.accounts[account.ID].Balance)
	require.Equal(t, int64(500), repo.wallets[wallet.ID].Balance)
	require.Len(t, repo.txns, 1)
}

// conflictOnceRepo fails the first unit of work with a concurrency conflict,
// standing in for a 40001 loser under repeatable read.
type conflictOnceRepo struct {
	*memoryRepo
	conflictMu sync.Mutex
	conflicted bool
}

func (r *conflictOnceRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.conflictMu.Lock()
	first := !r.conflicted
	r.conflicted = true
	r.conflictMu.Unlock()
	if first {
		return shared.ErrConcurrencyConflict
	}
	return r.memoryRepo.WithTx(ctx, fn)
}

func TestConcurrencyConflictRestoresPending(t *testing.T) {
	base := newMemoryRepo()
	repo := &conflictOnceRepo{memoryRepo: base}
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := base.addWallet(ledger.WalletKindZakat, 0)
	account := base.addAccount(250)

	item, err := svc.Enqueue(ctx, CreateInput{SourceID: account.ID, DestinationID: wallet.ID, Amount: 250, Type: TypeAggregatorToWallet})
	require.NoError(t, err)

	_, err = svc.Execute(ctx, item.ID)
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// The row went back to pending, so the retry runs instead of bouncing
	// off a stranded processing status.
	stuck, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, stuck.Status)

	state, err := svc.Execute(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, state.StatusCode)
	require.Equal(t, int64(250), repo.wallets[wallet.ID].Balance)
}

func TestExecuteRejectsNonPending(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 0)
	account := repo.addAccount(50)

	item, _, err := svc.CreateAndExecute(ctx, CreateInput{
		SourceID:      account.ID,
		DestinationID: wallet.ID,
		Amount:        50,
		Type:          TypeAggregatorToWallet,
	})
	require.NoError(t, err)

	_, err = svc.Execute(ctx, item.ID)
	require.ErrorIs(t, err, ErrQueueItemNotPending)
}

func TestResubmitClonesFailedItem(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 0)
	account := repo.addAccount(0)

	item, _, err := svc.CreateAndExecute(ctx, CreateInput{
		SourceID:      account.ID,
		SourceName:    "Donatur",
		DestinationID: wallet.ID,
		Amount:        100,
		Type:          TypeAggregatorToWallet,
	})
	require.NoError(t, err)
	require.Equal(t, StatusFailed, item.Status)

	clone, err := svc.Resubmit(ctx, item.ID)
	require.NoError(t, err)
	require.NotEqual(t, item.ID, clone.ID)
	require.Equal(t, StatusPending, clone.Status)
	require.Equal(t, int64(0), clone.TransferAmount)
	require.Equal(t, item.Amount, clone.Amount)
	require.Equal(t, item.SourceName, clone.SourceName)

	// The original row stays for audit.
	original, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, original.Status)

	_, err = svc.Resubmit(ctx, clone.ID)
	require.ErrorIs(t, err, ErrNotResubmittable)
}

type heldGuard struct{}

func (heldGuard) Acquire(ctx context.Context, key string) error { return shared.ErrLockHeld }
func (heldGuard) Release(ctx context.Context, key string)       {}

func TestExecuteRejectsInFlightItem(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, heldGuard{}, nil)
	ctx := context.Background()

	wallet := repo.addWallet(ledger.WalletKindZakat, 0)
	account := repo.addAccount(10)

	item, err := svc.Enqueue(ctx, CreateInput{SourceID: account.ID, DestinationID: wallet.ID, Amount: 10, Type: TypeAggregatorToWallet})
	require.NoError(t, err)

	_, err = svc.Execute(ctx, item.ID)
	require.ErrorIs(t, err, ErrTransferInFlight)
}

func TestEnqueueValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, CreateInput{DestinationID: uuid.New(), Amount: 10, Type: TypeWalletToWallet})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Enqueue(ctx, CreateInput{SourceID: uuid.New(), Amount: 10, Type: TypeWalletToWallet})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Enqueue(ctx, CreateInput{SourceID: uuid.New(), DestinationID: uuid.New(), Amount: 0, Type: TypeWalletToWallet})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Enqueue(ctx, CreateInput{SourceID: uuid.New(), DestinationID: uuid.New(), Amount: 10, Type: Type("sideways")})
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestProofChecksumStored(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil, nil)
	item, err := svc.Enqueue(context.Background(), CreateInput{
		SourceID:      uuid.New(),
		DestinationID: uuid.New(),
		Amount:        10,
		Type:          TypeWalletToWallet,
		Proof:         []byte("bukti transfer"),
		ProofURL:      "https://files.example/bukti.pdf",
	})
	require.NoError(t, err)
	require.Len(t, item.ProofChecksum, 64)
	require.Equal(t, "https://files.example/bukti.pdf", item.ProofURL)

	// Same bytes, same digest.
	again, err := svc.Enqueue(context.Background(), CreateInput{
		SourceID:      uuid.New(),
		DestinationID: uuid.New(),
		Amount:        10,
		Type:          TypeWalletToWallet,
		Proof:         []byte("bukti transfer"),
	})
	require.NoError(t, err)
	require.Equal(t, item.ProofChecksum, again.ProofChecksum)
}
