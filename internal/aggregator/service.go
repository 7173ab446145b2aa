package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service manages per-donor pooled balances.
type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

// NewService builds Service.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreditInput describes one micro-donation credit.
type CreditInput struct {
	DonorID uuid.UUID
	Amount  int64
	Date    time.Time
	// DocumentID references the posted NuCoin record. Generated when absent.
	DocumentID uuid.UUID
	ActorID    string
}

// Credit adds a micro-donation to the donor's pooled balance, creating the
// account on first use. The balance change and its NuCoin ledger entry commit
// in one unit of work.
func (s *Service) Credit(ctx context.Context, input CreditInput) (Account, error) {
	if input.Amount <= 0 {
		return Account{}, ErrInvalidAmount
	}
	if input.DonorID == uuid.Nil {
		return Account{}, errors.New("aggregator: donor id required")
	}
	docID := input.DocumentID
	if docID == uuid.Nil {
		docID = uuid.New()
	}
	date := input.Date
	if date.IsZero() {
		date = s.now().UTC()
	}
	var account Account
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetAccountForUpdate(ctx, input.DonorID)
		if errors.Is(err, ErrAccountNotFound) {
			now := s.now().UTC()
			current = Account{ID: uuid.New(), DonorID: input.DonorID, CreatedAt: now, UpdatedAt: now}
			if err := tx.InsertAccount(ctx, current); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		current.Balance += input.Amount
		current.UpdatedAt = s.now().UTC()
		if err := tx.UpdateAccountBalance(ctx, current.ID, current.Balance); err != nil {
			return err
		}
		account = current
		return tx.InsertLedgerTransaction(ctx, ledger.Transaction{
			ID:          uuid.New(),
			WalletID:    nil,
			Source:      ledger.SourceDocument{Kind: ledger.SourceNuCoin, DocumentID: docID},
			Amount:      input.Amount,
			Date:        date,
			Description: "NU Coin credit",
			CreatedAt:   s.now().UTC(),
		})
	})
	if err != nil {
		return Account{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  input.ActorID,
			Action:   "aggregator.credit",
			Entity:   "aggregator_account",
			EntityID: account.ID.String(),
			Meta:     map[string]any{"donor_id": input.DonorID.String(), "amount": input.Amount},
			At:       s.now(),
		})
	}
	return account, nil
}

// Debit removes the full amount from the donor's pooled balance or nothing
// at all. Partial debits belong to the transfer invoker, not this layer.
func (s *Service) Debit(ctx context.Context, donorID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		account, err := tx.GetAccountForUpdate(ctx, donorID)
		if err != nil {
			return err
		}
		if account.Balance < amount {
			return shared.ErrInsufficientFunds
		}
		return tx.UpdateAccountBalance(ctx, account.ID, account.Balance-amount)
	})
}

// Get returns the donor's account.
func (s *Service) Get(ctx context.Context, donorID uuid.UUID) (Account, error) {
	return s.repo.GetByDonor(ctx, donorID)
}
