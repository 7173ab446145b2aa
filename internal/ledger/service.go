package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service is the ledger store: the single writer of wallet balances.
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

// PostInput groups fields required to post a ledger transaction.
type PostInput struct {
	WalletID    *uuid.UUID
	Source      SourceDocument
	Amount      int64
	Date        time.Time
	Description string
	ActorID     string
}

// PostTransaction records one balance-affecting event. When the input
// references a wallet, the balance change and the transaction insert share
// one unit of work; a debit that would drive the balance negative aborts with
// no partial effect. Callers own retry policy.
func (s *Service) PostTransaction(ctx context.Context, input PostInput) (Transaction, error) {
	if input.Amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if !input.Source.Kind.Valid() {
		return Transaction{}, ErrUnknownSourceKind
	}
	date := input.Date
	if date.IsZero() {
		date = s.now().UTC()
	}
	txn := Transaction{
		ID:          uuid.New(),
		WalletID:    input.WalletID,
		Source:      input.Source,
		Amount:      input.Amount,
		Date:        date,
		Description: input.Description,
		CreatedAt:   s.now().UTC(),
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if input.WalletID != nil {
			wallet, err := tx.GetWalletForUpdate(ctx, *input.WalletID)
			if err != nil {
				return err
			}
			balance := wallet.Balance
			switch input.Source.Kind.Direction() {
			case DirectionCredit:
				balance += input.Amount
			case DirectionDebit:
				if wallet.Balance < input.Amount {
					return shared.ErrInsufficientFunds
				}
				balance -= input.Amount
			}
			if err := tx.UpdateWalletBalance(ctx, wallet.ID, balance); err != nil {
				return err
			}
		}
		return tx.InsertTransaction(ctx, txn)
	})
	if err != nil {
		return Transaction{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  input.ActorID,
			Action:   "ledger.post",
			Entity:   "ledger_transaction",
			EntityID: txn.ID.String(),
			Meta: map[string]any{
				"source_kind": string(txn.Source.Kind),
				"amount":      txn.Amount,
			},
			At: s.now(),
		})
	}
	return txn, nil
}

// CreateWalletInput describes a wallet to provision.
type CreateWalletInput struct {
	OrganizationID uuid.UUID
	Kind           WalletKind
	ActorID        string
}

// CreateWallet provisions a wallet with a zero balance. Wallets are created
// when an organization is provisioned and never physically deleted.
func (s *Service) CreateWallet(ctx context.Context, input CreateWalletInput) (Wallet, error) {
	if !input.Kind.Valid() {
		return Wallet{}, ErrUnknownWalletKind
	}
	now := s.now().UTC()
	wallet := Wallet{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Kind:           input.Kind,
		Balance:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.InsertWallet(ctx, wallet)
	})
	if err != nil {
		return Wallet{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  input.ActorID,
			Action:   "ledger.wallet.create",
			Entity:   "wallet",
			EntityID: wallet.ID.String(),
			Meta:     map[string]any{"kind": string(wallet.Kind)},
			At:       now,
		})
	}
	return wallet, nil
}

// GetWallet returns the wallet with its current balance.
func (s *Service) GetWallet(ctx context.Context, id uuid.UUID) (Wallet, error) {
	return s.repo.GetWallet(ctx, id)
}

// ListTransactions lists a wallet's ledger entries.
func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}
