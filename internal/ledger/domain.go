package ledger

import (
	"time"

	"github.com/google/uuid"
)

// WalletKind classifies which program a wallet funds.
type WalletKind string

const (
	WalletKindZakat      WalletKind = "zakat"
	WalletKindInfaq      WalletKind = "infaq"
	WalletKindAmil       WalletKind = "amil"
	WalletKindNonHalal   WalletKind = "non_halal"
	WalletKindAggregator WalletKind = "aggregator"
)

// Valid reports whether the kind is a member of the closed set.
func (k WalletKind) Valid() bool {
	switch k {
	case WalletKindZakat, WalletKindInfaq, WalletKindAmil, WalletKindNonHalal, WalletKindAggregator:
		return true
	}
	return false
}

// Wallet holds one organization's balance for a program category.
// Balance is an integer in the smallest currency unit and never goes
// negative; every change is paired with exactly one Transaction row in the
// same unit of work.
type Wallet struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Kind           WalletKind
	Balance        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Direction tells whether a posting credits or debits a wallet.
type Direction int

const (
	DirectionCredit Direction = iota
	DirectionDebit
)

// SourceKind enumerates the closed set of source documents a transaction can
// reference. The set is mutually exclusive: a transaction carries exactly one.
type SourceKind string

const (
	SourceAmilFunding                 SourceKind = "AmilFunding"
	SourceDskl                        SourceKind = "Dskl"
	SourceInfaq                       SourceKind = "Infaq"
	SourceNuCoin                      SourceKind = "NuCoin"
	SourceNuCoinAggregator            SourceKind = "NuCoinAggregator"
	SourceZakat                       SourceKind = "Zakat"
	SourceZakatDistribution           SourceKind = "ZakatDistribution"
	SourceNonHalalFundingReceive      SourceKind = "NonHalalFundingReceive"
	SourceNonHalalFundingDistribution SourceKind = "NonHalalFundingDistribution"
	SourceInfaqDistribution           SourceKind = "InfaqDistribution"
	SourceAmilFundingUsage            SourceKind = "AmilFundingUsage"
)

// Valid reports membership in the closed set.
func (k SourceKind) Valid() bool {
	_, ok := sourceDirections[k]
	return ok
}

// Direction returns the balance effect implied by the source kind: funding
// receipts credit, distributions and usages debit.
func (k SourceKind) Direction() Direction {
	return sourceDirections[k]
}

// CreditKinds returns every source kind that credits a wallet.
func CreditKinds() []SourceKind {
	var out []SourceKind
	for kind, dir := range sourceDirections {
		if dir == DirectionCredit {
			out = append(out, kind)
		}
	}
	return out
}

var sourceDirections = map[SourceKind]Direction{
	SourceAmilFunding:                 DirectionCredit,
	SourceDskl:                        DirectionCredit,
	SourceInfaq:                       DirectionCredit,
	SourceNuCoin:                      DirectionCredit,
	SourceNuCoinAggregator:            DirectionCredit,
	SourceZakat:                       DirectionCredit,
	SourceNonHalalFundingReceive:      DirectionCredit,
	SourceZakatDistribution:           DirectionDebit,
	SourceNonHalalFundingDistribution: DirectionDebit,
	SourceInfaqDistribution:           DirectionDebit,
	SourceAmilFundingUsage:            DirectionDebit,
}

// SourceDocument tags a transaction with its originating document. The pair
// replaces one-nullable-column-per-document-type with a tagged union.
type SourceDocument struct {
	Kind       SourceKind
	DocumentID uuid.UUID
}

// Transaction is an immutable ledger entry recording one balance-affecting
// event. Corrections are new offsetting transactions, never updates.
type Transaction struct {
	ID          uuid.UUID
	WalletID    *uuid.UUID
	Source      SourceDocument
	Amount      int64
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// ReceiveKindFor maps a wallet kind to the source kind used when the wallet
// receives transferred funds.
func ReceiveKindFor(kind WalletKind) SourceKind {
	switch kind {
	case WalletKindZakat:
		return SourceZakat
	case WalletKindInfaq:
		return SourceInfaq
	case WalletKindAmil:
		return SourceAmilFunding
	case WalletKindNonHalal:
		return SourceNonHalalFundingReceive
	default:
		return SourceNuCoinAggregator
	}
}

// DistributionKindFor maps a wallet kind to the source kind used when funds
// leave the wallet.
func DistributionKindFor(kind WalletKind) SourceKind {
	switch kind {
	case WalletKindZakat:
		return SourceZakatDistribution
	case WalletKindInfaq:
		return SourceInfaqDistribution
	case WalletKindAmil:
		return SourceAmilFundingUsage
	default:
		return SourceNonHalalFundingDistribution
	}
}
