package transfer

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// CreateInput groups fields required to enqueue a transfer.
type CreateInput struct {
	SourceID        uuid.UUID
	SourceName      string
	DestinationID   uuid.UUID
	DestinationName string
	Amount          int64
	Type            Type
	// Proof is an optional attachment supporting the transfer request. Its
	// SHA3-256 digest is stored next to the URL so audits can detect a
	// swapped attachment.
	Proof    []byte
	ProofURL string
	ActorID  string
}

// Validate ensures the input meets minimum criteria. Every failure wraps
// ErrInvalidInput so callers can map the whole class.
func (in CreateInput) Validate() error {
	if in.SourceID == uuid.Nil {
		return fmt.Errorf("%w: source id required", ErrInvalidInput)
	}
	if in.DestinationID == uuid.Nil {
		return fmt.Errorf("%w: destination id required", ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidInput, in.Amount)
	}
	if !in.Type.Valid() {
		return ErrUnknownType
	}
	return nil
}

func (in CreateInput) proofChecksum() string {
	if len(in.Proof) == 0 {
		return ""
	}
	sum := sha3.Sum256(in.Proof)
	return hex.EncodeToString(sum[:])
}
