package aggregator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/amanah-zis/amanah-zis/internal/shared"
)

func TestMapConflict(t *testing.T) {
	retryable := []string{
		"55P03", // lock not available
		"40001", // serialization failure
		"23505", // duplicate donor account from a lazy-create race
	}
	for _, code := range retryable {
		err := mapConflict(fmt.Errorf("tx failed: %w", &pgconn.PgError{Code: code}))
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict, "code %s", code)
	}

	fk := &pgconn.PgError{Code: "23503"}
	require.ErrorIs(t, mapConflict(fk), fk)

	plain := errors.New("saldo tidak cukup")
	require.ErrorIs(t, mapConflict(plain), plain)
}
