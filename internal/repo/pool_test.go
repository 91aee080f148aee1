package repo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivebook/backend/internal/repo"
	"github.com/drivebook/backend/testutil"
)

// TestNewPool_InvalidDSN needs no database: ParseConfig rejects the DSN.
func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := repo.NewPool(context.Background(), "://not-a-dsn")

	assert.Error(t, err)
}

// TestNewPool_DecimalRoundTrip verifies the decimal codec is registered on
// pool connections: a NUMERIC value must scan into decimal.Decimal and an
// encoded decimal must survive a round-trip through Postgres unchanged.
func TestNewPool_DecimalRoundTrip(t *testing.T) {
	pool := testutil.NewPool(t)
	ctx := context.Background()

	var got decimal.Decimal
	err := pool.QueryRow(ctx, `SELECT 123.45::numeric(12,2)`).Scan(&got)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("123.45")), "got %s", got)

	sent := decimal.RequireFromString("89.50125")
	var back decimal.Decimal
	err = pool.QueryRow(ctx, `SELECT $1::numeric`, sent).Scan(&back)
	require.NoError(t, err)
	assert.True(t, back.Equal(sent), "sent %s, got back %s", sent, back)
}
