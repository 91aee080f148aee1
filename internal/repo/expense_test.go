package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/repo"
	"github.com/drivebook/backend/testutil"
)

// newTestExpenseRepo mirrors newTestTripRepo: one rolled-back transaction per test.
func newTestExpenseRepo(t *testing.T) repo.ExpenseRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewExpenseRepo(tx)
}

func expenseFixture() domain.Expense {
	return domain.Expense{
		ExpenseDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:    domain.CategoryGas,
		Description: "Fill-up before shift",
		Amount:      decimal.RequireFromString("40.00"),
	}
}

func TestExpenseRepo_Create(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	input := expenseFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.Positive(t, got.ID, "ID should be DB-generated")
	assert.True(t, got.ExpenseDate.Equal(input.ExpenseDate), "ExpenseDate mismatch")
	assert.Equal(t, domain.CategoryGas, got.Category)
	assert.Equal(t, input.Description, got.Description)
	assert.True(t, got.Amount.Equal(input.Amount), "Amount mismatch: %s", got.Amount)
	assert.False(t, got.HasReceipt)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestExpenseRepo_Create_AmountScale(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	// NUMERIC(12,2) rounds sub-cent input; 12.345 is stored as 12.35 (round half up).
	input := expenseFixture()
	input.Amount = decimal.RequireFromString("12.345")

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("12.35")),
		"expected 12.35, got %s", got.Amount)
}

func TestExpenseRepo_Create_WithReceipt(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	receipt := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
	input := expenseFixture()
	input.Receipt = receipt

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.True(t, got.HasReceipt)

	stored, err := r.GetReceipt(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt, stored, "receipt bytes should round-trip")
}

func TestExpenseRepo_GetByID(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, expenseFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Amount.Equal(created.Amount))
}

func TestExpenseRepo_GetByID_NotFound(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, 999_999_999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseRepo_GetReceipt_NoReceipt(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, expenseFixture())
	require.NoError(t, err)

	_, err = r.GetReceipt(ctx, created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseRepo_List_Ordering(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	older := expenseFixture()
	older.ExpenseDate = time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	newer := expenseFixture()

	createdOlder, err := r.Create(ctx, older)
	require.NoError(t, err)
	createdNewer, err := r.Create(ctx, newer)
	require.NoError(t, err)

	expenses, err := r.List(ctx)
	require.NoError(t, err)

	pos := make(map[int64]int)
	for i, e := range expenses {
		pos[e.ID] = i
	}
	require.Contains(t, pos, createdOlder.ID)
	require.Contains(t, pos, createdNewer.ID)
	assert.Less(t, pos[createdNewer.ID], pos[createdOlder.ID],
		"newer expense_date comes before older")
}

func TestExpenseRepo_ListPaged(t *testing.T) {
	r := newTestExpenseRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.Create(ctx, expenseFixture())
		require.NoError(t, err)
	}

	page, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})

	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.GreaterOrEqual(t, total, int64(3))
}
