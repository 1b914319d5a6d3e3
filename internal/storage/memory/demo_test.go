package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/storage"
)

func TestSeedDemo_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	seeded, err := storage.SeedDemo(ctx, s, "hash", today)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = storage.SeedDemo(ctx, s, "hash", today)
	require.NoError(t, err)
	assert.False(t, seeded)

	u, _, err := s.GetUserByEmail(ctx, storage.DemoEmail)
	require.NoError(t, err)

	txs, err := s.ListTransactions(ctx, u.ID, storage.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txs, 14)

	accounts, err := s.ListAccounts(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	budgets, err := s.ListBudgets(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 3)
	assert.Equal(t, "2024-03-01", budgets[0].StartDate.Format("2006-01-02"))
	assert.Equal(t, "2024-03-31", budgets[0].EndDate.Format("2006-01-02"))
}

type failingBudgets struct {
	*Store
	fail bool
}

func (f *failingBudgets) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if f.fail {
		return core.Budget{}, core.DataAccess("Failed to create budget", errors.New("connection reset"))
	}
	return f.Store.CreateBudget(ctx, b)
}

func TestSeedDemo_RemovesPartialUserOnFailure(t *testing.T) {
	ctx := context.Background()
	s := &failingBudgets{Store: New(), fail: true}
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	seeded, err := storage.SeedDemo(ctx, s, "hash", today)
	require.Error(t, err)
	assert.False(t, seeded)
	assert.ErrorIs(t, err, core.ErrDataAccess)

	_, _, err = s.GetUserByEmail(ctx, storage.DemoEmail)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, s.transactions)
	assert.Empty(t, s.accounts)
	assert.Empty(t, s.budgets)

	s.fail = false
	seeded, err = storage.SeedDemo(ctx, s, "hash", today)
	require.NoError(t, err)
	assert.True(t, seeded)

	u, _, err := s.GetUserByEmail(ctx, storage.DemoEmail)
	require.NoError(t, err)
	budgets, err := s.ListBudgets(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, budgets, 3)
}
