package repository

import (
	"context"
	"testing"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
	"github.com/LevBernstein/BeardlessBot-sub000/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository_RecordAndGetByUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	_, _, err := accounts.Create(ctx, 1, "holder", 300)
	require.NoError(t, err)

	first := testutil.CreateTestBalanceHistoryWithAmounts(1, 0, 300, 300, models.TransactionTypeInitial)
	require.NoError(t, repo.Record(ctx, first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := testutil.CreateTestBalanceHistory(1, models.TransactionTypeCoinFlipLoss)
	second.TransactionMetadata = map[string]any{"requested_change": -10}
	require.NoError(t, repo.Record(ctx, second))

	t.Run("newest first", func(t *testing.T) {
		history, err := repo.GetByUser(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, second.ID, history[0].ID)
		assert.Equal(t, models.TransactionTypeInitial, history[1].TransactionType)
		// JSON numbers come back as float64
		assert.Equal(t, float64(-10), history[0].TransactionMetadata["requested_change"])
	})

	t.Run("limit", func(t *testing.T) {
		history, err := repo.GetByUser(ctx, 1, 1)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("unknown account has no history", func(t *testing.T) {
		history, err := repo.GetByUser(ctx, 404, 10)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("history requires an account", func(t *testing.T) {
		orphan := testutil.CreateTestBalanceHistory(404, models.TransactionTypeReset)
		assert.Error(t, repo.Record(ctx, orphan))
	})
}
