package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/events"
	"github.com/LevBernstein/BeardlessBot-sub000/models"
	"github.com/LevBernstein/BeardlessBot-sub000/repository/testutil"
	"github.com/LevBernstein/BeardlessBot-sub000/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var mu sync.Mutex
	var received []events.Event
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	t.Run("rollback discards writes and events", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		_, _, err := uow.AccountRepository().Create(ctx, 1, "ghost", 300)
		require.NoError(t, err)
		uow.EventBus().Publish(events.AccountCreatedEvent{DiscordID: 1, Username: "ghost"})
		require.NoError(t, uow.Rollback())

		account, err := NewAccountRepository(testDB.DB).GetByDiscordID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("commit persists writes and flushes events", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		_, _, err := uow.AccountRepository().Create(ctx, 2, "kept", 300)
		require.NoError(t, err)
		uow.EventBus().Publish(events.AccountCreatedEvent{DiscordID: 2, Username: "kept"})
		require.NoError(t, uow.Commit())

		account, err := NewAccountRepository(testDB.DB).GetByDiscordID(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(received) == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("double begin fails", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		assert.Error(t, uow.Begin(ctx))
		require.NoError(t, uow.Rollback())
	})
}

func TestLedgerService_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	ledger := service.NewLedgerService(NewUnitOfWorkFactory(testDB.DB, events.NewBus()))

	created, balance, err := ledger.Register(ctx, 1, "beardless#1234")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(300), balance)

	t.Run("concurrent adjustments net to zero", func(t *testing.T) {
		var g errgroup.Group
		for i := 0; i < 25; i++ {
			g.Go(func() error {
				_, err := ledger.AdjustBalance(ctx, 1, 3, models.TransactionTypeCoinFlipWin)
				return err
			})
			g.Go(func() error {
				_, err := ledger.AdjustBalance(ctx, 1, -3, models.TransactionTypeCoinFlipLoss)
				return err
			})
		}
		require.NoError(t, g.Wait())

		balance, err := ledger.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(300), balance)
	})

	t.Run("overdraft refused", func(t *testing.T) {
		_, err := ledger.AdjustBalance(ctx, 1, -301, models.TransactionTypeBlackjackLoss)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	})

	t.Run("reset and leaderboard", func(t *testing.T) {
		balance, err := ledger.Reset(ctx, 1, "beardless#1234")
		require.NoError(t, err)
		assert.Equal(t, int64(200), balance)

		top, err := ledger.TopN(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []models.LeaderboardEntry{{Name: "beardless", Balance: 200}}, top)
	})
}
