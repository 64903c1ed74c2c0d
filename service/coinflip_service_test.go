package service

import (
	"context"
	"testing"

	"github.com/LevBernstein/BeardlessBot-sub000/blackjack"
	"github.com/LevBernstein/BeardlessBot-sub000/events"
	"github.com/LevBernstein/BeardlessBot-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedFlipper bool

func (f fixedFlipper) Heads() bool { return bool(f) }

func newCoinFlipFixture(heads bool) (*CoinFlipService, *MockLedger, *MockEventPublisher) {
	ledger := new(MockLedger)
	publisher := new(MockEventPublisher)
	settlement := NewSettlement(ledger, blackjack.NewRegistry(), publisher)
	return NewCoinFlipService(ledger, settlement, fixedFlipper(heads)), ledger, publisher
}

func TestCoinFlipService_Heads(t *testing.T) {
	ctx := context.Background()
	flips, ledger, publisher := newCoinFlipFixture(true)

	ledger.On("GetBalance", ctx, testPlayerID).Return(int64(300), nil)
	ledger.On("AdjustBalance", ctx, testPlayerID, int64(40), models.TransactionTypeCoinFlipWin).Return(int64(340), nil)
	publisher.On("Publish", events.GameResolvedEvent{
		Game:       "coin_flip",
		UserID:     testPlayerID,
		Wager:      40,
		Outcome:    "heads",
		Delta:      40,
		NewBalance: 340,
	}).Return()

	result, err := flips.Flip(ctx, testPlayerID, "40")

	require.NoError(t, err)
	assert.Equal(t, &models.FlipResult{Key: models.MessageFlipHeads, Heads: true, Wager: 40, NewBalance: 340}, result)
	ledger.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCoinFlipService_Tails(t *testing.T) {
	ctx := context.Background()
	flips, ledger, publisher := newCoinFlipFixture(false)

	ledger.On("GetBalance", ctx, testPlayerID).Return(int64(300), nil)
	ledger.On("AdjustBalance", ctx, testPlayerID, int64(-300), models.TransactionTypeCoinFlipLoss).Return(int64(0), nil)
	publisher.On("Publish", mock.AnythingOfType("events.GameResolvedEvent")).Return()

	result, err := flips.Flip(ctx, testPlayerID, "all")

	require.NoError(t, err)
	assert.Equal(t, models.MessageFlipTails, result.Key)
	assert.Equal(t, int64(0), result.NewBalance)
	ledger.AssertExpectations(t)
}

func TestCoinFlipService_ZeroWagerNeverAdjusts(t *testing.T) {
	for _, heads := range []bool{true, false} {
		ctx := context.Background()
		flips, ledger, publisher := newCoinFlipFixture(heads)

		ledger.On("GetBalance", ctx, testPlayerID).Return(int64(300), nil)

		result, err := flips.Flip(ctx, testPlayerID, "0")

		require.NoError(t, err)
		assert.Equal(t, models.MessageFlipNoRisk, result.Key)
		assert.Equal(t, heads, result.Heads)
		assert.Equal(t, int64(300), result.NewBalance)
		ledger.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		ledger.AssertNotCalled(t, "Forfeit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything)
	}
}

func TestCoinFlipService_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("not registered", func(t *testing.T) {
		flips, ledger, _ := newCoinFlipFixture(true)
		ledger.On("GetBalance", ctx, testPlayerID).Return(int64(0), ErrNotRegistered)

		_, err := flips.Flip(ctx, testPlayerID, "10")
		assert.ErrorIs(t, err, ErrNotRegistered)
	})

	t.Run("unparsable bet", func(t *testing.T) {
		flips, ledger, _ := newCoinFlipFixture(true)
		ledger.On("GetBalance", ctx, testPlayerID).Return(int64(100), nil)

		_, err := flips.Flip(ctx, testPlayerID, "ten")
		assert.ErrorIs(t, err, ErrInvalidBet)
		ledger.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bet above balance", func(t *testing.T) {
		flips, ledger, _ := newCoinFlipFixture(true)
		ledger.On("GetBalance", ctx, testPlayerID).Return(int64(100), nil)

		_, err := flips.Flip(ctx, testPlayerID, "500")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		ledger.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
