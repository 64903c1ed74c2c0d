package bot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
	"github.com/LevBernstein/BeardlessBot-sub000/service"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "0", FormatBalance(0))
	assert.Equal(t, "300", FormatBalance(300))
	assert.Equal(t, "1,000", FormatBalance(1000))
	assert.Equal(t, "1,234,567", FormatBalance(1234567))
	assert.Equal(t, "-1,500", FormatBalance(-1500))
}

func TestJoinCards(t *testing.T) {
	assert.Equal(t, "", joinCards(nil))
	assert.Equal(t, "7", joinCards([]int{7}))
	assert.Equal(t, "10 and 5", joinCards([]int{10, 5}))
	assert.Equal(t, "10, 5 and 1", joinCards([]int{10, 5, 1}))
}

func TestRenderLeaderboard(t *testing.T) {
	assert.Contains(t, RenderLeaderboard(nil), "Nobody")

	text := RenderLeaderboard([]models.LeaderboardEntry{
		{Name: "second", Balance: 800},
		{Name: "first", Balance: 1500},
	})
	assert.Contains(t, text, "1. second: 800")
	assert.Contains(t, text, "2. first: 1,500")
}

func TestRenderBlackjack(t *testing.T) {
	inProgress := RenderBlackjack(1, &models.BlackjackResult{
		Key:   models.MessageBlackjackInProgress,
		Cards: []int{10, 5},
		Total: 15,
	}, "!")
	assert.Contains(t, inProgress, "10 and 5")
	assert.Contains(t, inProgress, "!hit")
	assert.NotContains(t, inProgress, "balance")

	dealerBust := RenderBlackjack(1, &models.BlackjackResult{
		Key:         models.MessageBlackjackDealerBust,
		Cards:       []int{10, 8},
		Total:       18,
		DealerTotal: 24,
		Wager:       20,
		Resolved:    true,
		NewBalance:  320,
	}, "!")
	assert.Contains(t, dealerBust, "busted with 24")
	assert.Contains(t, dealerBust, "320")
}

func TestRenderRoll(t *testing.T) {
	assert.Equal(t, "You rolled a 17 on a d20, <@1>.", RenderRoll(1, &models.RollResult{Sides: 20, Rolled: 17, Total: 17}))
	assert.Equal(t, "You rolled 3 on a d6, -2, for a total of 1, <@1>.",
		RenderRoll(1, &models.RollResult{Sides: 6, Rolled: 3, Modifier: -2, Total: 1}))
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{service.ErrNotRegistered, "not in the system"},
		{fmt.Errorf("lookup: %w", service.ErrNotRegistered), "not in the system"},
		{service.ErrInvalidBet, "Invalid bet"},
		{service.ErrInsufficientFunds, "do not have enough"},
		{service.ErrInvalidName, "comma"},
		{service.ErrAlreadyActive, "already have a game"},
		{service.ErrNoActiveSession, "do not have a game"},
		{service.ErrSessionResolved, "already over"},
		{service.ErrPendingSettle, "still being paid out"},
		{service.ErrInvalidDice, "Invalid roll"},
		{errors.New("connection refused"), "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Contains(t, RenderError(7, tt.err, "!"), tt.want)
		})
	}
}
