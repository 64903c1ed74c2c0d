package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
	"github.com/LevBernstein/BeardlessBot-sub000/service"

	log "github.com/sirupsen/logrus"
)

const currency = "BeardlessBucks"

// RenderRegister renders the register command result
func RenderRegister(discordID int64, created bool, balance int64, prefix string) string {
	if created {
		return fmt.Sprintf("Successfully registered. You have %s %s, %s.",
			FormatBalance(balance), currency, mention(discordID))
	}
	return fmt.Sprintf("You are already in the system! Hooray! You have %s %s, %s. Use %sreset to start over.",
		FormatBalance(balance), currency, mention(discordID), prefix)
}

// RenderBalance renders a balance lookup
func RenderBalance(discordID int64, balance int64) string {
	return fmt.Sprintf("%s's balance is %s %s.", mention(discordID), FormatBalance(balance), currency)
}

// RenderReset renders the reset command result
func RenderReset(discordID int64, balance int64) string {
	return fmt.Sprintf("You have been reset to %s %s, %s.", FormatBalance(balance), currency, mention(discordID))
}

// RenderLeaderboard renders the leaderboard, one line per entry
func RenderLeaderboard(entries []models.LeaderboardEntry) string {
	if len(entries) == 0 {
		return "Nobody on the leaderboard yet. Be the first to register!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s Leaderboard**", currency)
	for i, entry := range entries {
		fmt.Fprintf(&b, "\n%d. %s: %s", i+1, entry.Name, FormatBalance(entry.Balance))
	}
	return b.String()
}

// RenderHistory renders recent ledger entries, newest first
func RenderHistory(discordID int64, history []*models.BalanceHistory) string {
	if len(history) == 0 {
		return fmt.Sprintf("No transactions yet, %s.", mention(discordID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recent transactions for %s:", mention(discordID))
	for _, entry := range history {
		fmt.Fprintf(&b, "\n%s: %+d (%s → %s)",
			entry.TransactionType, entry.ChangeAmount,
			FormatBalance(entry.BalanceBefore), FormatBalance(entry.BalanceAfter))
	}
	return b.String()
}

// RenderFlip renders a coin flip result
func RenderFlip(discordID int64, result *models.FlipResult) string {
	face := "Tails"
	if result.Heads {
		face = "Heads"
	}

	switch result.Key {
	case models.MessageFlipHeads:
		return fmt.Sprintf("Heads! You win %s %s! Your balance is now %s, %s.",
			FormatBalance(result.Wager), currency, FormatBalance(result.NewBalance), mention(discordID))
	case models.MessageFlipTails:
		return fmt.Sprintf("Tails! You lose %s %s. Your balance is now %s, %s.",
			FormatBalance(result.Wager), currency, FormatBalance(result.NewBalance), mention(discordID))
	default:
		return fmt.Sprintf("%s! No risk, no reward. Your balance is still %s, %s.",
			face, FormatBalance(result.NewBalance), mention(discordID))
	}
}

// RenderBlackjack renders a hand after start, hit or stand
func RenderBlackjack(discordID int64, result *models.BlackjackResult, prefix string) string {
	hand := fmt.Sprintf("Your cards are %s, for a total of %d.", joinCards(result.Cards), result.Total)

	var outcome string
	switch result.Key {
	case models.MessageBlackjackInProgress:
		return fmt.Sprintf("%s Type %shit to deal another card to yourself, or %sstand to stop at your current total, %s.",
			hand, prefix, prefix, mention(discordID))
	case models.MessageBlackjackNatural:
		outcome = fmt.Sprintf("You hit 21! You win %s %s!", FormatBalance(result.Wager), currency)
	case models.MessageBlackjackWin:
		outcome = fmt.Sprintf("The dealer has %d. You win %s %s!", result.DealerTotal, FormatBalance(result.Wager), currency)
	case models.MessageBlackjackDealerBust:
		outcome = fmt.Sprintf("The dealer busted with %d. You win %s %s!", result.DealerTotal, FormatBalance(result.Wager), currency)
	case models.MessageBlackjackPush:
		outcome = fmt.Sprintf("The dealer also has %d. It's a push, your bet is returned.", result.DealerTotal)
	case models.MessageBlackjackLoss:
		outcome = fmt.Sprintf("The dealer has %d. You lose %s %s.", result.DealerTotal, FormatBalance(result.Wager), currency)
	case models.MessageBlackjackBust:
		outcome = fmt.Sprintf("You busted. You lose %s %s.", FormatBalance(result.Wager), currency)
	default:
		outcome = "The game is over."
	}

	return fmt.Sprintf("%s %s Your balance is now %s, %s.",
		hand, outcome, FormatBalance(result.NewBalance), mention(discordID))
}

// RenderRoll renders an unwagered dice roll
func RenderRoll(discordID int64, result *models.RollResult) string {
	if result.Modifier == 0 {
		return fmt.Sprintf("You rolled a %d on a d%d, %s.", result.Total, result.Sides, mention(discordID))
	}
	return fmt.Sprintf("You rolled %d on a d%d, %+d, for a total of %d, %s.",
		result.Rolled, result.Sides, result.Modifier, result.Total, mention(discordID))
}

// RenderError maps a command failure to the text shown in the channel.
// Unknown errors are logged and reported generically.
func RenderError(discordID int64, err error, prefix string) string {
	switch {
	case errors.Is(err, service.ErrNotRegistered):
		return fmt.Sprintf("You are not in the system, %s. Type %sregister to get started.", mention(discordID), prefix)
	case errors.Is(err, service.ErrInvalidBet):
		return fmt.Sprintf("Invalid bet, %s. Choose a whole number of %s that is at least 0, or \"all\" to bet your whole balance.", mention(discordID), currency)
	case errors.Is(err, service.ErrInsufficientFunds):
		return fmt.Sprintf("You do not have enough %s to bet that much, %s!", currency, mention(discordID))
	case errors.Is(err, service.ErrInvalidName):
		return fmt.Sprintf("Your name contains a comma, which the ledger cannot store, %s. Change your name and try again.", mention(discordID))
	case errors.Is(err, service.ErrAlreadyActive):
		return fmt.Sprintf("You already have a game of blackjack going, %s. Finish it with %shit or %sstand.", mention(discordID), prefix, prefix)
	case errors.Is(err, service.ErrNoActiveSession):
		return fmt.Sprintf("You do not have a game of blackjack going, %s. Type %sblackjack to start one.", mention(discordID), prefix)
	case errors.Is(err, service.ErrSessionResolved):
		return fmt.Sprintf("That game is already over, %s.", mention(discordID))
	case errors.Is(err, service.ErrPendingSettle):
		return fmt.Sprintf("Your last game of blackjack is still being paid out, %s. Try again in a moment.", mention(discordID))
	case errors.Is(err, service.ErrInvalidDice):
		return fmt.Sprintf("Invalid roll, %s. Use %sroll dN where N is 4, 6, 8, 10, 12, 20 or 100, optionally followed by +M or -M.", mention(discordID), prefix)
	default:
		log.WithFields(log.Fields{
			"user":  discordID,
			"error": err,
		}).Error("Command failed")
		return "Something went wrong. Please try again later."
	}
}
