package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LevBernstein/BeardlessBot-sub000/blackjack"
	"github.com/LevBernstein/BeardlessBot-sub000/events"
	"github.com/LevBernstein/BeardlessBot-sub000/models"
	log "github.com/sirupsen/logrus"
)

const (
	gameBlackjack = "blackjack"
	gameCoinFlip  = "coin_flip"
)

// Settlement turns game outcomes into ledger adjustments. It is the only
// place game results move money.
type Settlement struct {
	ledger    Ledger
	registry  *blackjack.Registry
	publisher EventPublisher
}

// NewSettlement creates a settlement over ledger. Settled blackjack
// sessions are released from registry; publisher may be nil.
func NewSettlement(ledger Ledger, registry *blackjack.Registry, publisher EventPublisher) *Settlement {
	return &Settlement{
		ledger:    ledger,
		registry:  registry,
		publisher: publisher,
	}
}

// SettleBlackjack pays out a resolved session and releases it. When the
// ledger write fails the session stays registered, unsettled, so the
// owner's next blackjack command can retry it.
func (s *Settlement) SettleBlackjack(ctx context.Context, session *blackjack.Session) (*models.BlackjackResult, error) {
	view := session.View()
	if view.State != blackjack.StateResolved {
		return nil, fmt.Errorf("cannot settle session %s: hand is still being played", view.ID)
	}

	var result *models.BlackjackResult
	err := session.Settle(func(view blackjack.View) error {
		delta := BlackjackDelta(view.Outcome, view.Wager)
		newBalance, err := s.apply(ctx, view.Owner, delta, models.TransactionTypeBlackjackWin, models.TransactionTypeBlackjackLoss)
		if err != nil {
			log.WithFields(log.Fields{
				"sessionID": view.ID,
				"discordID": view.Owner,
				"outcome":   view.Outcome.String(),
				"wager":     view.Wager,
				"error":     err,
			}).Error("Failed to settle blackjack hand, keeping it for retry")
			return fmt.Errorf("failed to settle blackjack hand: %w", err)
		}

		s.publish(gameBlackjack, view.Owner, view.Wager, view.Outcome.String(), delta, newBalance)

		result = blackjackResult(view)
		result.Delta = delta
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.registry.Release(session)
	return result, nil
}

// SettleFlip pays out a coin flip. A zero wager never reaches the ledger.
func (s *Settlement) SettleFlip(ctx context.Context, discordID int64, wager int64, heads bool) (int64, error) {
	if wager == 0 {
		return s.ledger.GetBalance(ctx, discordID)
	}

	delta := -wager
	outcome := "tails"
	if heads {
		delta = wager
		outcome = "heads"
	}

	newBalance, err := s.apply(ctx, discordID, delta, models.TransactionTypeCoinFlipWin, models.TransactionTypeCoinFlipLoss)
	if err != nil {
		return 0, fmt.Errorf("failed to settle coin flip: %w", err)
	}

	s.publish(gameCoinFlip, discordID, wager, outcome, delta, newBalance)
	return newBalance, nil
}

// BlackjackDelta is the ledger change for an outcome
func BlackjackDelta(outcome blackjack.Outcome, wager int64) int64 {
	switch outcome {
	case blackjack.OutcomeNaturalWin, blackjack.OutcomeWin:
		return wager
	case blackjack.OutcomeLoss, blackjack.OutcomeBust:
		return -wager
	default:
		return 0
	}
}

func (s *Settlement) apply(ctx context.Context, discordID, delta int64, winType, lossType models.TransactionType) (int64, error) {
	switch {
	case delta == 0:
		return s.ledger.GetBalance(ctx, discordID)
	case delta > 0:
		return s.ledger.AdjustBalance(ctx, discordID, delta, winType)
	}

	newBalance, err := s.ledger.AdjustBalance(ctx, discordID, delta, lossType)
	if !errors.Is(err, ErrInsufficientFunds) {
		return newBalance, err
	}

	// The wager was validated at the start, so the balance was spent
	// elsewhere mid-game. The loss takes whatever is left.
	log.WithFields(log.Fields{
		"discordID": discordID,
		"wager":     -delta,
	}).Warn("Balance drained during game, forfeiting remainder")
	return s.ledger.Forfeit(ctx, discordID, -delta, lossType)
}

func (s *Settlement) publish(game string, discordID, wager int64, outcome string, delta, newBalance int64) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.GameResolvedEvent{
		Game:       game,
		UserID:     discordID,
		Wager:      wager,
		Outcome:    outcome,
		Delta:      delta,
		NewBalance: newBalance,
	})
}

// blackjackResult converts a view into the caller-facing result
func blackjackResult(view blackjack.View) *models.BlackjackResult {
	return &models.BlackjackResult{
		Key:         blackjackMessageKey(view),
		Cards:       view.Cards,
		Total:       view.Total,
		DealerTotal: view.DealerTotal,
		Wager:       view.Wager,
		Outcome:     view.Outcome.String(),
		Resolved:    view.State == blackjack.StateResolved,
	}
}

func blackjackMessageKey(view blackjack.View) models.MessageKey {
	switch view.Outcome {
	case blackjack.OutcomeNaturalWin:
		return models.MessageBlackjackNatural
	case blackjack.OutcomeWin:
		if view.DealerTotal > 21 {
			return models.MessageBlackjackDealerBust
		}
		return models.MessageBlackjackWin
	case blackjack.OutcomePush:
		return models.MessageBlackjackPush
	case blackjack.OutcomeLoss:
		return models.MessageBlackjackLoss
	case blackjack.OutcomeBust:
		return models.MessageBlackjackBust
	default:
		return models.MessageBlackjackInProgress
	}
}
