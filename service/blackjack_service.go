package service

import (
	"context"
	"errors"

	"github.com/LevBernstein/BeardlessBot-sub000/blackjack"
	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

// BlackjackService runs blackjack hands and settles them
type BlackjackService struct {
	ledger     Ledger
	registry   *blackjack.Registry
	settlement *Settlement
	source     blackjack.CardSource
}

// NewBlackjackService creates a new blackjack service. source must be safe
// for concurrent use; every hand draws from it.
func NewBlackjackService(ledger Ledger, registry *blackjack.Registry, settlement *Settlement, source blackjack.CardSource) *BlackjackService {
	return &BlackjackService{
		ledger:     ledger,
		registry:   registry,
		settlement: settlement,
		source:     source,
	}
}

// Start deals a new hand for betToken. A two-card 21 is settled before
// Start returns. Start, Hit and Stand first retry the payout of a hand
// whose settlement failed and return that result instead.
func (s *BlackjackService) Start(ctx context.Context, discordID int64, betToken string) (*models.BlackjackResult, error) {
	if result, ok, err := s.settlePending(ctx, discordID); ok {
		return result, err
	}

	if _, err := s.registry.Lookup(discordID); err == nil {
		return nil, ErrAlreadyActive
	}

	balance, err := s.ledger.GetBalance(ctx, discordID)
	if err != nil {
		return nil, err
	}

	wager, err := ParseBet(betToken, balance)
	if err != nil {
		return nil, err
	}

	session, err := s.registry.TryBegin(discordID, wager, s.source)
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, session, session.View())
}

// Hit draws a card into the account's active hand
func (s *BlackjackService) Hit(ctx context.Context, discordID int64) (*models.BlackjackResult, error) {
	if result, ok, err := s.settlePending(ctx, discordID); ok {
		return result, err
	}

	session, err := s.registry.Lookup(discordID)
	if err != nil {
		return nil, err
	}

	view, err := session.Hit()
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, session, view)
}

// Stand ends the account's active hand against the dealer total
func (s *BlackjackService) Stand(ctx context.Context, discordID int64) (*models.BlackjackResult, error) {
	if result, ok, err := s.settlePending(ctx, discordID); ok {
		return result, err
	}

	session, err := s.registry.Lookup(discordID)
	if err != nil {
		return nil, err
	}

	view, err := session.Stand()
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, session, view)
}

// Active reports whether the account has a hand in play
func (s *BlackjackService) Active(discordID int64) bool {
	_, err := s.registry.Lookup(discordID)
	return !errors.Is(err, ErrNoActiveSession)
}

func (s *BlackjackService) finish(ctx context.Context, session *blackjack.Session, view blackjack.View) (*models.BlackjackResult, error) {
	if view.State != blackjack.StateResolved {
		return blackjackResult(view), nil
	}

	result, err := s.settlement.SettleBlackjack(ctx, session)
	if errors.Is(err, blackjack.ErrSessionSettled) {
		// A concurrent command picked up the payout and reported it
		return nil, ErrSessionResolved
	}
	return result, err
}

// settlePending retries the payout of a resolved hand the ledger rejected
// earlier. ok is false when there was nothing left to settle.
func (s *BlackjackService) settlePending(ctx context.Context, discordID int64) (*models.BlackjackResult, bool, error) {
	session, ok := s.registry.Pending(discordID)
	if !ok {
		return nil, false, nil
	}

	result, err := s.settlement.SettleBlackjack(ctx, session)
	if errors.Is(err, blackjack.ErrSessionSettled) {
		// Another command paid it out first
		return nil, false, nil
	}
	return result, true, err
}
