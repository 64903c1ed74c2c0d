package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

// Flipper tosses a fair coin
type Flipper interface {
	Heads() bool
}

type randomFlipper struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomFlipper creates a clock-seeded Flipper that is safe for concurrent use
func NewRandomFlipper() Flipper {
	return &randomFlipper{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (f *randomFlipper) Heads() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Intn(2) == 0
}

// CoinFlipService wagers on a single coin toss
type CoinFlipService struct {
	ledger     Ledger
	settlement *Settlement
	flipper    Flipper
}

// NewCoinFlipService creates a new coin flip service
func NewCoinFlipService(ledger Ledger, settlement *Settlement, flipper Flipper) *CoinFlipService {
	return &CoinFlipService{
		ledger:     ledger,
		settlement: settlement,
		flipper:    flipper,
	}
}

// Flip validates betToken against the balance, tosses the coin and
// settles. Heads wins the wager, tails loses it.
func (s *CoinFlipService) Flip(ctx context.Context, discordID int64, betToken string) (*models.FlipResult, error) {
	balance, err := s.ledger.GetBalance(ctx, discordID)
	if err != nil {
		return nil, err
	}

	wager, err := ParseBet(betToken, balance)
	if err != nil {
		return nil, err
	}

	heads := s.flipper.Heads()

	if wager == 0 {
		return &models.FlipResult{
			Key:        models.MessageFlipNoRisk,
			Heads:      heads,
			Wager:      0,
			NewBalance: balance,
		}, nil
	}

	newBalance, err := s.settlement.SettleFlip(ctx, discordID, wager, heads)
	if err != nil {
		return nil, err
	}

	key := models.MessageFlipTails
	if heads {
		key = models.MessageFlipHeads
	}
	return &models.FlipResult{
		Key:        key,
		Heads:      heads,
		Wager:      wager,
		NewBalance: newBalance,
	}, nil
}
