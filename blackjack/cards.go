package blackjack

import (
	"math/rand"
	"sync"
	"time"
)

// Ace is the value an Ace carries until it is demoted to AceLow.
const (
	Ace    = 11
	AceLow = 1
)

// cardValues is the draw multiset: four of thirteen draws are worth ten,
// matching the ten/jack/queen/king density of a real deck.
var cardValues = [...]int{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, Ace}

// CardSource yields card values. Every draw is independent and with
// replacement; there is no deck to run out.
type CardSource interface {
	Draw() int
}

// RandomSource draws uniformly from cardValues. Safe for concurrent use.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource creates a card source seeded from the clock
func NewRandomSource() *RandomSource {
	return NewSeededSource(time.Now().UnixNano())
}

// NewSeededSource creates a reproducible card source
func NewSeededSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomSource) Draw() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cardValues[r.rng.Intn(len(cardValues))]
}

// ScriptedSource replays a fixed sequence of cards. Drawing past the end
// panics, which makes a test's miscounted script fail loudly.
type ScriptedSource struct {
	mu    sync.Mutex
	cards []int
	next  int
}

// NewScriptedSource creates a source that yields cards in order
func NewScriptedSource(cards ...int) *ScriptedSource {
	return &ScriptedSource{cards: cards}
}

func (s *ScriptedSource) Draw() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.cards) {
		panic("blackjack: scripted source exhausted")
	}
	card := s.cards[s.next]
	s.next++
	return card
}

// Remaining reports how many scripted cards have not been drawn
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards) - s.next
}

// DealerTotal draws the dealer's fixed total: one card, then more while
// the total is below 17. The dealer never demotes an Ace.
func DealerTotal(src CardSource) int {
	total := src.Draw()
	for total < 17 {
		total += src.Draw()
	}
	return total
}

// Sum adds up a hand
func Sum(cards []int) int {
	total := 0
	for _, c := range cards {
		total += c
	}
	return total
}
