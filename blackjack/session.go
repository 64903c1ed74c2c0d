package blackjack

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a session
type State int

const (
	StateActive State = iota
	StateResolved
)

func (s State) String() string {
	if s == StateResolved {
		return "resolved"
	}
	return "active"
}

// Outcome is the terminal result of a hand
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeNaturalWin
	OutcomeWin
	OutcomePush
	OutcomeLoss
	OutcomeBust
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNaturalWin:
		return "natural_win"
	case OutcomeWin:
		return "win"
	case OutcomePush:
		return "push"
	case OutcomeLoss:
		return "loss"
	case OutcomeBust:
		return "bust"
	default:
		return "none"
	}
}

// IsWin reports whether the outcome pays the wager out
func (o Outcome) IsWin() bool {
	return o == OutcomeNaturalWin || o == OutcomeWin
}

// Session is one player's hand against a fixed dealer total.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex
	// settleMu serializes payouts and is held across the ledger write
	settleMu sync.Mutex

	id          uuid.UUID
	owner       int64
	wager       int64
	cards       []int
	dealerTotal int
	state       State
	outcome     Outcome
	settled     bool
	source      CardSource
	startedAt   time.Time
}

// View is an immutable snapshot of a session
type View struct {
	ID          uuid.UUID
	Owner       int64
	Wager       int64
	Cards       []int
	Total       int
	DealerTotal int
	State       State
	Outcome     Outcome
}

// NewSession deals a new hand. The dealer's total is fixed first, then
// the player gets two cards; a two-card 21 resolves immediately.
func NewSession(owner, wager int64, src CardSource) *Session {
	s := &Session{
		id:        uuid.New(),
		owner:     owner,
		wager:     wager,
		source:    src,
		state:     StateActive,
		startedAt: time.Now(),
	}
	s.dealerTotal = DealerTotal(src)
	s.cards = []int{src.Draw(), src.Draw()}
	if Sum(s.cards) == 21 {
		s.resolve(OutcomeNaturalWin)
	}
	return s
}

// Hit draws one card for the player
func (s *Session) Hit() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return s.view(), ErrSessionResolved
	}

	s.cards = append(s.cards, s.source.Draw())
	total := Sum(s.cards)

	// Only one Ace is demoted per hit
	if total > 21 {
		for i, c := range s.cards {
			if c == Ace {
				s.cards[i] = AceLow
				total = Sum(s.cards)
				break
			}
		}
	}

	switch {
	case total > 21:
		s.resolve(OutcomeBust)
	case total == 21:
		s.resolve(OutcomeNaturalWin)
	}
	return s.view(), nil
}

// Stand compares the player's total against the dealer's
func (s *Session) Stand() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return s.view(), ErrSessionResolved
	}

	s.resolve(Judge(Sum(s.cards), s.dealerTotal))
	return s.view(), nil
}

// Judge decides a stand. A busted player loses even against a busted dealer.
func Judge(player, dealer int) Outcome {
	switch {
	case player > 21:
		return OutcomeBust
	case dealer > 21:
		return OutcomeWin
	case player > dealer:
		return OutcomeWin
	case player == dealer:
		return OutcomePush
	default:
		return OutcomeLoss
	}
}

func (s *Session) resolve(outcome Outcome) {
	s.state = StateResolved
	s.outcome = outcome
}

// View returns a snapshot of the session
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	cards := make([]int, len(s.cards))
	copy(cards, s.cards)
	return View{
		ID:          s.id,
		Owner:       s.owner,
		Wager:       s.wager,
		Cards:       cards,
		Total:       Sum(cards),
		DealerTotal: s.dealerTotal,
		State:       s.state,
		Outcome:     s.outcome,
	}
}

// Active reports whether the hand is still being played
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateActive
}

// Settled reports whether the resolved hand has been paid out
func (s *Session) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}

// Settle runs pay for a resolved hand and marks it settled once pay
// succeeds. A failed pay leaves the hand unsettled so it can be retried.
// Concurrent callers wait for each other; only one payout ever succeeds.
func (s *Session) Settle(pay func(View) error) error {
	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	view := s.View()
	if view.State != StateResolved {
		return ErrSessionActive
	}
	if s.Settled() {
		return ErrSessionSettled
	}

	if err := pay(view); err != nil {
		return err
	}

	s.mu.Lock()
	s.settled = true
	s.mu.Unlock()
	return nil
}

// Owner is the account playing the hand
func (s *Session) Owner() int64 { return s.owner }

// Wager is the amount staked when the hand was dealt
func (s *Session) Wager() int64 { return s.wager }

// ID identifies the session in logs and events
func (s *Session) ID() uuid.UUID { return s.id }

// Age is how long the session has been open
func (s *Session) Age() time.Duration {
	return time.Since(s.startedAt)
}
