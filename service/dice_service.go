package service

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

var (
	diceExpression = regexp.MustCompile(`^d(\d+)(?:([+-])(\d+))?$`)
	allowedSides   = map[int]bool{4: true, 6: true, 8: true, 10: true, 12: true, 20: true, 100: true}
)

// Roller rolls one die with the given number of sides, returning 1..sides
type Roller interface {
	Roll(sides int) int
}

type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller creates a clock-seeded Roller that is safe for concurrent use
func NewRandomRoller() Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *randomRoller) Roll(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}

// DiceService rolls unwagered dice. It never touches the ledger.
type DiceService struct {
	roller Roller
}

// NewDiceService creates a new dice service
func NewDiceService(roller Roller) *DiceService {
	return &DiceService{roller: roller}
}

// Roll evaluates an expression like "d20", "d6+2" or "d100-5"
func (s *DiceService) Roll(expression string) (*models.RollResult, error) {
	match := diceExpression.FindStringSubmatch(strings.ToLower(strings.TrimSpace(expression)))
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDice, expression)
	}

	sides, err := strconv.Atoi(match[1])
	if err != nil || !allowedSides[sides] {
		return nil, fmt.Errorf("%w: d%s", ErrInvalidDice, match[1])
	}

	modifier := 0
	if match[3] != "" {
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return nil, fmt.Errorf("%w: modifier %q", ErrInvalidDice, match[3])
		}
		if match[2] == "-" {
			modifier = -modifier
		}
	}

	rolled := s.roller.Roll(sides)
	return &models.RollResult{
		Sides:    sides,
		Rolled:   rolled,
		Modifier: modifier,
		Total:    rolled + modifier,
	}, nil
}
