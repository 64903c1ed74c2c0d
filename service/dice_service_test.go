package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRoller struct {
	value int
	sides []int
}

func (r *fixedRoller) Roll(sides int) int {
	r.sides = append(r.sides, sides)
	return r.value
}

func TestDiceService_Roll(t *testing.T) {
	tests := []struct {
		expression string
		sides      int
		modifier   int
		total      int
	}{
		{"d20", 20, 0, 3},
		{"D6", 6, 0, 3},
		{"d100+7", 100, 7, 10},
		{"d4-5", 4, -5, -2},
		{" d12 ", 12, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			roller := &fixedRoller{value: 3}
			result, err := NewDiceService(roller).Roll(tt.expression)

			require.NoError(t, err)
			assert.Equal(t, tt.sides, result.Sides)
			assert.Equal(t, 3, result.Rolled)
			assert.Equal(t, tt.modifier, result.Modifier)
			assert.Equal(t, tt.total, result.Total)
			assert.Equal(t, []int{tt.sides}, roller.sides)
		})
	}
}

func TestDiceService_RollInvalid(t *testing.T) {
	for _, expression := range []string{"", "d", "d7", "d0", "20", "d20+", "d20*2", "2d6", "d6+x"} {
		t.Run(expression, func(t *testing.T) {
			roller := &fixedRoller{value: 1}
			_, err := NewDiceService(roller).Roll(expression)

			assert.ErrorIs(t, err, ErrInvalidDice)
			assert.Empty(t, roller.sides)
		})
	}
}

func TestRandomRoller_InRange(t *testing.T) {
	roller := NewRandomRoller()
	for i := 0; i < 1000; i++ {
		value := roller.Roll(6)
		assert.GreaterOrEqual(t, value, 1)
		assert.LessOrEqual(t, value, 6)
	}
}
