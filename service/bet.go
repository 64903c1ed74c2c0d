package service

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBet is wagered when a command carries no amount
const DefaultBet int64 = 10

// ParseBet turns a raw bet token into a wager against balance. "all" bets
// the whole balance. A negative or unparsable amount is ErrInvalidBet and
// an amount above the balance is ErrInsufficientFunds.
func ParseBet(token string, balance int64) (int64, error) {
	token = strings.TrimSpace(token)

	var wager int64
	switch {
	case token == "":
		wager = DefaultBet
	case strings.EqualFold(token, "all"):
		return balance, nil
	default:
		parsed, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidBet, token)
		}
		wager = parsed
	}

	if wager < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidBet, wager)
	}
	if wager > balance {
		return 0, fmt.Errorf("%w: bet %d exceeds balance %d", ErrInsufficientFunds, wager, balance)
	}
	return wager, nil
}
