package service

import (
	"errors"

	"github.com/LevBernstein/BeardlessBot-sub000/blackjack"
)

var (
	ErrInvalidBet        = errors.New("invalid bet")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidName       = errors.New("display name must not contain a comma")
	ErrNotRegistered     = errors.New("account not registered")
	ErrInvalidDice       = errors.New("invalid dice")

	ErrAlreadyActive   = blackjack.ErrAlreadyActive
	ErrNoActiveSession = blackjack.ErrNoActiveSession
	ErrSessionResolved = blackjack.ErrSessionResolved
	ErrPendingSettle   = blackjack.ErrPendingSettle
)

// isDomainError reports whether err is an expected outcome rather than a
// storage fault. Domain errors are never retried.
func isDomainError(err error) bool {
	return errors.Is(err, ErrInvalidBet) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrNotRegistered)
}
