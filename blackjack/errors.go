package blackjack

import "errors"

var (
	ErrAlreadyActive   = errors.New("blackjack game already in progress")
	ErrNoActiveSession = errors.New("no active blackjack game")
	ErrSessionResolved = errors.New("blackjack game already finished")
	ErrSessionActive   = errors.New("blackjack game is still being played")
	ErrSessionSettled  = errors.New("blackjack game already settled")
	ErrPendingSettle   = errors.New("previous blackjack game is not settled yet")
)
