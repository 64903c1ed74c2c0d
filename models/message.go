package models

// MessageKey identifies the user-facing message for a command result.
// The chat layer owns the text for each key.
type MessageKey string

const (
	MessageRegistered        MessageKey = "register.created"
	MessageAlreadyRegistered MessageKey = "register.exists"
	MessageBalance           MessageKey = "balance.show"
	MessageReset             MessageKey = "reset.done"
	MessageLeaderboard       MessageKey = "leaderboard.show"

	MessageFlipHeads  MessageKey = "flip.heads"
	MessageFlipTails  MessageKey = "flip.tails"
	MessageFlipNoRisk MessageKey = "flip.no_risk"

	MessageBlackjackInProgress MessageKey = "blackjack.in_progress"
	MessageBlackjackNatural    MessageKey = "blackjack.natural"
	MessageBlackjackWin        MessageKey = "blackjack.win"
	MessageBlackjackDealerBust MessageKey = "blackjack.dealer_bust"
	MessageBlackjackPush       MessageKey = "blackjack.push"
	MessageBlackjackLoss       MessageKey = "blackjack.loss"
	MessageBlackjackBust       MessageKey = "blackjack.bust"

	MessageRoll MessageKey = "roll.show"
)
