package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial       TransactionType = "initial"
	TransactionTypeReset         TransactionType = "reset"
	TransactionTypeBlackjackWin  TransactionType = "blackjack_win"
	TransactionTypeBlackjackLoss TransactionType = "blackjack_loss"
	TransactionTypeCoinFlipWin   TransactionType = "coin_flip_win"
	TransactionTypeCoinFlipLoss  TransactionType = "coin_flip_loss"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	DiscordID           int64           `db:"discord_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
