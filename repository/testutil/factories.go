package testutil

import (
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

// CreateTestAccount creates a test account with the registration balance
func CreateTestAccount(discordID int64, username string) *models.Account {
	now := time.Now()
	return &models.Account{
		DiscordID: discordID,
		Username:  username,
		Balance:   300,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestAccountWithBalance creates a test account with a specific balance
func CreateTestAccountWithBalance(discordID int64, username string, balance int64) *models.Account {
	account := CreateTestAccount(discordID, username)
	account.Balance = balance
	return account
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(discordID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   300,
		BalanceAfter:    290,
		ChangeAmount:    -10,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestBalanceHistoryWithAmounts creates a test balance history with specific amounts
func CreateTestBalanceHistoryWithAmounts(discordID int64, before, after, change int64, transactionType models.TransactionType) *models.BalanceHistory {
	history := CreateTestBalanceHistory(discordID, transactionType)
	history.BalanceBefore = before
	history.BalanceAfter = after
	history.ChangeAmount = change
	return history
}
