package service

import (
	"context"

	"github.com/LevBernstein/BeardlessBot-sub000/events"
	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByDiscordID retrieves an account, or nil if it is not registered
	GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error)

	// GetForUpdate retrieves an account and locks it until the unit of work ends
	GetForUpdate(ctx context.Context, discordID int64) (*models.Account, error)

	// Create inserts the account unless it already exists.
	// The returned flag is false when another writer registered it first.
	Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.Account, bool, error)

	// UpdateBalance sets an account's balance
	UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error

	// UpdateUsername refreshes the stored display name
	UpdateUsername(ctx context.Context, discordID int64, username string) error

	// GetTopByBalance returns accounts with a positive balance, richest first,
	// ties in registration order
	GetTopByBalance(ctx context.Context, limit int) ([]*models.Account, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific account, newest first
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// Ledger is the balance surface the games settle against
type Ledger interface {
	GetBalance(ctx context.Context, discordID int64) (int64, error)
	AdjustBalance(ctx context.Context, discordID int64, delta int64, txType models.TransactionType) (int64, error)
	Forfeit(ctx context.Context, discordID int64, amount int64, txType models.TransactionType) (int64, error)
}
