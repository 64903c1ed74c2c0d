package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

type accountRepository struct {
	uow *unitOfWork
}

// GetByDiscordID retrieves an account, or nil if it is not registered
func (r *accountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	if err := r.uow.checkActive(); err != nil {
		return nil, err
	}
	return r.uow.lookup(discordID), nil
}

// GetForUpdate is GetByDiscordID; the ledger's per-account lock already
// serializes writers within the process.
func (r *accountRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.Account, error) {
	return r.GetByDiscordID(ctx, discordID)
}

// Create inserts the account unless it already exists
func (r *accountRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.Account, bool, error) {
	if err := r.uow.checkActive(); err != nil {
		return nil, false, err
	}
	if existing := r.uow.lookup(discordID); existing != nil {
		return existing, false, nil
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:        r.uow.store.allocateAccountID(),
		DiscordID: discordID,
		Username:  username,
		Balance:   initialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.uow.staged[discordID] = account
	return copyAccount(account), true, nil
}

// UpdateBalance sets an account's balance
func (r *accountRepository) UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error {
	if newBalance < 0 {
		return fmt.Errorf("balance for account %d cannot be negative: %d", discordID, newBalance)
	}
	return r.update(discordID, func(a *models.Account) {
		a.Balance = newBalance
	})
}

// UpdateUsername refreshes the stored display name
func (r *accountRepository) UpdateUsername(ctx context.Context, discordID int64, username string) error {
	return r.update(discordID, func(a *models.Account) {
		a.Username = username
	})
}

// GetTopByBalance returns committed accounts with a positive balance,
// richest first, ties in registration order
func (r *accountRepository) GetTopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	if err := r.uow.checkActive(); err != nil {
		return nil, err
	}

	store := r.uow.store
	store.mu.RLock()
	accounts := make([]*models.Account, 0, len(store.accounts))
	for _, account := range store.accounts {
		if account.Balance > 0 {
			accounts = append(accounts, copyAccount(account))
		}
	}
	store.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].ID < accounts[j].ID
	})

	if limit >= 0 && len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (r *accountRepository) update(discordID int64, mutate func(*models.Account)) error {
	if err := r.uow.checkActive(); err != nil {
		return err
	}
	account := r.uow.lookup(discordID)
	if account == nil {
		return fmt.Errorf("account with discord ID %d not found", discordID)
	}
	mutate(account)
	account.UpdatedAt = time.Now().UTC()
	r.uow.staged[discordID] = account
	return nil
}
