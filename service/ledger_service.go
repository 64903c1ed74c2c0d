package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	// InitialBalance is credited when an account is first registered
	InitialBalance int64 = 300
	// ResetBalance is what reset sets an existing account to
	ResetBalance int64 = 200
)

var discriminatorSuffix = regexp.MustCompile(`#\d{4}$`)

// LedgerService owns every read and write of BeardlessBucks balances.
// Mutations on one account are serialized by a per-account lock; the
// Postgres backend also row-locks the account for the length of the
// transaction so separate processes serialize too.
type LedgerService struct {
	uowFactory UnitOfWorkFactory
	locks      *accountLocks
	newBackOff func() backoff.BackOff
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) *LedgerService {
	return &LedgerService{
		uowFactory: uowFactory,
		locks:      newAccountLocks(),
		newBackOff: defaultBackOff,
	}
}

// GetBalance returns the committed balance of an account
func (s *LedgerService) GetBalance(ctx context.Context, discordID int64) (int64, error) {
	var balance int64
	err := retryStorage(ctx, s.newBackOff, "get_balance", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback() // No-op if already committed

		account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return ErrNotRegistered
		}
		balance = account.Balance
		return nil
	})
	return balance, err
}

// Register creates the account at InitialBalance. An existing account is
// left alone and its current balance returned with created=false.
func (s *LedgerService) Register(ctx context.Context, discordID int64, username string) (bool, int64, error) {
	if err := validateName(username); err != nil {
		return false, 0, err
	}

	unlock := s.locks.lock(discordID)
	defer unlock()

	var created bool
	var balance int64
	err := retryStorage(ctx, s.newBackOff, "register", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		existing, err := uow.AccountRepository().GetForUpdate(ctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if existing != nil {
			created, balance = false, existing.Balance
			return nil
		}

		account, inserted, err := s.createAccount(ctx, uow, discordID, username)
		if err != nil {
			return err
		}
		if !inserted {
			created, balance = false, account.Balance
			return nil
		}

		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		created, balance = true, account.Balance
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	if created {
		log.WithFields(log.Fields{
			"discordID": discordID,
			"username":  username,
			"balance":   balance,
		}).Info("Registered account")
	}
	return created, balance, nil
}

// Reset sets an existing account to ResetBalance and refreshes its display
// name. An unknown account is registered instead and ends at InitialBalance.
func (s *LedgerService) Reset(ctx context.Context, discordID int64, username string) (int64, error) {
	if err := validateName(username); err != nil {
		return 0, err
	}

	unlock := s.locks.lock(discordID)
	defer unlock()

	var balance int64
	err := retryStorage(ctx, s.newBackOff, "reset", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		repo := uow.AccountRepository()
		account, err := repo.GetForUpdate(ctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}

		if account == nil {
			created, inserted, err := s.createAccount(ctx, uow, discordID, username)
			if err != nil {
				return err
			}
			if inserted {
				if err := uow.Commit(); err != nil {
					return fmt.Errorf("failed to commit transaction: %w", err)
				}
				balance = created.Balance
				return nil
			}
			// Registered by another writer in the meantime; reset it like any other
			account = created
		}

		if err := repo.UpdateBalance(ctx, discordID, ResetBalance); err != nil {
			return fmt.Errorf("failed to reset balance: %w", err)
		}
		if account.Username != username {
			if err := repo.UpdateUsername(ctx, discordID, username); err != nil {
				return fmt.Errorf("failed to update username: %w", err)
			}
		}

		history := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    ResetBalance,
			ChangeAmount:    ResetBalance - account.Balance,
			TransactionType: models.TransactionTypeReset,
			TransactionMetadata: map[string]any{
				"username": username,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return fmt.Errorf("failed to record balance change: %w", err)
		}

		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		balance = ResetBalance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// AdjustBalance atomically applies delta and returns the committed balance.
// A result below zero fails with ErrInsufficientFunds and writes nothing.
func (s *LedgerService) AdjustBalance(ctx context.Context, discordID int64, delta int64, txType models.TransactionType) (int64, error) {
	return s.adjust(ctx, discordID, delta, txType, false)
}

// Forfeit deducts up to amount, stopping at a zero balance. It settles a
// loss whose wager was partly spent elsewhere while the game was running.
func (s *LedgerService) Forfeit(ctx context.Context, discordID int64, amount int64, txType models.TransactionType) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: forfeit amount %d is negative", ErrInvalidBet, amount)
	}
	return s.adjust(ctx, discordID, -amount, txType, true)
}

func (s *LedgerService) adjust(ctx context.Context, discordID int64, delta int64, txType models.TransactionType, clamp bool) (int64, error) {
	unlock := s.locks.lock(discordID)
	defer unlock()

	var newBalance int64
	err := retryStorage(ctx, s.newBackOff, "adjust_balance", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		repo := uow.AccountRepository()
		account, err := repo.GetForUpdate(ctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return ErrNotRegistered
		}

		applied := delta
		if account.Balance+applied < 0 {
			if !clamp {
				return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, account.Balance, -delta)
			}
			applied = -account.Balance
		}
		if applied == 0 {
			newBalance = account.Balance
			return nil
		}

		newBalance = account.Balance + applied
		if err := repo.UpdateBalance(ctx, discordID, newBalance); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		history := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    newBalance,
			ChangeAmount:    applied,
			TransactionType: txType,
			TransactionMetadata: map[string]any{
				"requested_change": delta,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return fmt.Errorf("failed to record balance change: %w", err)
		}

		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// TopN returns the n richest accounts with a positive balance. Ties are
// broken by registration order, earliest first. A trailing "#1234"
// discriminator is stripped from each name.
func (s *LedgerService) TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		return []models.LeaderboardEntry{}, nil
	}

	var entries []models.LeaderboardEntry
	err := retryStorage(ctx, s.newBackOff, "leaderboard", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		accounts, err := uow.AccountRepository().GetTopByBalance(ctx, n)
		if err != nil {
			return fmt.Errorf("failed to get leaderboard: %w", err)
		}

		entries = make([]models.LeaderboardEntry, 0, len(accounts))
		for _, account := range accounts {
			entries = append(entries, models.LeaderboardEntry{
				Name:    StripDiscriminator(account.Username),
				Balance: account.Balance,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// History returns the most recent balance changes of an account
func (s *LedgerService) History(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	var histories []*models.BalanceHistory
	err := retryStorage(ctx, s.newBackOff, "history", func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer uow.Rollback()

		account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return ErrNotRegistered
		}

		histories, err = uow.BalanceHistoryRepository().GetByUser(ctx, discordID, limit)
		if err != nil {
			return fmt.Errorf("failed to get balance history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return histories, nil
}

// createAccount inserts the account and its initial history entry inside
// uow. When another writer got there first, the stored account is returned
// with inserted=false and nothing is recorded.
func (s *LedgerService) createAccount(ctx context.Context, uow UnitOfWork, discordID int64, username string) (*models.Account, bool, error) {
	account, inserted, err := uow.AccountRepository().Create(ctx, discordID, username, InitialBalance)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account: %w", err)
	}
	if !inserted {
		return account, false, nil
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   0,
		BalanceAfter:    InitialBalance,
		ChangeAmount:    InitialBalance,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"username": username,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, false, fmt.Errorf("failed to record initial balance: %w", err)
	}
	return account, true, nil
}

// StripDiscriminator drops a trailing "#1234" tag from a display name
func StripDiscriminator(name string) string {
	return discriminatorSuffix.ReplaceAllString(name, "")
}

func validateName(username string) error {
	if strings.Contains(username, ",") {
		return fmt.Errorf("%w: %q", ErrInvalidName, username)
	}
	return nil
}
