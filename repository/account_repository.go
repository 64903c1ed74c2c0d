package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LevBernstein/BeardlessBot-sub000/database"
	"github.com/LevBernstein/BeardlessBot-sub000/models"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, discord_id, username, balance, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByDiscordID retrieves an account by its Discord ID
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE discord_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID))
	if err != nil {
		return nil, fmt.Errorf("failed to get account by discord ID %d: %w", discordID, err)
	}
	return account, nil
}

// GetForUpdate retrieves an account and holds its row lock until the
// surrounding transaction ends
func (r *AccountRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE discord_id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", discordID, err)
	}
	return account, nil
}

// Create inserts the account unless the Discord ID is already registered,
// in which case the stored account is returned with created=false
func (r *AccountRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.Account, bool, error) {
	query := `
		INSERT INTO accounts (discord_id, username, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO NOTHING
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID, username, initialBalance))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account with discord ID %d: %w", discordID, err)
	}
	if account != nil {
		return account, true, nil
	}

	existing, err := r.GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("account with discord ID %d vanished after insert conflict", discordID)
	}
	return existing, false, nil
}

// UpdateBalance sets an account's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, discordID int64, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, discordID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account with discord ID %d not found", discordID)
	}

	return nil
}

// UpdateUsername refreshes the stored display name
func (r *AccountRepository) UpdateUsername(ctx context.Context, discordID int64, username string) error {
	query := `
		UPDATE accounts
		SET username = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, username, discordID)
	if err != nil {
		return fmt.Errorf("failed to update username for account %d: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account with discord ID %d not found", discordID)
	}

	return nil
}

// GetTopByBalance returns accounts with a positive balance, richest first.
// Equal balances are ordered by registration.
func (r *AccountRepository) GetTopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE balance > 0
		ORDER BY balance DESC, id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.DiscordID,
			&account.Username,
			&account.Balance,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// scanAccount reads one account row; no row is (nil, nil)
func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.DiscordID,
		&account.Username,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
