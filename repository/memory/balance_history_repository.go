package memory

import (
	"context"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

type balanceHistoryRepository struct {
	uow *unitOfWork
}

// Record stages a new balance history entry
func (r *balanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	if err := r.uow.checkActive(); err != nil {
		return err
	}
	history.ID = r.uow.store.allocateHistoryID()
	history.CreatedAt = time.Now().UTC()
	r.uow.history = append(r.uow.history, copyHistory(history))
	return nil
}

// GetByUser returns committed history for an account, newest first
func (r *balanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	if err := r.uow.checkActive(); err != nil {
		return nil, err
	}

	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	var histories []*models.BalanceHistory
	for i := len(store.history) - 1; i >= 0 && len(histories) < limit; i-- {
		if store.history[i].DiscordID == discordID {
			histories = append(histories, copyHistory(store.history[i]))
		}
	}
	return histories, nil
}
