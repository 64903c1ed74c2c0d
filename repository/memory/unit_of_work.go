package memory

import (
	"context"
	"fmt"

	"github.com/LevBernstein/BeardlessBot-sub000/events"
	"github.com/LevBernstein/BeardlessBot-sub000/models"
	"github.com/LevBernstein/BeardlessBot-sub000/service"
)

// unitOfWork buffers writes and applies them to the store on Commit.
// It takes no locks of its own; callers serialize per account.
type unitOfWork struct {
	store            *Store
	active           bool
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      *accountRepository
	historyRepo      *balanceHistoryRepository

	staged  map[int64]*models.Account
	history []*models.BalanceHistory
}

type unitOfWorkFactory struct {
	store    *Store
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a UnitOfWork factory over store
func NewUnitOfWorkFactory(store *Store, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		store:    store,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		store:            f.store,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	u.ctx = ctx
	u.staged = make(map[int64]*models.Account)
	u.history = nil
	u.accountRepo = &accountRepository{uow: u}
	u.historyRepo = &balanceHistoryRepository{uow: u}
	return nil
}

// Commit applies the buffered writes
func (u *unitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}

	u.store.apply(u.staged, u.history)
	u.active = false
	u.staged = nil
	u.history = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}
	return nil
}

// Rollback drops the buffered writes
func (u *unitOfWork) Rollback() error {
	if !u.active {
		return nil // Nothing to rollback
	}

	u.active = false
	u.staged = nil
	u.history = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.historyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.historyRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}

// lookup reads through the staged writes to the store
func (u *unitOfWork) lookup(discordID int64) *models.Account {
	if account, ok := u.staged[discordID]; ok {
		return copyAccount(account)
	}
	return u.store.account(discordID)
}

func (u *unitOfWork) checkActive() error {
	if !u.active {
		return fmt.Errorf("unit of work is not active")
	}
	return nil
}
