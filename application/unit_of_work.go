package application

import (
	"context"

	"clubbet/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	LedgerRepository() interfaces.LedgerRepository
	BetRepository() interfaces.BetRepository
	OddsRepository() interfaces.OddsRepository
	LeaderboardSnapshotRepository() interfaces.LeaderboardSnapshotRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}

// WithUnitOfWork runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func WithUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}
