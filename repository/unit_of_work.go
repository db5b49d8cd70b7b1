package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"clubbet/application"
	"clubbet/database"
	"clubbet/domain/interfaces"
)

// unitOfWork implements the application.UnitOfWork interface over one pgx
// transaction. All repositories it hands out share that transaction.
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	userRepo               interfaces.UserRepository
	ledgerRepo             interfaces.LedgerRepository
	betRepo                interfaces.BetRepository
	oddsRepo               interfaces.OddsRepository
	snapshotRepo           interfaces.LeaderboardSnapshotRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// CreateWithPublisher creates a new UnitOfWork bound to a transactional
// event publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.oddsRepo = newOddsRepositoryWithTx(tx)
	u.snapshotRepo = newLeaderboardSnapshotRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	// Events are best-effort once the transaction has committed.
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// LedgerRepository returns the ledger repository for this unit of work
func (u *unitOfWork) LedgerRepository() interfaces.LedgerRepository {
	if u.ledgerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerRepo
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() interfaces.BetRepository {
	if u.betRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.betRepo
}

// OddsRepository returns the odds repository for this unit of work
func (u *unitOfWork) OddsRepository() interfaces.OddsRepository {
	if u.oddsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.oddsRepo
}

// LeaderboardSnapshotRepository returns the snapshot repository for this unit of work
func (u *unitOfWork) LeaderboardSnapshotRepository() interfaces.LeaderboardSnapshotRepository {
	if u.snapshotRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.snapshotRepo
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
