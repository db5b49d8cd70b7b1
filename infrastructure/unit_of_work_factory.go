package infrastructure

import (
	"context"

	"clubbet/application"
	"clubbet/database"
	"clubbet/domain/events"
	"clubbet/domain/interfaces"
	"clubbet/repository"
)

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface.
// Each unit of work gets its own transactional publisher so events buffered
// during a transaction flush on commit and vanish on rollback.
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateWithPublisher(publisher interfaces.TransactionalEventPublisher) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

var _ application.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler that will be invoked locally for events
// This ensures events published within the same process are handled immediately
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// Create creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)
	return f.repoFactory.CreateWithPublisher(transactionalPublisher)
}
