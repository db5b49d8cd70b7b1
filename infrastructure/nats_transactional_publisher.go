package infrastructure

import (
	"context"

	"clubbet/domain/events"
	"clubbet/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// NATSTransactionalPublisher holds events until flush, then publishes to NATS.
// Flush runs after the database transaction commits; Discard runs on rollback.
type NATSTransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
}

var _ interfaces.TransactionalEventPublisher = (*NATSTransactionalPublisher)(nil)

// NewNATSTransactionalPublisher creates a new transactional publisher
func NewNATSTransactionalPublisher(realPublisher interfaces.EventPublisher) *NATSTransactionalPublisher {
	return &NATSTransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish stores an event in the pending queue without immediately publishing
func (p *NATSTransactionalPublisher) Publish(event events.Event) error {
	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"pendingCount": len(p.pending),
	}).Debug("Adding event to NATS transactional publisher pending queue")

	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes all pending events to NATS
func (p *NATSTransactionalPublisher) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(p.pending),
	}).Debug("Flushing pending events from NATS transactional publisher")

	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			// Log and continue so one bad event does not hold the rest back
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}

	p.pending = p.pending[:0]
	return nil
}

// Discard clears all pending events without publishing them
func (p *NATSTransactionalPublisher) Discard() {
	log.WithFields(log.Fields{
		"discardedEventCount": len(p.pending),
	}).Debug("Discarding pending events from NATS transactional publisher")

	p.pending = p.pending[:0]
}
