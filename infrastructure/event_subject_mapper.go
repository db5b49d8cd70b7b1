package infrastructure

import (
	"fmt"

	"clubbet/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "wallets.balance_changed"
	case events.EventTypeUserCreated:
		return "wallets.created"
	case events.EventTypeBetPlaced:
		return "bets.placed"
	case events.EventTypeBetSettled:
		return "bets.settled"
	case events.EventTypeMatchSettled:
		return "settlement.match_settled"
	case events.EventTypeOddsChanged:
		return "odds.changed"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "wallets.balance_changed":
		return events.EventTypeBalanceChange
	case "wallets.created":
		return events.EventTypeUserCreated
	case "bets.placed":
		return events.EventTypeBetPlaced
	case "bets.settled":
		return events.EventTypeBetSettled
	case "settlement.match_settled":
		return events.EventTypeMatchSettled
	case "odds.changed":
		return events.EventTypeOddsChanged
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"wallets.balance_changed",
		"wallets.created",
		"bets.placed",
		"bets.settled",
		"settlement.match_settled",
		"odds.changed",
	}
}
