package events

import (
	"github.com/google/uuid"

	"clubbet/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeUserCreated   EventType = "user_created"
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypeBetSettled    EventType = "bet_settled"
	EventTypeMatchSettled  EventType = "match_settled"
	EventTypeOddsChanged   EventType = "odds_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	OldBalance      int64
	NewBalance      int64
	ChangeAmount    int64
	TransactionType entities.TransactionType
	BetID           *int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new wallet account creation
type UserCreatedEvent struct {
	UserID         int64
	Username       string
	InitialBalance int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// BetPlacedEvent represents a bet that was placed
type BetPlacedEvent struct {
	BetID           int64
	UserID          int64
	Structure       entities.BetStructure
	Stake           int64
	CombinedOdds    float64
	PotentialReturn int64
	LegCount        int
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetSettledEvent represents a bet reaching a terminal state
type BetSettledEvent struct {
	BetID  int64
	UserID int64
	Status entities.BetStatus
	Payout int64
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// MatchSettledEvent represents a match-result event having been processed
type MatchSettledEvent struct {
	MatchID      uuid.UUID
	BetsResolved []int64
}

func (e MatchSettledEvent) Type() EventType {
	return EventTypeMatchSettled
}

// OddsChangedEvent represents a market publish or supersession
type OddsChangedEvent struct {
	MatchID uuid.UUID
	BetType entities.BetType
	Prices  int
}

func (e OddsChangedEvent) Type() EventType {
	return EventTypeOddsChanged
}
