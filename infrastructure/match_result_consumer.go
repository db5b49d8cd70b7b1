package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"clubbet/application"
	"clubbet/domain/entities"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const matchResultSubject = "matches.result"

// matchResultMessage is the wire format the fixture catalog publishes when
// a match reaches its final state.
type matchResultMessage struct {
	MatchID      string `json:"match_id"`
	HomeGoals    int    `json:"home_goals"`
	AwayGoals    int    `json:"away_goals"`
	HalfTimeHome int    `json:"half_time_home"`
	HalfTimeAway int    `json:"half_time_away"`
	FirstScorer  string `json:"first_scorer"`
	Cancelled    bool   `json:"cancelled"`
}

// MatchResultConsumer subscribes to final match results and drives
// settlement. Redeliveries are safe because settlement only credits bets
// it flips out of pending.
type MatchResultConsumer struct {
	natsClient *NATSClient
	handler    *application.MatchResultHandler
}

// NewMatchResultConsumer creates a new match result consumer
func NewMatchResultConsumer(natsClient *NATSClient, handler *application.MatchResultHandler) *MatchResultConsumer {
	return &MatchResultConsumer{
		natsClient: natsClient,
		handler:    handler,
	}
}

// Start subscribes to the match result subject. The stream must exist
// before the durable consumer can attach.
func (c *MatchResultConsumer) Start(ctx context.Context) error {
	if err := c.natsClient.EnsureMatchEventStream(); err != nil {
		return fmt.Errorf("failed to ensure match event stream: %w", err)
	}

	return c.natsClient.Subscribe(matchResultSubject, func(data []byte) error {
		return c.handleMessage(ctx, data)
	})
}

func (c *MatchResultConsumer) handleMessage(ctx context.Context, data []byte) error {
	var msg matchResultMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		// A malformed message never becomes valid on redelivery
		log.WithError(err).Error("Dropping malformed match result message")
		return nil
	}

	matchID, err := uuid.Parse(msg.MatchID)
	if err != nil {
		log.WithFields(log.Fields{
			"matchID": msg.MatchID,
			"error":   err,
		}).Error("Dropping match result with invalid match id")
		return nil
	}

	outcome := &entities.MatchOutcome{
		MatchID:      matchID,
		HomeGoals:    msg.HomeGoals,
		AwayGoals:    msg.AwayGoals,
		HalfTimeHome: msg.HalfTimeHome,
		HalfTimeAway: msg.HalfTimeAway,
		FirstScorer:  msg.FirstScorer,
		Cancelled:    msg.Cancelled,
	}

	log.WithFields(log.Fields{
		"matchID":   matchID,
		"homeGoals": msg.HomeGoals,
		"awayGoals": msg.AwayGoals,
		"cancelled": msg.Cancelled,
	}).Info("Received match result")

	resolved, err := c.handler.HandleMatchResult(ctx, outcome)
	if err != nil {
		return fmt.Errorf("failed to handle match result: %w", err)
	}

	log.WithFields(log.Fields{
		"matchID":  matchID,
		"resolved": len(resolved),
	}).Info("Match result settled")
	return nil
}
