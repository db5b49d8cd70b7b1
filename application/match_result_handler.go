package application

import (
	"context"
	"fmt"

	"clubbet/domain/entities"
	"clubbet/domain/events"
	"clubbet/domain/interfaces"
	"clubbet/domain/services"

	log "github.com/sirupsen/logrus"
)

// MatchResultHandler settles bets when a final match result arrives. The
// odds lock runs in one transaction, then every bet settles in a
// transaction of its own, so a bet that cannot settle rolls back alone
// while the rest pay out.
type MatchResultHandler struct {
	uowFactory     UnitOfWorkFactory
	publisher      interfaces.EventPublisher
	initialBalance int64
}

// NewMatchResultHandler creates a new match result handler
func NewMatchResultHandler(uowFactory UnitOfWorkFactory, publisher interfaces.EventPublisher, initialBalance int64) *MatchResultHandler {
	return &MatchResultHandler{
		uowFactory:     uowFactory,
		publisher:      publisher,
		initialBalance: initialBalance,
	}
}

// HandleMatchResult processes one final match outcome. Safe under
// at-least-once delivery: a redelivered result settles nothing. When some
// bets fail to settle, the successful ones stay committed and the error
// triggers a redelivery that retries only the bets still pending.
func (h *MatchResultHandler) HandleMatchResult(ctx context.Context, outcome *entities.MatchOutcome) ([]int64, error) {
	var pending []int64
	err := WithUnitOfWork(ctx, h.uowFactory, func(uow UnitOfWork) error {
		// The market closes with the match regardless of how many bets it
		// carried.
		odds := services.NewOddsService(uow.OddsRepository(), uow.EventBus())
		if err := odds.LockMatch(ctx, outcome.MatchID); err != nil {
			return err
		}

		bets, err := uow.BetRepository().GetPendingByMatch(ctx, outcome.MatchID)
		if err != nil {
			return fmt.Errorf("failed to get pending bets: %w", err)
		}
		for _, bet := range bets {
			pending = append(pending, bet.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process match result for %s: %w", outcome.MatchID, err)
	}

	var resolved []int64
	var failed int
	for _, betID := range pending {
		var done bool
		err := WithUnitOfWork(ctx, h.uowFactory, func(uow UnitOfWork) error {
			wallet := services.NewWalletService(uow.UserRepository(), uow.LedgerRepository(), uow.EventBus(), h.initialBalance)
			settlement := services.NewSettlementService(uow.BetRepository(), wallet, uow.EventBus())

			var err error
			done, err = settlement.SettleBet(ctx, betID, outcome)
			return err
		})
		if err != nil {
			failed++
			log.WithError(err).WithFields(log.Fields{
				"betID":   betID,
				"matchID": outcome.MatchID,
			}).Error("Failed to settle bet")
			continue
		}
		if done {
			resolved = append(resolved, betID)
		}
	}

	event := events.MatchSettledEvent{
		MatchID:      outcome.MatchID,
		BetsResolved: resolved,
	}
	if err := h.publisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish match settled event")
	}

	log.WithFields(log.Fields{
		"matchID":  outcome.MatchID,
		"pending":  len(pending),
		"resolved": len(resolved),
		"failed":   failed,
	}).Info("Match result processed")

	if failed > 0 {
		return resolved, fmt.Errorf("%d of %d bets failed to settle for match %s", failed, len(pending), outcome.MatchID)
	}
	return resolved, nil
}
