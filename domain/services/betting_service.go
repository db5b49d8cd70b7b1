package services

import (
	"context"
	"fmt"

	"clubbet/domain/entities"
	"clubbet/domain/events"
	"clubbet/domain/interfaces"
	"clubbet/domain/utils"

	log "github.com/sirupsen/logrus"
)

type bettingService struct {
	betRepo        interfaces.BetRepository
	oddsRepo       interfaces.OddsRepository
	wallet         interfaces.WalletService
	matchCatalog   interfaces.MatchCatalog
	eventPublisher interfaces.EventPublisher
	calculator     *OddsCalculator
	minStake       int64
	maxStake       int64
}

// NewBettingService creates a new betting service. Stake bounds are in
// cents of club points.
func NewBettingService(
	betRepo interfaces.BetRepository,
	oddsRepo interfaces.OddsRepository,
	wallet interfaces.WalletService,
	matchCatalog interfaces.MatchCatalog,
	eventPublisher interfaces.EventPublisher,
	minStake, maxStake int64,
) interfaces.BettingService {
	return &bettingService{
		betRepo:        betRepo,
		oddsRepo:       oddsRepo,
		wallet:         wallet,
		matchCatalog:   matchCatalog,
		eventPublisher: eventPublisher,
		calculator:     NewOddsCalculator(),
		minStake:       minStake,
		maxStake:       maxStake,
	}
}

// PlaceBet validates and records a wager. The caller runs it inside a unit
// of work, so a failure at any step leaves no partial state behind.
func (s *bettingService) PlaceBet(ctx context.Context, userID int64, legs []entities.LegSelection, stake int64) (*entities.Bet, error) {
	if stake < s.minStake || stake > s.maxStake {
		return nil, fmt.Errorf("%w: stake %s outside [%s, %s]", entities.ErrInvalidStake,
			utils.FormatAmount(stake), utils.FormatAmount(s.minStake), utils.FormatAmount(s.maxStake))
	}

	structure, err := entities.StructureForLegCount(len(legs))
	if err != nil {
		return nil, err
	}
	if structure == entities.BetStructureAccumulator {
		if err := rejectCorrelatedLegs(legs); err != nil {
			return nil, err
		}
	}

	betLegs := make([]*entities.BetLeg, 0, len(legs))
	prices := make([]float64, 0, len(legs))
	for _, sel := range legs {
		if err := sel.BetType.ValidateSelection(sel.Selection, sel.Parameter); err != nil {
			return nil, err
		}

		match, err := s.matchCatalog.GetMatch(ctx, sel.MatchID)
		if err != nil {
			return nil, fmt.Errorf("failed to get match %s: %w", sel.MatchID, err)
		}
		if match == nil {
			return nil, fmt.Errorf("%w: match %s", entities.ErrMatchNotFound, sel.MatchID)
		}
		if !match.IsOpenForBetting() {
			return nil, fmt.Errorf("%w: match %s is %s", entities.ErrOddsExpired, sel.MatchID, match.Status)
		}

		odds, err := s.oddsRepo.GetEffective(ctx, sel.MatchID, sel.BetType, sel.Selection, sel.Parameter)
		if err != nil {
			return nil, fmt.Errorf("failed to get odds: %w", err)
		}
		if odds == nil || !odds.IsEffective() {
			return nil, fmt.Errorf("%w: no effective price for %s %s %s", entities.ErrOddsNotAvailable,
				sel.MatchID, sel.BetType, sel.Selection)
		}

		betLegs = append(betLegs, &entities.BetLeg{
			MatchID:   sel.MatchID,
			BetType:   sel.BetType,
			Selection: sel.Selection,
			Parameter: sel.Parameter,
			Price:     odds.Price,
			Outcome:   entities.LegOutcomePending,
		})
		prices = append(prices, odds.Price)
	}

	combinedOdds, err := s.calculator.CombinedOdds(structure, prices)
	if err != nil {
		return nil, err
	}
	potentialReturn, err := s.calculator.PotentialReturn(stake, combinedOdds)
	if err != nil {
		return nil, err
	}

	bet := &entities.Bet{
		UserID:          userID,
		Structure:       structure,
		Stake:           stake,
		CombinedOdds:    combinedOdds,
		PotentialReturn: potentialReturn,
		Status:          entities.BetStatusPending,
		Legs:            betLegs,
	}
	if err := bet.Validate(); err != nil {
		return nil, err
	}

	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	// The stake debit rides the same transaction as the bet insert, so an
	// insufficient balance rolls everything back.
	if err := s.wallet.Debit(ctx, userID, stake, entities.TransactionTypeStakeDebit, &bet.ID); err != nil {
		return nil, err
	}

	event := events.BetPlacedEvent{
		BetID:           bet.ID,
		UserID:          userID,
		Structure:       structure,
		Stake:           stake,
		CombinedOdds:    combinedOdds,
		PotentialReturn: potentialReturn,
		LegCount:        len(betLegs),
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish bet placed event")
	}

	log.WithFields(log.Fields{
		"betID":        bet.ID,
		"userID":       userID,
		"structure":    structure,
		"stake":        stake,
		"combinedOdds": combinedOdds,
		"legs":         len(betLegs),
	}).Info("Bet placed")

	return bet, nil
}

// GetBet retrieves a bet with its legs
func (s *bettingService) GetBet(ctx context.Context, betID int64) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("%w: bet %d", entities.ErrBetNotFound, betID)
	}
	return bet, nil
}

// GetUserBets returns a user's bets, newest first
func (s *bettingService) GetUserBets(ctx context.Context, userID int64, status *entities.BetStatus, limit, offset int) ([]*entities.Bet, error) {
	bets, err := s.betRepo.GetByUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}
	return bets, nil
}

// rejectCorrelatedLegs refuses accumulators carrying two legs on the same
// match. Outcomes on one match are correlated, so their prices must not
// multiply.
func rejectCorrelatedLegs(legs []entities.LegSelection) error {
	seen := make(map[string]struct{}, len(legs))
	for _, leg := range legs {
		key := leg.MatchID.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: multiple legs on match %s", entities.ErrCorrelatedLegs, leg.MatchID)
		}
		seen[key] = struct{}{}
	}
	return nil
}
