package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clubbet/domain/entities"
	"clubbet/domain/events"
	"clubbet/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type oddsService struct {
	oddsRepo       interfaces.OddsRepository
	eventPublisher interfaces.EventPublisher
	calculator     *OddsCalculator
}

// NewOddsService creates a new odds service
func NewOddsService(oddsRepo interfaces.OddsRepository, eventPublisher interfaces.EventPublisher) interfaces.OddsService {
	return &oddsService{
		oddsRepo:       oddsRepo,
		eventPublisher: eventPublisher,
		calculator:     NewOddsCalculator(),
	}
}

// PublishMarket validates and stores a market's prices. Only the submitted
// selections are superseded; other lines of the same market (for example a
// different over/under total) stay effective. Each price change appends a
// history record, so placed legs keep the snapshot they were priced at.
func (s *oddsService) PublishMarket(ctx context.Context, matchID uuid.UUID, betType entities.BetType, entries []entities.MarketEntry, source entities.OddsSource) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty market", entities.ErrInvalidOdds)
	}

	prices := make([]float64, 0, len(entries))
	for _, entry := range entries {
		if err := betType.ValidateSelection(entry.Selection, entry.Parameter); err != nil {
			return err
		}
		if err := s.calculator.ValidatePrice(entry.Price); err != nil {
			return err
		}
		prices = append(prices, entry.Price)
	}

	// An exhaustive market whose implied probabilities sum below 1 admits
	// a risk-free book and must not be published.
	margin := 0.0
	if coversAllSelections(betType, entries) {
		arb, err := s.calculator.HasArbitrage(prices)
		if err != nil {
			return err
		}
		if arb {
			return fmt.Errorf("%w: implied probabilities sum below 1", entities.ErrMarketInconsistent)
		}
		margin, err = s.calculator.MarketMargin(prices)
		if err != nil {
			return err
		}
	}

	now := time.Now()
	for _, entry := range entries {
		implied, err := s.calculator.ImpliedProbability(entry.Price)
		if err != nil {
			return err
		}

		superseded, err := s.oddsRepo.CloseEffectiveSelection(ctx, matchID, betType, entry.Selection, entry.Parameter, now)
		if err != nil {
			return fmt.Errorf("failed to close effective odds: %w", err)
		}
		odds := &entities.Odds{
			MatchID:            matchID,
			BetType:            betType,
			Selection:          entry.Selection,
			Parameter:          entry.Parameter,
			Price:              entry.Price,
			Source:             source,
			BookmakerMargin:    margin,
			ImpliedProbability: implied,
			EffectiveFrom:      now,
		}
		if err := s.oddsRepo.Insert(ctx, odds); err != nil {
			return fmt.Errorf("failed to insert odds: %w", err)
		}

		if superseded != nil && superseded.Price != entry.Price {
			history := &entities.OddsHistory{
				MatchID:   matchID,
				BetType:   betType,
				Selection: entry.Selection,
				Parameter: entry.Parameter,
				OldPrice:  superseded.Price,
				NewPrice:  entry.Price,
				ChangePct: (entry.Price - superseded.Price) / superseded.Price * 100,
				ChangedAt: now,
			}
			if err := s.oddsRepo.RecordHistory(ctx, history); err != nil {
				return fmt.Errorf("failed to record odds history: %w", err)
			}
		}
	}

	event := events.OddsChangedEvent{
		MatchID: matchID,
		BetType: betType,
		Prices:  len(entries),
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish odds changed event")
	}

	log.WithFields(log.Fields{
		"matchID": matchID,
		"betType": betType,
		"prices":  len(entries),
		"source":  source,
	}).Info("Market published")

	return nil
}

// CurrentOdds returns all currently effective prices for a match
func (s *oddsService) CurrentOdds(ctx context.Context, matchID uuid.UUID) ([]*entities.Odds, error) {
	odds, err := s.oddsRepo.GetEffectiveByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get odds: %w", err)
	}
	return odds, nil
}

// OddsHistory returns supersession records for a match, newest first
func (s *oddsService) OddsHistory(ctx context.Context, matchID uuid.UUID, limit int) ([]*entities.OddsHistory, error) {
	history, err := s.oddsRepo.GetHistory(ctx, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get odds history: %w", err)
	}
	return history, nil
}

// LockMatch closes every effective price for a match. Called when the
// match leaves the upcoming state.
func (s *oddsService) LockMatch(ctx context.Context, matchID uuid.UUID) error {
	closed, err := s.oddsRepo.CloseEffective(ctx, matchID, nil, time.Now())
	if err != nil {
		return fmt.Errorf("failed to lock match: %w", err)
	}
	log.WithFields(log.Fields{
		"matchID": matchID,
		"closed":  len(closed),
	}).Info("Match locked for betting")
	return nil
}

// coversAllSelections reports whether the submitted entries price every
// selection of an exhaustive, mutually exclusive market. Markets with
// freeform or non-exclusive selections (double chance, correct score,
// first scorer, handicap) are never checked for arbitrage.
func coversAllSelections(betType entities.BetType, entries []entities.MarketEntry) bool {
	switch betType {
	case entities.BetTypeMatchResult, entities.BetTypeOverUnder,
		entities.BetTypeBothTeamsScore, entities.BetTypeHalftimeFulltime:
	default:
		return false
	}

	required := betType.Selections()
	if len(entries) != len(required) {
		return false
	}
	have := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		have[e.Selection] = struct{}{}
	}
	for _, sel := range required {
		if _, ok := have[sel]; !ok {
			return false
		}
	}
	return true
}
