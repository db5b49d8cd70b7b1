package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clubbet/domain/entities"
	"clubbet/domain/events"
	"clubbet/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	betRepo        interfaces.BetRepository
	wallet         interfaces.WalletService
	eventPublisher interfaces.EventPublisher
	calculator     *OddsCalculator
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	betRepo interfaces.BetRepository,
	wallet interfaces.WalletService,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	return &settlementService{
		betRepo:        betRepo,
		wallet:         wallet,
		eventPublisher: eventPublisher,
		calculator:     NewOddsCalculator(),
	}
}

// SettleBet grades the bet's pending legs on the match and resolves the bet
// once every leg is determined. The caller runs each bet in its own unit of
// work, so one failing bet rolls back alone and stays pending for retry.
func (s *settlementService) SettleBet(ctx context.Context, betID int64, outcome *entities.MatchOutcome) (bool, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return false, fmt.Errorf("failed to get bet: %w", err)
	}
	if bet == nil {
		return false, fmt.Errorf("%w: bet %d", entities.ErrBetNotFound, betID)
	}
	if bet.Status.IsTerminal() {
		return false, nil
	}

	if err := s.settleBet(ctx, bet, outcome, time.Now()); err != nil {
		return false, err
	}
	return bet.Status.IsTerminal(), nil
}

func (s *settlementService) settleBet(ctx context.Context, bet *entities.Bet, outcome *entities.MatchOutcome, now time.Time) error {
	for _, leg := range bet.Legs {
		if leg.MatchID != outcome.MatchID || leg.IsDetermined() {
			continue
		}
		legOutcome := GradeLeg(leg, outcome)
		if err := s.betRepo.UpdateLegOutcome(ctx, leg.ID, legOutcome, now); err != nil {
			return fmt.Errorf("failed to update leg %d: %w", leg.ID, err)
		}
		leg.Outcome = legOutcome
		leg.ResultDeterminedAt = &now
	}

	if !bet.AllLegsDetermined() {
		return nil
	}

	status := bet.ResolveStatus()
	var payout int64
	switch status {
	case entities.BetStatusWon:
		// Void legs are excluded from the effective odds, so a bet with a
		// voided leg pays as if that line was never taken.
		ret, err := s.calculator.PotentialReturn(bet.Stake, bet.EffectiveOdds())
		if err != nil {
			return fmt.Errorf("failed to compute payout: %w", err)
		}
		payout = ret
	case entities.BetStatusVoid:
		payout = bet.Stake
	}

	// The conditional status flip is the idempotency gate: a redelivered
	// result finds the bet already terminal and credits nothing.
	flipped, err := s.betRepo.SettleBet(ctx, bet.ID, status, payout, now)
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}
	if !flipped {
		return nil
	}
	bet.Status = status
	bet.Payout = payout
	bet.SettledAt = &now

	if payout > 0 {
		reason := entities.TransactionTypePayoutCredit
		if status == entities.BetStatusVoid {
			reason = entities.TransactionTypeVoidRefund
		}
		if err := s.wallet.Credit(ctx, bet.UserID, payout, reason, &bet.ID); err != nil {
			return fmt.Errorf("failed to credit payout: %w", err)
		}
	}

	event := events.BetSettledEvent{
		BetID:  bet.ID,
		UserID: bet.UserID,
		Status: status,
		Payout: payout,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish bet settled event")
	}

	return nil
}

// GradeLeg evaluates one leg's selection against the final match outcome.
// A cancelled match voids the leg regardless of selection.
func GradeLeg(leg *entities.BetLeg, outcome *entities.MatchOutcome) entities.LegOutcome {
	if outcome.Cancelled {
		return entities.LegOutcomeVoid
	}

	won := false
	switch leg.BetType {
	case entities.BetTypeMatchResult:
		won = leg.Selection == outcome.ResultToken()
	case entities.BetTypeDoubleChance:
		won = strings.Contains(leg.Selection, outcome.ResultToken())
	case entities.BetTypeOverUnder:
		line, err := parseLine(leg.Parameter)
		if err != nil {
			return entities.LegOutcomeVoid
		}
		total := float64(outcome.TotalGoals())
		if total == line {
			// A push on a whole-number line is no bet.
			return entities.LegOutcomeVoid
		}
		won = (leg.Selection == entities.SelectionOver) == (total > line)
	case entities.BetTypeBothTeamsScore:
		won = (leg.Selection == entities.SelectionYes) == outcome.BothTeamsScored()
	case entities.BetTypeCorrectScore:
		won = entities.NormalizeScoreToken(leg.Selection) == outcome.ScoreToken()
	case entities.BetTypeHalftimeFulltime:
		won = leg.Selection == outcome.HalfTimeToken()+"/"+outcome.ResultToken()
	case entities.BetTypeFirstScorer:
		if outcome.FirstScorer == "" {
			// No scorer recorded (for example a 0:0) voids the market.
			return entities.LegOutcomeVoid
		}
		won = strings.EqualFold(leg.Selection, outcome.FirstScorer)
	case entities.BetTypeHandicap:
		line, err := parseLine(leg.Parameter)
		if err != nil {
			return entities.LegOutcomeVoid
		}
		token := outcome.HandicapToken(line)
		if token == entities.SelectionDraw {
			// Level after the handicap is a push.
			return entities.LegOutcomeVoid
		}
		won = leg.Selection == token
	default:
		return entities.LegOutcomeVoid
	}

	if won {
		return entities.LegOutcomeWon
	}
	return entities.LegOutcomeLost
}

func parseLine(parameter *string) (float64, error) {
	if parameter == nil {
		return 0, fmt.Errorf("%w: missing parameter", entities.ErrInvalidSelection)
	}
	return strconv.ParseFloat(strings.TrimSpace(*parameter), 64)
}
