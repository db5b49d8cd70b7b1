package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"clubbet/database"
	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
)

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository backed by the pool
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

func newBetRepositoryWithTx(tx Queryable) interfaces.BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `id, user_id, structure, stake, combined_odds, potential_return, status, payout, placed_at, settled_at`

// Create persists a bet and its legs, populating ids and timestamps
func (r *BetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (user_id, structure, stake, combined_odds, potential_return, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, placed_at`
	err := r.q.QueryRow(ctx, query,
		bet.UserID,
		bet.Structure,
		bet.Stake,
		bet.CombinedOdds,
		bet.PotentialReturn,
		bet.Status,
	).Scan(&bet.ID, &bet.PlacedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet for user %d: %w", bet.UserID, err)
	}

	legQuery := `
		INSERT INTO bet_legs (bet_id, match_id, bet_type, selection, parameter, price, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	for _, leg := range bet.Legs {
		leg.BetID = bet.ID
		if err := r.q.QueryRow(ctx, legQuery,
			leg.BetID,
			leg.MatchID,
			leg.BetType,
			leg.Selection,
			leg.Parameter,
			leg.Price,
			leg.Outcome,
		).Scan(&leg.ID); err != nil {
			return fmt.Errorf("failed to create bet leg: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a bet with its legs, or nil if none exists
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`
	bet, err := r.scanBet(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}
	if bet == nil {
		return nil, nil
	}
	if err := r.loadLegs(ctx, map[int64]*entities.Bet{bet.ID: bet}); err != nil {
		return nil, err
	}
	return bet, nil
}

// GetByUser returns bets (with legs) for a user, newest first, optionally
// filtered by status
func (r *BetRepository) GetByUser(ctx context.Context, userID int64, status *entities.BetStatus, limit, offset int) ([]*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY placed_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.queryBets(ctx, query, args...)
}

// GetPendingByMatch returns pending bets having at least one pending leg on
// the match. The rows are locked so concurrent settlement deliveries for the
// same match serialize per bet.
func (r *BetRepository) GetPendingByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE status = 'PENDING'
		  AND id IN (SELECT bet_id FROM bet_legs WHERE match_id = $1)
		ORDER BY id
		FOR UPDATE`
	return r.queryBets(ctx, query, matchID)
}

// UpdateLegOutcome records a leg's settlement outcome
func (r *BetRepository) UpdateLegOutcome(ctx context.Context, legID int64, outcome entities.LegOutcome, determinedAt time.Time) error {
	query := `
		UPDATE bet_legs
		SET outcome = $2, result_determined_at = $3
		WHERE id = $1 AND outcome = 'PENDING'`
	if _, err := r.q.Exec(ctx, query, legID, outcome, determinedAt); err != nil {
		return fmt.Errorf("failed to update leg %d: %w", legID, err)
	}
	return nil
}

// SettleBet atomically moves a bet from PENDING to a terminal status. The
// WHERE clause on the current status is the idempotency gate: it returns
// false when another delivery already settled the bet.
func (r *BetRepository) SettleBet(ctx context.Context, betID int64, status entities.BetStatus, payout int64, settledAt time.Time) (bool, error) {
	query := `
		UPDATE bets
		SET status = $2, payout = $3, settled_at = $4
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.q.Exec(ctx, query, betID, status, payout, settledAt)
	if err != nil {
		return false, fmt.Errorf("failed to settle bet %d: %w", betID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetPlacedSince returns bets placed at or after the cutoff; the zero time
// means no cutoff. Used by the leaderboard aggregator.
func (r *BetRepository) GetPlacedSince(ctx context.Context, since time.Time) ([]*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE placed_at >= $1 ORDER BY placed_at`
	return r.queryBets(ctx, query, since)
}

func (r *BetRepository) scanBet(row pgx.Row) (*entities.Bet, error) {
	var bet entities.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.Structure,
		&bet.Stake,
		&bet.CombinedOdds,
		&bet.PotentialReturn,
		&bet.Status,
		&bet.Payout,
		&bet.PlacedAt,
		&bet.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *BetRepository) queryBets(ctx context.Context, query string, args ...any) ([]*entities.Bet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*entities.Bet)
	var bets []*entities.Bet
	for rows.Next() {
		var bet entities.Bet
		if err := rows.Scan(
			&bet.ID,
			&bet.UserID,
			&bet.Structure,
			&bet.Stake,
			&bet.CombinedOdds,
			&bet.PotentialReturn,
			&bet.Status,
			&bet.Payout,
			&bet.PlacedAt,
			&bet.SettledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		byID[bet.ID] = &bet
		bets = append(bets, &bet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLegs(ctx, byID); err != nil {
		return nil, err
	}
	return bets, nil
}

func (r *BetRepository) loadLegs(ctx context.Context, bets map[int64]*entities.Bet) error {
	if len(bets) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(bets))
	for id := range bets {
		ids = append(ids, id)
	}

	query := `
		SELECT id, bet_id, match_id, bet_type, selection, parameter, price, outcome, result_determined_at
		FROM bet_legs
		WHERE bet_id = ANY($1)
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query bet legs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var leg entities.BetLeg
		if err := rows.Scan(
			&leg.ID,
			&leg.BetID,
			&leg.MatchID,
			&leg.BetType,
			&leg.Selection,
			&leg.Parameter,
			&leg.Price,
			&leg.Outcome,
			&leg.ResultDeterminedAt,
		); err != nil {
			return fmt.Errorf("failed to scan bet leg: %w", err)
		}
		if bet, ok := bets[leg.BetID]; ok {
			bet.Legs = append(bet.Legs, &leg)
		}
	}
	return rows.Err()
}
