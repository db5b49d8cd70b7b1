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

// OddsRepository implements the OddsRepository interface
type OddsRepository struct {
	q Queryable
}

// NewOddsRepository creates a new odds repository backed by the pool
func NewOddsRepository(db *database.DB) *OddsRepository {
	return &OddsRepository{q: db.Pool}
}

func newOddsRepositoryWithTx(tx Queryable) interfaces.OddsRepository {
	return &OddsRepository{q: tx}
}

const oddsColumns = `id, match_id, bet_type, selection, parameter, price, source, bookmaker_margin, implied_probability, effective_from, effective_until, created_at`

// GetEffective returns the currently effective price for one outcome, or nil
// when none exists
func (r *OddsRepository) GetEffective(ctx context.Context, matchID uuid.UUID, betType entities.BetType, selection string, parameter *string) (*entities.Odds, error) {
	query := `
		SELECT ` + oddsColumns + `
		FROM odds
		WHERE match_id = $1 AND bet_type = $2 AND selection = $3
		  AND COALESCE(parameter, '') = COALESCE($4, '')
		  AND effective_until IS NULL`
	odds, err := r.scanOdds(r.q.QueryRow(ctx, query, matchID, betType, selection, parameter))
	if err != nil {
		return nil, fmt.Errorf("failed to get effective odds: %w", err)
	}
	return odds, nil
}

// GetEffectiveByMatch returns all currently effective prices for a match
func (r *OddsRepository) GetEffectiveByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Odds, error) {
	query := `
		SELECT ` + oddsColumns + `
		FROM odds
		WHERE match_id = $1 AND effective_until IS NULL
		ORDER BY bet_type, selection, parameter`
	return r.queryOdds(ctx, query, matchID)
}

// CloseEffective closes the validity window of every effective price for a
// match, optionally restricted to one bet type. The closed rows are returned
// so the caller can append supersession history.
func (r *OddsRepository) CloseEffective(ctx context.Context, matchID uuid.UUID, betType *entities.BetType, at time.Time) ([]*entities.Odds, error) {
	query := `
		UPDATE odds
		SET effective_until = $2
		WHERE match_id = $1 AND effective_until IS NULL`
	args := []any{matchID, at}
	if betType != nil {
		query += ` AND bet_type = $3`
		args = append(args, *betType)
	}
	query += ` RETURNING ` + oddsColumns

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to close effective odds: %w", err)
	}
	defer rows.Close()
	return r.collectOdds(rows)
}

// CloseEffectiveSelection closes the effective price for one outcome. The
// partial unique index guarantees at most one such row, which is returned
// so the caller can append supersession history.
func (r *OddsRepository) CloseEffectiveSelection(ctx context.Context, matchID uuid.UUID, betType entities.BetType, selection string, parameter *string, at time.Time) (*entities.Odds, error) {
	query := `
		UPDATE odds
		SET effective_until = $2
		WHERE match_id = $1 AND effective_until IS NULL
		  AND bet_type = $3 AND selection = $4
		  AND COALESCE(parameter, '') = COALESCE($5, '')
		RETURNING ` + oddsColumns

	rows, err := r.q.Query(ctx, query, matchID, at, betType, selection, parameter)
	if err != nil {
		return nil, fmt.Errorf("failed to close effective odds: %w", err)
	}
	defer rows.Close()
	closed, err := r.collectOdds(rows)
	if err != nil {
		return nil, err
	}
	if len(closed) == 0 {
		return nil, nil
	}
	return closed[0], nil
}

// Insert persists a new effective price row
func (r *OddsRepository) Insert(ctx context.Context, odds *entities.Odds) error {
	query := `
		INSERT INTO odds (match_id, bet_type, selection, parameter, price, source, bookmaker_margin, implied_probability, effective_from, effective_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		odds.MatchID,
		odds.BetType,
		odds.Selection,
		odds.Parameter,
		odds.Price,
		odds.Source,
		odds.BookmakerMargin,
		odds.ImpliedProbability,
		odds.EffectiveFrom,
		odds.EffectiveUntil,
	).Scan(&odds.ID, &odds.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert odds: %w", err)
	}
	return nil
}

// RecordHistory appends an odds supersession record
func (r *OddsRepository) RecordHistory(ctx context.Context, h *entities.OddsHistory) error {
	query := `
		INSERT INTO odds_history (match_id, bet_type, selection, parameter, old_price, new_price, change_pct, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		h.MatchID,
		h.BetType,
		h.Selection,
		h.Parameter,
		h.OldPrice,
		h.NewPrice,
		h.ChangePct,
		h.ChangedAt,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to record odds history: %w", err)
	}
	return nil
}

// GetHistory returns supersession records for a match, newest first
func (r *OddsRepository) GetHistory(ctx context.Context, matchID uuid.UUID, limit int) ([]*entities.OddsHistory, error) {
	query := `
		SELECT id, match_id, bet_type, selection, parameter, old_price, new_price, change_pct, changed_at
		FROM odds_history
		WHERE match_id = $1
		ORDER BY changed_at DESC, id DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get odds history: %w", err)
	}
	defer rows.Close()

	var history []*entities.OddsHistory
	for rows.Next() {
		var h entities.OddsHistory
		if err := rows.Scan(
			&h.ID,
			&h.MatchID,
			&h.BetType,
			&h.Selection,
			&h.Parameter,
			&h.OldPrice,
			&h.NewPrice,
			&h.ChangePct,
			&h.ChangedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan odds history: %w", err)
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

func (r *OddsRepository) scanOdds(row pgx.Row) (*entities.Odds, error) {
	var odds entities.Odds
	err := row.Scan(
		&odds.ID,
		&odds.MatchID,
		&odds.BetType,
		&odds.Selection,
		&odds.Parameter,
		&odds.Price,
		&odds.Source,
		&odds.BookmakerMargin,
		&odds.ImpliedProbability,
		&odds.EffectiveFrom,
		&odds.EffectiveUntil,
		&odds.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &odds, nil
}

func (r *OddsRepository) queryOdds(ctx context.Context, query string, args ...any) ([]*entities.Odds, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds: %w", err)
	}
	defer rows.Close()
	return r.collectOdds(rows)
}

func (r *OddsRepository) collectOdds(rows pgx.Rows) ([]*entities.Odds, error) {
	var result []*entities.Odds
	for rows.Next() {
		var odds entities.Odds
		if err := rows.Scan(
			&odds.ID,
			&odds.MatchID,
			&odds.BetType,
			&odds.Selection,
			&odds.Parameter,
			&odds.Price,
			&odds.Source,
			&odds.BookmakerMargin,
			&odds.ImpliedProbability,
			&odds.EffectiveFrom,
			&odds.EffectiveUntil,
			&odds.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		result = append(result, &odds)
	}
	return result, rows.Err()
}
