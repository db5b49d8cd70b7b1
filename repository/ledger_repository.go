package repository

import (
	"context"
	"fmt"

	"clubbet/database"
	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
)

// LedgerRepository implements the LedgerRepository interface
type LedgerRepository struct {
	q Queryable
}

// NewLedgerRepository creates a new ledger repository backed by the pool
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

func newLedgerRepositoryWithTx(tx Queryable) interfaces.LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Record appends a ledger entry
func (r *LedgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (user_id, balance_before, balance_after, change_amount, transaction_type, bet_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.ChangeAmount,
		entry.TransactionType,
		entry.BetID,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for user %d: %w", entry.UserID, err)
	}
	return nil
}

// GetByUser returns ledger entries for a user, newest first
func (r *LedgerRepository) GetByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, user_id, balance_before, balance_after, change_amount, transaction_type, bet_id, metadata, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.ChangeAmount,
			&entry.TransactionType,
			&entry.BetID,
			&entry.Metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// SumByUser folds the ledger for a user. The result must equal the cached
// balance at all times; a mismatch means the ledger invariant was broken.
func (r *LedgerRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(change_amount), 0) FROM ledger_entries WHERE user_id = $1`
	var sum int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger for user %d: %w", userID, err)
	}
	return sum, nil
}
