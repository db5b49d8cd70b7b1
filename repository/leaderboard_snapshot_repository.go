package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"clubbet/database"
	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
)

// LeaderboardSnapshotRepository implements the LeaderboardSnapshotRepository interface
type LeaderboardSnapshotRepository struct {
	q Queryable
}

// NewLeaderboardSnapshotRepository creates a new snapshot repository backed by the pool
func NewLeaderboardSnapshotRepository(db *database.DB) *LeaderboardSnapshotRepository {
	return &LeaderboardSnapshotRepository{q: db.Pool}
}

func newLeaderboardSnapshotRepositoryWithTx(tx Queryable) interfaces.LeaderboardSnapshotRepository {
	return &LeaderboardSnapshotRepository{q: tx}
}

// Save persists a computed ranking
func (r *LeaderboardSnapshotRepository) Save(ctx context.Context, snapshot *entities.LeaderboardSnapshot) error {
	// JSON object keys are strings, so user ids round-trip through strconv.
	ranks := make(map[string]int, len(snapshot.Ranks))
	for userID, rank := range snapshot.Ranks {
		ranks[strconv.FormatInt(userID, 10)] = rank
	}
	payload, err := json.Marshal(ranks)
	if err != nil {
		return fmt.Errorf("failed to marshal ranks: %w", err)
	}

	query := `
		INSERT INTO leaderboard_snapshots (period, sort_metric, ranks, computed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err = r.q.QueryRow(ctx, query, snapshot.Period, snapshot.SortMetric, payload, snapshot.ComputedAt).Scan(&snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to save leaderboard snapshot: %w", err)
	}
	return nil
}

// GetLatest returns the most recent snapshot for a period and metric, or nil
// when none exists
func (r *LeaderboardSnapshotRepository) GetLatest(ctx context.Context, period entities.Period, metric entities.SortMetric) (*entities.LeaderboardSnapshot, error) {
	query := `
		SELECT id, period, sort_metric, ranks, computed_at
		FROM leaderboard_snapshots
		WHERE period = $1 AND sort_metric = $2
		ORDER BY computed_at DESC, id DESC
		LIMIT 1`

	var snapshot entities.LeaderboardSnapshot
	var payload []byte
	err := r.q.QueryRow(ctx, query, period, metric).Scan(
		&snapshot.ID,
		&snapshot.Period,
		&snapshot.SortMetric,
		&payload,
		&snapshot.ComputedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard snapshot: %w", err)
	}

	var ranks map[string]int
	if err := json.Unmarshal(payload, &ranks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranks: %w", err)
	}
	snapshot.Ranks = make(map[int64]int, len(ranks))
	for key, rank := range ranks {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user id %q in snapshot: %w", key, err)
		}
		snapshot.Ranks[userID] = rank
	}
	return &snapshot, nil
}
