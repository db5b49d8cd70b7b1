package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clubbet/domain/entities"
)

// UserRepository defines the interface for wallet account data access
type UserRepository interface {
	// GetByID retrieves a user by id, or nil if none exists
	GetByID(ctx context.Context, userID int64) (*entities.User, error)

	// GetByIDForUpdate retrieves a user and locks the row for the duration of
	// the surrounding transaction, serializing concurrent balance checks
	GetByIDForUpdate(ctx context.Context, userID int64) (*entities.User, error)

	// Create creates a new user with the initial balance
	Create(ctx context.Context, userID int64, username string, initialBalance int64) (*entities.User, error)

	// UpdateBalance updates a user's cached balance
	UpdateBalance(ctx context.Context, userID int64, newBalance int64) error

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*entities.User, error)
}

// LedgerRepository defines the interface for the append-only wallet ledger
type LedgerRepository interface {
	// Record appends a ledger entry
	Record(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByUser returns ledger entries for a user, newest first
	GetByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.LedgerEntry, error)

	// SumByUser folds the ledger for a user; the result must equal the cached
	// balance at all times
	SumByUser(ctx context.Context, userID int64) (int64, error)
}

// BetRepository defines the interface for bet and leg data access
type BetRepository interface {
	// Create persists a bet and its legs, populating ids and timestamps
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet with its legs, or nil if none exists
	GetByID(ctx context.Context, id int64) (*entities.Bet, error)

	// GetByUser returns bets (with legs) for a user, newest first, optionally
	// filtered by status
	GetByUser(ctx context.Context, userID int64, status *entities.BetStatus, limit, offset int) ([]*entities.Bet, error)

	// GetPendingByMatch returns pending bets having at least one leg on the match
	GetPendingByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Bet, error)

	// UpdateLegOutcome records a leg's settlement outcome
	UpdateLegOutcome(ctx context.Context, legID int64, outcome entities.LegOutcome, determinedAt time.Time) error

	// SettleBet atomically moves a bet from PENDING to a terminal status,
	// recording the payout. Returns false when the bet was already terminal,
	// which callers must treat as "someone else settled it".
	SettleBet(ctx context.Context, betID int64, status entities.BetStatus, payout int64, settledAt time.Time) (bool, error)

	// GetPlacedSince returns bets placed at or after the cutoff (zero time
	// means no cutoff), for leaderboard aggregation
	GetPlacedSince(ctx context.Context, since time.Time) ([]*entities.Bet, error)
}

// OddsRepository defines the interface for odds data access
type OddsRepository interface {
	// GetEffective returns the currently effective price for one outcome, or
	// nil when none exists
	GetEffective(ctx context.Context, matchID uuid.UUID, betType entities.BetType, selection string, parameter *string) (*entities.Odds, error)

	// GetEffectiveByMatch returns all currently effective prices for a match
	GetEffectiveByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Odds, error)

	// CloseEffective closes the validity window of every effective price for
	// a match, optionally restricted to one bet type (nil = all markets)
	CloseEffective(ctx context.Context, matchID uuid.UUID, betType *entities.BetType, at time.Time) ([]*entities.Odds, error)

	// CloseEffectiveSelection closes the effective price for one outcome,
	// returning the closed row or nil when none was effective. Other lines
	// of the same market are untouched.
	CloseEffectiveSelection(ctx context.Context, matchID uuid.UUID, betType entities.BetType, selection string, parameter *string, at time.Time) (*entities.Odds, error)

	// Insert persists a new effective price row
	Insert(ctx context.Context, odds *entities.Odds) error

	// RecordHistory appends an odds supersession record
	RecordHistory(ctx context.Context, h *entities.OddsHistory) error

	// GetHistory returns supersession records for a match, newest first
	GetHistory(ctx context.Context, matchID uuid.UUID, limit int) ([]*entities.OddsHistory, error)
}

// LeaderboardSnapshotRepository persists computed rankings so the next
// computation can report rank movement
type LeaderboardSnapshotRepository interface {
	// Save persists a computed ranking
	Save(ctx context.Context, snapshot *entities.LeaderboardSnapshot) error

	// GetLatest returns the most recent snapshot for a period and metric, or
	// nil when none exists
	GetLatest(ctx context.Context, period entities.Period, metric entities.SortMetric) (*entities.LeaderboardSnapshot, error)
}
