package interfaces

import (
	"context"

	"github.com/google/uuid"

	"clubbet/domain/entities"
	"clubbet/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding unit of
// work commits, then flushes them; a rollback discards them
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events; called after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all buffered events; called on rollback
	Discard()
}

// MatchCatalog is the port to the external fixture catalog. The engine
// trusts it for match status, kickoff times and final outcomes.
type MatchCatalog interface {
	// GetMatch returns scheduling and status information for a match
	GetMatch(ctx context.Context, matchID uuid.UUID) (*entities.MatchInfo, error)
}

// WalletService defines the interface for wallet operations
type WalletService interface {
	// GetOrCreateUser retrieves an existing wallet account or opens a new one
	// with the configured initial balance
	GetOrCreateUser(ctx context.Context, userID int64, username string) (*entities.User, error)

	// Debit removes amount from the wallet, appending a ledger entry.
	// Fails with entities.ErrInsufficientBalance when amount exceeds balance.
	Debit(ctx context.Context, userID int64, amount int64, reason entities.TransactionType, betID *int64) error

	// Credit adds amount to the wallet, appending a ledger entry. Crediting
	// never fails on balance grounds.
	Credit(ctx context.Context, userID int64, amount int64, reason entities.TransactionType, betID *int64) error

	// Balance returns the current balance
	Balance(ctx context.Context, userID int64) (int64, error)

	// History returns ledger entries, newest first
	History(ctx context.Context, userID int64, limit, offset int) ([]*entities.LedgerEntry, error)
}

// BettingService defines the interface for bet placement and retrieval
type BettingService interface {
	// PlaceBet validates and records a wager against current odds and wallet
	// balance as one atomic unit
	PlaceBet(ctx context.Context, userID int64, legs []entities.LegSelection, stake int64) (*entities.Bet, error)

	// GetBet retrieves a bet with its legs
	GetBet(ctx context.Context, betID int64) (*entities.Bet, error)

	// GetUserBets returns a user's bets, newest first
	GetUserBets(ctx context.Context, userID int64, status *entities.BetStatus, limit, offset int) ([]*entities.Bet, error)
}

// SettlementService defines the interface for resolving bets once a match
// outcome is known
type SettlementService interface {
	// SettleBet grades the bet's pending legs on the match and, once every
	// leg is determined, resolves the bet and credits any payout. Returns
	// true when the bet reached a terminal state in this call. Idempotent:
	// a redelivered result cannot double-credit a wallet.
	SettleBet(ctx context.Context, betID int64, outcome *entities.MatchOutcome) (bool, error)
}

// OddsService defines the interface for market price management
type OddsService interface {
	// PublishMarket validates and stores a full market's prices, superseding
	// any currently effective prices and appending history records
	PublishMarket(ctx context.Context, matchID uuid.UUID, betType entities.BetType, entries []entities.MarketEntry, source entities.OddsSource) error

	// CurrentOdds returns all currently effective prices for a match
	CurrentOdds(ctx context.Context, matchID uuid.UUID) ([]*entities.Odds, error)

	// OddsHistory returns supersession records for a match, newest first
	OddsHistory(ctx context.Context, matchID uuid.UUID, limit int) ([]*entities.OddsHistory, error)

	// LockMatch closes every effective price for a match (betting closed)
	LockMatch(ctx context.Context, matchID uuid.UUID) error
}

// LeaderboardCache is a best-effort read cache for computed leaderboards.
// Implementations must treat a miss and a backend failure the same way;
// the aggregator always recomputes on a miss.
type LeaderboardCache interface {
	// Get returns a cached leaderboard, or ok=false on miss
	Get(ctx context.Context, period entities.Period, metric entities.SortMetric) (entries []*entities.LeaderboardEntry, ok bool)

	// Set stores a computed leaderboard
	Set(ctx context.Context, period entities.Period, metric entities.SortMetric, entries []*entities.LeaderboardEntry)
}

// LeaderboardService defines the interface for ranking computation
type LeaderboardService interface {
	// GetLeaderboard computes ranked entries for a period and sort metric
	GetLeaderboard(ctx context.Context, period entities.Period, sortBy entities.SortMetric, limit, offset int) ([]*entities.LeaderboardEntry, error)

	// GetUserRank returns one user's rank info, or nil when the user has no
	// bets in the period
	GetUserRank(ctx context.Context, userID int64, period entities.Period) (*entities.UserRankInfo, error)

	// GetStats summarizes the whole leaderboard for a period
	GetStats(ctx context.Context, period entities.Period) (*entities.LeaderboardStats, error)
}
