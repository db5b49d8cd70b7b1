package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
	"clubbet/domain/utils"

	log "github.com/sirupsen/logrus"
)

type leaderboardService struct {
	betRepo      interfaces.BetRepository
	userRepo     interfaces.UserRepository
	snapshotRepo interfaces.LeaderboardSnapshotRepository
	cache        interfaces.LeaderboardCache
	now          func() time.Time
}

// NewLeaderboardService creates a new leaderboard service. cache may be
// nil, in which case every read recomputes.
func NewLeaderboardService(
	betRepo interfaces.BetRepository,
	userRepo interfaces.UserRepository,
	snapshotRepo interfaces.LeaderboardSnapshotRepository,
	cache interfaces.LeaderboardCache,
) interfaces.LeaderboardService {
	return &leaderboardService{
		betRepo:      betRepo,
		userRepo:     userRepo,
		snapshotRepo: snapshotRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// GetLeaderboard computes ranked entries for a period and sort metric
func (s *leaderboardService) GetLeaderboard(ctx context.Context, period entities.Period, sortBy entities.SortMetric, limit, offset int) ([]*entities.LeaderboardEntry, error) {
	entries, err := s.rankedEntries(ctx, period, sortBy)
	if err != nil {
		return nil, err
	}

	if offset >= len(entries) {
		return []*entities.LeaderboardEntry{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], nil
}

// GetUserRank returns one user's rank info, or nil when the user has no
// bets in the period.
func (s *leaderboardService) GetUserRank(ctx context.Context, userID int64, period entities.Period) (*entities.UserRankInfo, error) {
	entries, err := s.rankedEntries(ctx, period, entities.SortByProfit)
	if err != nil {
		return nil, err
	}

	var entry *entities.LeaderboardEntry
	for _, e := range entries {
		if e.UserID == userID {
			entry = e
			break
		}
	}
	if entry == nil {
		return nil, nil
	}

	return &entities.UserRankInfo{
		UserID:     userID,
		Rank:       entry.Rank,
		RankChange: entry.RankChange,
		TotalUsers: len(entries),
		Percentile: entities.CalculatePercentile(entry.Rank, len(entries)),
		Entry:      entry,
	}, nil
}

// GetStats summarizes the whole leaderboard for a period
func (s *leaderboardService) GetStats(ctx context.Context, period entities.Period) (*entities.LeaderboardStats, error) {
	entries, err := s.rankedEntries(ctx, period, entities.SortByProfit)
	if err != nil {
		return nil, err
	}

	stats := &entities.LeaderboardStats{TotalUsers: len(entries)}
	for _, e := range entries {
		stats.TotalBetsPlaced += e.TotalBets
		stats.TotalAmountWagered += e.TotalStaked
		if e.NetProfit > stats.HighestProfit {
			stats.HighestProfit = e.NetProfit
		}
		if e.ROI > stats.HighestROI {
			stats.HighestROI = e.ROI
		}
		if e.WinRate > stats.BestWinRate {
			stats.BestWinRate = e.WinRate
		}
	}
	if stats.TotalBetsPlaced > 0 {
		stats.AverageBetSize = float64(stats.TotalAmountWagered) / float64(stats.TotalBetsPlaced)
	}
	return stats, nil
}

// rankedEntries aggregates the bet history into ranked leaderboard entries,
// consulting the cache first and persisting a ranking snapshot on
// recomputation so the next read can report rank movement.
func (s *leaderboardService) rankedEntries(ctx context.Context, period entities.Period, sortBy entities.SortMetric) ([]*entities.LeaderboardEntry, error) {
	if !period.IsValid() {
		return nil, fmt.Errorf("unknown period %q", period)
	}
	if !sortBy.IsValid() {
		return nil, fmt.Errorf("unknown sort metric %q", sortBy)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, period, sortBy); ok {
			return cached, nil
		}
	}

	since, bounded := utils.PeriodStart(period, s.now())
	if !bounded {
		since = time.Time{}
	}
	bets, err := s.betRepo.GetPlacedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}

	entries := AggregateBets(bets)
	s.fillUsernames(ctx, entries)
	RankEntries(entries, sortBy)

	// Rank movement compares against the snapshot this computation is
	// about to supersede. Positive means the user moved up the board.
	previous, err := s.snapshotRepo.GetLatest(ctx, period, sortBy)
	if err != nil {
		log.WithError(err).Warn("Failed to load previous leaderboard snapshot")
	} else if previous != nil {
		for _, e := range entries {
			if prevRank, ok := previous.Ranks[e.UserID]; ok {
				e.RankChange = prevRank - e.Rank
			}
		}
	}

	snapshot := &entities.LeaderboardSnapshot{
		Period:     period,
		SortMetric: sortBy,
		Ranks:      make(map[int64]int, len(entries)),
		ComputedAt: s.now(),
	}
	for _, e := range entries {
		snapshot.Ranks[e.UserID] = e.Rank
	}
	if err := s.snapshotRepo.Save(ctx, snapshot); err != nil {
		log.WithError(err).Warn("Failed to save leaderboard snapshot")
	}

	if s.cache != nil {
		s.cache.Set(ctx, period, sortBy, entries)
	}
	return entries, nil
}

func (s *leaderboardService) fillUsernames(ctx context.Context, entries []*entities.LeaderboardEntry) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to load usernames for leaderboard")
		return
	}
	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	for _, e := range entries {
		e.Username = names[e.UserID]
	}
}

// AggregateBets folds a bet history into one unranked entry per user.
// Pending bets count toward total_bets and total_staked but not the
// win-rate denominator. Void bets are excluded from both staked and
// returned so a refund is ROI-neutral.
func AggregateBets(bets []*entities.Bet) []*entities.LeaderboardEntry {
	byUser := make(map[int64]*entities.LeaderboardEntry)
	oddsSum := make(map[int64]float64)

	for _, bet := range bets {
		entry, ok := byUser[bet.UserID]
		if !ok {
			entry = &entities.LeaderboardEntry{UserID: bet.UserID}
			byUser[bet.UserID] = entry
		}

		entry.TotalBets++
		oddsSum[bet.UserID] += bet.CombinedOdds

		switch bet.Status {
		case entities.BetStatusPending:
			entry.PendingBets++
			entry.TotalStaked += bet.Stake
		case entities.BetStatusWon:
			entry.WonBets++
			entry.TotalStaked += bet.Stake
			entry.TotalReturned += bet.Payout
		case entities.BetStatusLost:
			entry.LostBets++
			entry.TotalStaked += bet.Stake
		case entities.BetStatusVoid:
			entry.VoidBets++
		}
	}

	entries := make([]*entities.LeaderboardEntry, 0, len(byUser))
	for userID, entry := range byUser {
		entry.NetProfit = entry.TotalReturned - entry.TotalStaked
		if decided := entry.WonBets + entry.LostBets; decided > 0 {
			entry.WinRate = float64(entry.WonBets) / float64(decided) * 100
		}
		if entry.TotalStaked > 0 {
			entry.ROI = float64(entry.NetProfit) / float64(entry.TotalStaked) * 100
		}
		if entry.TotalBets > 0 {
			entry.AverageOdds = oddsSum[userID] / float64(entry.TotalBets)
		}
		entries = append(entries, entry)
	}
	return entries
}

// RankEntries sorts entries descending by the chosen metric and assigns
// rank 1..N. Ties break on user id so the ranking is reproducible.
func RankEntries(entries []*entities.LeaderboardEntry, sortBy entities.SortMetric) {
	sort.Slice(entries, func(i, j int) bool {
		vi, vj := entries[i].MetricValue(sortBy), entries[j].MetricValue(sortBy)
		if vi != vj {
			return vi > vj
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i, e := range entries {
		e.Rank = i + 1
	}
}
