package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubbet/domain/entities"
	"clubbet/domain/testhelpers"
)

func settledBet(userID int64, status entities.BetStatus, stake, payout int64, odds float64) *entities.Bet {
	return &entities.Bet{
		UserID:       userID,
		Structure:    entities.BetStructureSingle,
		Stake:        stake,
		CombinedOdds: odds,
		Status:       status,
		Payout:       payout,
		PlacedAt:     time.Now().Add(-time.Hour),
	}
}

func TestAggregateBets_SpecExample(t *testing.T) {
	// 10 bets, 6 won / 4 lost, staked 100.00, returned 140.00.
	var bets []*entities.Bet
	for i := 0; i < 6; i++ {
		bets = append(bets, settledBet(7, entities.BetStatusWon, 1000, 2333, 2.33))
	}
	// Adjust one payout so the total returned is exactly 140.00.
	bets[0].Payout = 2335
	for i := 0; i < 4; i++ {
		bets = append(bets, settledBet(7, entities.BetStatusLost, 1000, 0, 2.33))
	}

	entries := AggregateBets(bets)
	require.Len(t, entries, 1)
	e := entries[0]

	assert.Equal(t, 10, e.TotalBets)
	assert.Equal(t, 6, e.WonBets)
	assert.Equal(t, 4, e.LostBets)
	assert.Equal(t, int64(10000), e.TotalStaked)
	assert.Equal(t, int64(14000), e.TotalReturned)
	assert.Equal(t, int64(4000), e.NetProfit)
	assert.InDelta(t, 60.0, e.WinRate, 0.0001)
	assert.InDelta(t, 40.0, e.ROI, 0.0001)
}

func TestAggregateBets_VoidIsROINeutral(t *testing.T) {
	bets := []*entities.Bet{
		settledBet(7, entities.BetStatusWon, 1000, 2000, 2.0),
		settledBet(7, entities.BetStatusVoid, 1000, 1000, 3.0),
	}

	entries := AggregateBets(bets)
	require.Len(t, entries, 1)
	e := entries[0]

	// The refunded stake appears on neither side of the ROI fraction.
	assert.Equal(t, int64(1000), e.TotalStaked)
	assert.Equal(t, int64(2000), e.TotalReturned)
	assert.InDelta(t, 100.0, e.ROI, 0.0001)
	assert.Equal(t, 1, e.VoidBets)
}

func TestAggregateBets_PendingExcludedFromWinRate(t *testing.T) {
	bets := []*entities.Bet{
		settledBet(7, entities.BetStatusWon, 1000, 2000, 2.0),
		settledBet(7, entities.BetStatusLost, 1000, 0, 2.0),
		settledBet(7, entities.BetStatusPending, 1000, 0, 2.0),
	}

	entries := AggregateBets(bets)
	require.Len(t, entries, 1)
	e := entries[0]

	assert.Equal(t, 3, e.TotalBets)
	assert.Equal(t, 1, e.PendingBets)
	assert.InDelta(t, 50.0, e.WinRate, 0.0001)
}

func TestAggregateBets_ZeroDenominators(t *testing.T) {
	entries := AggregateBets([]*entities.Bet{
		settledBet(7, entities.BetStatusVoid, 1000, 1000, 2.0),
	})
	require.Len(t, entries, 1)
	assert.Zero(t, entries[0].WinRate)
	assert.Zero(t, entries[0].ROI)
}

func TestRankEntries_ProfitOrderingAndTies(t *testing.T) {
	entries := []*entities.LeaderboardEntry{
		{UserID: 3, NetProfit: 2000},
		{UserID: 1, NetProfit: 4000},
		{UserID: 2, NetProfit: 2000},
	}

	RankEntries(entries, entities.SortByProfit)

	assert.Equal(t, int64(1), entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	// Equal profit ties break on user id for a reproducible ranking.
	assert.Equal(t, int64(2), entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, int64(3), entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestGetUserRank(t *testing.T) {
	betRepo := new(testhelpers.MockBetRepository)
	userRepo := new(testhelpers.MockUserRepository)
	snapshotRepo := new(testhelpers.MockLeaderboardSnapshotRepository)
	svc := NewLeaderboardService(betRepo, userRepo, snapshotRepo, nil)
	ctx := context.Background()

	bets := []*entities.Bet{
		settledBet(1, entities.BetStatusWon, 1000, 4000, 4.0),
		settledBet(2, entities.BetStatusWon, 1000, 2000, 2.0),
		settledBet(3, entities.BetStatusLost, 1000, 0, 2.0),
	}
	betRepo.On("GetPlacedSince", ctx, mock.Anything).Return(bets, nil)
	userRepo.On("GetAll", ctx).Return([]*entities.User{
		{ID: 1, Username: "ada"}, {ID: 2, Username: "ben"}, {ID: 3, Username: "cyril"},
	}, nil)
	// User 1 was second on the previous computation and moved up.
	snapshotRepo.On("GetLatest", ctx, entities.PeriodAllTime, entities.SortByProfit).
		Return(&entities.LeaderboardSnapshot{
			Period:     entities.PeriodAllTime,
			SortMetric: entities.SortByProfit,
			Ranks:      map[int64]int{1: 2, 2: 1, 3: 3},
		}, nil)
	snapshotRepo.On("Save", ctx, mock.Anything).Return(nil)

	info, err := svc.GetUserRank(ctx, 1, entities.PeriodAllTime)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, 1, info.Rank)
	assert.Equal(t, 1, info.RankChange)
	assert.Equal(t, 3, info.TotalUsers)
	assert.InDelta(t, 1.0/3.0, info.Percentile, 0.0001)
	assert.Equal(t, "ada", info.Entry.Username)

	// A user with no bets in the period has no rank.
	info, err = svc.GetUserRank(ctx, 99, entities.PeriodAllTime)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGetLeaderboard_PaginationAndCache(t *testing.T) {
	betRepo := new(testhelpers.MockBetRepository)
	userRepo := new(testhelpers.MockUserRepository)
	snapshotRepo := new(testhelpers.MockLeaderboardSnapshotRepository)
	cache := new(testhelpers.MockLeaderboardCache)
	svc := NewLeaderboardService(betRepo, userRepo, snapshotRepo, cache)
	ctx := context.Background()

	cached := []*entities.LeaderboardEntry{
		{Rank: 1, UserID: 1}, {Rank: 2, UserID: 2}, {Rank: 3, UserID: 3},
	}
	cache.On("Get", ctx, entities.PeriodWeekly, entities.SortByProfit).Return(cached, true)

	page, err := svc.GetLeaderboard(ctx, entities.PeriodWeekly, entities.SortByProfit, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, 2, page[0].Rank)
	assert.Equal(t, 3, page[1].Rank)

	// A cache hit never touches the bet history.
	betRepo.AssertNotCalled(t, "GetPlacedSince", mock.Anything, mock.Anything)
}

func TestGetLeaderboard_UnknownInputs(t *testing.T) {
	svc := NewLeaderboardService(nil, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.GetLeaderboard(ctx, entities.Period("FORTNIGHTLY"), entities.SortByProfit, 10, 0)
	assert.Error(t, err)

	_, err = svc.GetLeaderboard(ctx, entities.PeriodWeekly, entities.SortMetric("LUCK"), 10, 0)
	assert.Error(t, err)
}

func TestGetStats(t *testing.T) {
	betRepo := new(testhelpers.MockBetRepository)
	userRepo := new(testhelpers.MockUserRepository)
	snapshotRepo := new(testhelpers.MockLeaderboardSnapshotRepository)
	svc := NewLeaderboardService(betRepo, userRepo, snapshotRepo, nil)
	ctx := context.Background()

	bets := []*entities.Bet{
		settledBet(1, entities.BetStatusWon, 1000, 4000, 4.0),
		settledBet(2, entities.BetStatusLost, 2000, 0, 2.0),
	}
	betRepo.On("GetPlacedSince", ctx, mock.Anything).Return(bets, nil)
	userRepo.On("GetAll", ctx).Return([]*entities.User{}, nil)
	snapshotRepo.On("GetLatest", ctx, mock.Anything, mock.Anything).Return(nil, nil)
	snapshotRepo.On("Save", ctx, mock.Anything).Return(nil)

	stats, err := svc.GetStats(ctx, entities.PeriodAllTime)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalBetsPlaced)
	assert.Equal(t, int64(3000), stats.TotalAmountWagered)
	assert.Equal(t, int64(3000), stats.HighestProfit)
	assert.InDelta(t, 1500.0, stats.AverageBetSize, 0.0001)
}
