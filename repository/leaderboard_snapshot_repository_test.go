package repository

import (
	"context"
	"testing"
	"time"

	"clubbet/domain/entities"
	"clubbet/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardSnapshotRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLeaderboardSnapshotRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no snapshot yet", func(t *testing.T) {
		got, err := repo.GetLatest(ctx, entities.PeriodWeekly, entities.SortByProfit)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("save and load ranks", func(t *testing.T) {
		snapshot := &entities.LeaderboardSnapshot{
			Period:     entities.PeriodWeekly,
			SortMetric: entities.SortByProfit,
			Ranks:      map[int64]int{1: 2, 2: 1, 3: 3},
			ComputedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Save(ctx, snapshot))
		assert.NotZero(t, snapshot.ID)

		got, err := repo.GetLatest(ctx, entities.PeriodWeekly, entities.SortByProfit)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, snapshot.Ranks, got.Ranks)
	})

	t.Run("latest wins", func(t *testing.T) {
		newer := &entities.LeaderboardSnapshot{
			Period:     entities.PeriodWeekly,
			SortMetric: entities.SortByProfit,
			Ranks:      map[int64]int{1: 1, 2: 2},
			ComputedAt: time.Now().UTC().Add(time.Minute),
		}
		require.NoError(t, repo.Save(ctx, newer))

		got, err := repo.GetLatest(ctx, entities.PeriodWeekly, entities.SortByProfit)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, map[int64]int{1: 1, 2: 2}, got.Ranks)
	})

	t.Run("scoped by period and metric", func(t *testing.T) {
		got, err := repo.GetLatest(ctx, entities.PeriodDaily, entities.SortByProfit)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetLatest(ctx, entities.PeriodWeekly, entities.SortByROI)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
