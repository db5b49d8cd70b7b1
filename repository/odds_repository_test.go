package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"clubbet/domain/entities"
	"clubbet/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOddsRepository_InsertAndGetEffective(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOddsRepository(testDB.DB)
	ctx := context.Background()
	matchID := uuid.New()

	t.Run("no effective price", func(t *testing.T) {
		odds, err := repo.GetEffective(ctx, matchID, entities.BetTypeMatchResult, "1", nil)
		require.NoError(t, err)
		assert.Nil(t, odds)
	})

	t.Run("insert makes the price effective", func(t *testing.T) {
		odds := testutil.CreateTestOdds(matchID, "1", 2.00)
		require.NoError(t, repo.Insert(ctx, odds))
		assert.NotZero(t, odds.ID)

		got, err := repo.GetEffective(ctx, matchID, entities.BetTypeMatchResult, "1", nil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2.00, got.Price)
		assert.Nil(t, got.EffectiveUntil)
	})

	t.Run("duplicate effective row rejected", func(t *testing.T) {
		dup := testutil.CreateTestOdds(matchID, "1", 2.10)
		err := repo.Insert(ctx, dup)
		assert.Error(t, err)
	})

	t.Run("parameter distinguishes outcomes", func(t *testing.T) {
		line := "2.5"
		over := testutil.CreateTestOdds(matchID, "OVER", 1.90)
		over.BetType = entities.BetTypeOverUnder
		over.Parameter = &line
		require.NoError(t, repo.Insert(ctx, over))

		otherLine := "3.5"
		overHigher := testutil.CreateTestOdds(matchID, "OVER", 2.40)
		overHigher.BetType = entities.BetTypeOverUnder
		overHigher.Parameter = &otherLine
		require.NoError(t, repo.Insert(ctx, overHigher))

		got, err := repo.GetEffective(ctx, matchID, entities.BetTypeOverUnder, "OVER", &line)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 1.90, got.Price)
	})
}

func TestOddsRepository_CloseEffective(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOddsRepository(testDB.DB)
	ctx := context.Background()
	matchID := uuid.New()

	home := testutil.CreateTestOdds(matchID, "1", 2.00)
	require.NoError(t, repo.Insert(ctx, home))
	btts := testutil.CreateTestOdds(matchID, "YES", 1.70)
	btts.BetType = entities.BetTypeBothTeamsScore
	require.NoError(t, repo.Insert(ctx, btts))

	t.Run("restricted to one bet type", func(t *testing.T) {
		betType := entities.BetTypeMatchResult
		closed, err := repo.CloseEffective(ctx, matchID, &betType, time.Now().UTC())
		require.NoError(t, err)
		require.Len(t, closed, 1)
		assert.Equal(t, "1", closed[0].Selection)

		// The closed row may be replaced
		replacement := testutil.CreateTestOdds(matchID, "1", 2.20)
		require.NoError(t, repo.Insert(ctx, replacement))

		got, err := repo.GetEffective(ctx, matchID, entities.BetTypeMatchResult, "1", nil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2.20, got.Price)
	})

	t.Run("selection scoped close spares other lines", func(t *testing.T) {
		lowLine := "2.5"
		highLine := "3.5"
		overLow := testutil.CreateTestOdds(matchID, "OVER", 1.90)
		overLow.BetType = entities.BetTypeOverUnder
		overLow.Parameter = &lowLine
		require.NoError(t, repo.Insert(ctx, overLow))
		overHigh := testutil.CreateTestOdds(matchID, "OVER", 2.40)
		overHigh.BetType = entities.BetTypeOverUnder
		overHigh.Parameter = &highLine
		require.NoError(t, repo.Insert(ctx, overHigh))

		closed, err := repo.CloseEffectiveSelection(ctx, matchID, entities.BetTypeOverUnder, "OVER", &lowLine, time.Now().UTC())
		require.NoError(t, err)
		require.NotNil(t, closed)
		assert.Equal(t, 1.90, closed.Price)

		// The 3.5 total stays effective.
		got, err := repo.GetEffective(ctx, matchID, entities.BetTypeOverUnder, "OVER", &highLine)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2.40, got.Price)

		// Closing an outcome with no effective row is a no-op.
		closed, err = repo.CloseEffectiveSelection(ctx, matchID, entities.BetTypeOverUnder, "UNDER", &lowLine, time.Now().UTC())
		require.NoError(t, err)
		assert.Nil(t, closed)
	})

	t.Run("nil bet type closes all markets", func(t *testing.T) {
		closed, err := repo.CloseEffective(ctx, matchID, nil, time.Now().UTC())
		require.NoError(t, err)
		assert.Len(t, closed, 3)

		remaining, err := repo.GetEffectiveByMatch(ctx, matchID)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})
}

func TestOddsRepository_History(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewOddsRepository(testDB.DB)
	ctx := context.Background()
	matchID := uuid.New()

	first := &entities.OddsHistory{
		MatchID:   matchID,
		BetType:   entities.BetTypeMatchResult,
		Selection: "1",
		OldPrice:  2.00,
		NewPrice:  2.20,
		ChangePct: 10.0,
		ChangedAt: time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, repo.RecordHistory(ctx, first))

	second := &entities.OddsHistory{
		MatchID:   matchID,
		BetType:   entities.BetTypeMatchResult,
		Selection: "1",
		OldPrice:  2.20,
		NewPrice:  1.98,
		ChangePct: -10.0,
		ChangedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.RecordHistory(ctx, second))

	history, err := repo.GetHistory(ctx, matchID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1.98, history[0].NewPrice)
	assert.Equal(t, 2.20, history[1].NewPrice)

	limited, err := repo.GetHistory(ctx, matchID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
