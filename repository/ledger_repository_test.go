package repository

import (
	"context"
	"testing"

	"clubbet/domain/entities"
	"clubbet/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 42, "bettor", 100000)
	require.NoError(t, err)

	t.Run("records entry with generated id and timestamp", func(t *testing.T) {
		entry := testutil.CreateTestLedgerEntryWithAmounts(42, 100000, 99000, -1000, entities.TransactionTypeStakeDebit)

		err := repo.Record(ctx, entry)
		require.NoError(t, err)
		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("inconsistent amounts rejected by schema", func(t *testing.T) {
		entry := testutil.CreateTestLedgerEntryWithAmounts(42, 100000, 90000, -1000, entities.TransactionTypeStakeDebit)

		err := repo.Record(ctx, entry)
		assert.Error(t, err)
	})
}

func TestLedgerRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 42, "bettor", 100000)
	require.NoError(t, err)

	entries := []*entities.LedgerEntry{
		testutil.CreateTestLedgerEntryWithAmounts(42, 0, 100000, 100000, entities.TransactionTypeInitial),
		testutil.CreateTestLedgerEntryWithAmounts(42, 100000, 99000, -1000, entities.TransactionTypeStakeDebit),
		testutil.CreateTestLedgerEntryWithAmounts(42, 99000, 101500, 2500, entities.TransactionTypePayoutCredit),
	}
	for _, entry := range entries {
		require.NoError(t, repo.Record(ctx, entry))
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, 42, 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, entities.TransactionTypePayoutCredit, got[0].TransactionType)
		assert.Equal(t, entities.TransactionTypeInitial, got[2].TransactionType)
	})

	t.Run("pagination", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, 42, 1, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, entities.TransactionTypeStakeDebit, got[0].TransactionType)
	})

	t.Run("no entries for other users", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, 77, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLedgerRepository_SumByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 42, "bettor", 100000)
	require.NoError(t, err)

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		sum, err := repo.SumByUser(ctx, 42)
		require.NoError(t, err)
		assert.Zero(t, sum)
	})

	t.Run("fold equals final balance", func(t *testing.T) {
		entries := []*entities.LedgerEntry{
			testutil.CreateTestLedgerEntryWithAmounts(42, 0, 100000, 100000, entities.TransactionTypeInitial),
			testutil.CreateTestLedgerEntryWithAmounts(42, 100000, 99000, -1000, entities.TransactionTypeStakeDebit),
			testutil.CreateTestLedgerEntryWithAmounts(42, 99000, 101500, 2500, entities.TransactionTypePayoutCredit),
		}
		for _, entry := range entries {
			require.NoError(t, repo.Record(ctx, entry))
		}

		sum, err := repo.SumByUser(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(101500), sum)
	})
}
