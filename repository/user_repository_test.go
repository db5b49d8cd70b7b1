package repository

import (
	"context"
	"testing"

	"clubbet/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, "testuser", 100000)
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, int64(123456), user.ID)
		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, int64(100000), user.Balance)
		assert.Equal(t, created.CreatedAt, user.CreatedAt)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		user, err := repo.Create(ctx, 123456, "testuser", 100000)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, int64(123456), user.ID)
		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, int64(100000), user.Balance)
		assert.False(t, user.CreatedAt.IsZero())
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := repo.Create(ctx, 789012, "testuser2", 100000)
		require.NoError(t, err)

		_, err = repo.Create(ctx, 789012, "different_name", 100000)
		assert.Error(t, err)
	})
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("updates existing user", func(t *testing.T) {
		_, err := repo.Create(ctx, 111, "bettor", 100000)
		require.NoError(t, err)

		err = repo.UpdateBalance(ctx, 111, 95000)
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, 111)
		require.NoError(t, err)
		assert.Equal(t, int64(95000), user.Balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, 424242, 1000)
		assert.Error(t, err)
	})

	t.Run("negative balance rejected by schema", func(t *testing.T) {
		_, err := repo.Create(ctx, 222, "broke", 100)
		require.NoError(t, err)

		err = repo.UpdateBalance(ctx, 222, -1)
		assert.Error(t, err)
	})
}

func TestUserRepository_GetAll(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 1, "ada", 100000)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 2, "bea", 100000)
	require.NoError(t, err)

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
