package user

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup, _ = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *UserRepoImpl) {
	test_utils.RequireDB(t, db)
	return context.Background(), NewUserRepo(db)
}

func TestUserRepo_CreateAndGetByUid(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)

	// when
	id, err := repo.CreateUser(ctx, User{
		Uid:         "uid-1",
		Username:    "jana",
		DisplayName: "Jana",
		Settings:    Settings{Timezone: "Europe/Bratislava", DefaultHourlyRateCents: rate(4000)},
	})
	require.NoError(t, err)

	// then
	stored, err := repo.GetUserByUid(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, id, stored.Id)
	assert.Equal(t, "Europe/Bratislava", stored.Settings.Timezone)
	assert.Equal(t, int64(4000), *stored.Settings.DefaultHourlyRateCents)
}

func TestUserRepo_GetUserByUid_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	_, err := repo.GetUserByUid(ctx, "missing")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_UpdateSettingsAndDefaultRates(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	first, _ := repo.CreateUser(ctx, User{Uid: "a", Username: "a", DisplayName: "A"})
	second, _ := repo.CreateUser(ctx, User{Uid: "b", Username: "b", DisplayName: "B"})

	// when
	require.NoError(t, repo.UpdateSettings(ctx, first, Settings{DefaultHourlyRateCents: rate(5500)}))
	rates, err := repo.DefaultRates(ctx, []int{first, second})

	// then
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{first: 5500}, rates)
	assert.ErrorIs(t, repo.UpdateSettings(ctx, 999, Settings{}), ErrUserNotFound)
}
