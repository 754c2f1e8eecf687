package timer

import (
	"context"
	"os"
	"testing"
	"time"

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

func TestRepository_ReplaceFindDelete(t *testing.T) {
	// given
	test_utils.RequireDB(t, db)
	ctx := context.Background()
	repo := NewRepository(db)
	userId := test_utils.InsertUser(t, db, "u-1", "UTC", nil)
	first := test_utils.InsertTask(t, db, nil, "Review")
	second := test_utils.InsertTask(t, db, nil, "Deploy")
	startTime := time.Date(2025, time.December, 20, 14, 0, 0, 0, time.UTC)

	// when
	none, err := repo.FindTimer(ctx, userId)
	require.NoError(t, err)
	_, err = repo.ReplaceTimer(ctx, userId, RunningTimer{TaskId: first, Description: "a", BillingType: "regular", StartTime: startTime})
	require.NoError(t, err)
	_, err = repo.ReplaceTimer(ctx, userId, RunningTimer{TaskId: second, Description: "b", BillingType: "extra", StartTime: startTime.Add(time.Hour)})
	require.NoError(t, err)
	found, err := repo.FindTimer(ctx, userId)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteTimer(ctx, userId))
	afterDelete, err := repo.FindTimer(ctx, userId)
	require.NoError(t, err)

	// then
	assert.False(t, none.IsRunning())
	assert.Equal(t, second, found.TaskId)
	assert.Equal(t, "b", found.Description)
	assert.Equal(t, "extra", found.BillingType)
	assert.True(t, startTime.Add(time.Hour).Equal(found.StartTime))
	assert.False(t, afterDelete.IsRunning())
}
