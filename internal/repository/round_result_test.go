package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRoundResultRepository_Create(t *testing.T) {
	db := TestDB(t)
	defer CleanupTestDB(db)
	repo := NewRoundResultRepository(db)
	ctx := context.Background()

	result := CreateTestRoundResult("session_1", 1, 217, 163)
	err := repo.Create(ctx, result)
	require.NoError(t, err)
	assert.NotZero(t, result.ID)

	found, err := repo.FindByRound(ctx, "session_1", 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(380), found.TotalMs)
}

func TestRoundResultRepository_FindBySessionID(t *testing.T) {
	db := TestDB(t)
	defer CleanupTestDB(db)
	repo := NewRoundResultRepository(db)
	ctx := context.Background()

	for ix := uint32(1); ix <= 6; ix++ {
		result := CreateTestRoundResult("session_1", ix, 200+ix*10, 150)
		require.NoError(t, repo.Create(ctx, result))
	}
	// 其他会话的数据不应混入
	require.NoError(t, repo.Create(ctx, CreateTestRoundResult("session_2", 1, 300, 300)))

	pagination := NewPagination(1, 10)
	results, err := repo.FindBySessionID(ctx, "session_1", pagination)
	require.NoError(t, err)
	assert.Len(t, results, 6)
	assert.Equal(t, int64(6), pagination.Total)

	// 按回合序号升序返回
	for i, result := range results {
		assert.Equal(t, uint32(i+1), result.Round)
	}
}

func TestRoundResultRepository_FindTimeouts(t *testing.T) {
	db := TestDB(t)
	defer CleanupTestDB(db)
	repo := NewRoundResultRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, CreateTestRoundResult("session_1", 1, 217, 163)))
	require.NoError(t, repo.Create(ctx, CreateTestAbortedRound("session_1", 2, "tactile_timeout")))
	require.NoError(t, repo.Create(ctx, CreateTestAbortedRound("session_1", 3, "false_start")))
	require.NoError(t, repo.Create(ctx, CreateTestRoundResult("session_1", 4, 190, 140)))

	aborted, err := repo.FindTimeouts(ctx, "session_1")
	require.NoError(t, err)
	require.Len(t, aborted, 2)
	assert.Equal(t, "tactile_timeout", aborted[0].Outcome)
	assert.Equal(t, "false_start", aborted[1].Outcome)
}

func TestRoundResultRepository_BestTotal(t *testing.T) {
	db := TestDB(t)
	defer CleanupTestDB(db)
	repo := NewRoundResultRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, CreateTestRoundResult("session_1", 1, 300, 274)))
	require.NoError(t, repo.Create(ctx, CreateTestRoundResult("session_1", 2, 180, 220)))
	require.NoError(t, repo.Create(ctx, CreateTestRoundResult("session_1", 3, 250, 260)))
	// 中止回合不参与最佳统计
	require.NoError(t, repo.Create(ctx, CreateTestAbortedRound("session_1", 4, "visual_timeout")))

	best, err := repo.BestTotal(ctx, "session_1")
	require.NoError(t, err)
	assert.Equal(t, uint32(400), best)
}

func TestRoundResultRepository_BestTotal_NoCompleted(t *testing.T) {
	db := TestDB(t)
	defer CleanupTestDB(db)
	repo := NewRoundResultRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, CreateTestAbortedRound("session_1", 1, "false_start")))

	_, err := repo.BestTotal(ctx, "session_1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoundResultRepository_GetSessionStatistics(t *testing.T) {
	db := TestDB(t)
	defer CleanupTestDB(db)
	repo := NewRoundResultRepository(db)
	ctx := context.Background()

	first := CreateTestRoundResult("session_1", 1, 300, 274)
	first.Improved = true
	require.NoError(t, repo.Create(ctx, first))

	require.NoError(t, repo.Create(ctx, CreateTestAbortedRound("session_1", 2, "tactile_timeout")))

	third := CreateTestRoundResult("session_1", 3, 180, 220)
	third.Improved = true
	require.NoError(t, repo.Create(ctx, third))

	stats, err := repo.GetSessionStatistics(ctx, "session_1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRounds)
	assert.Equal(t, int64(2), stats.CompletedRounds)
	assert.Equal(t, int64(1), stats.AbortedRounds)
	assert.Equal(t, int64(2), stats.Improvements)
	assert.Equal(t, uint32(400), stats.BestTotalMs)
	assert.InDelta(t, 487.0, stats.AvgTotalMs, 0.001)
}

func TestRoundResultRepository_WithTx(t *testing.T) {
	db := TestDB(t)
	defer CleanupTestDB(db)
	repo := NewRoundResultRepository(db)
	ctx := context.Background()

	tx := db.Begin()
	txRepo := repo.WithTx(tx).(*roundResultRepo)
	result := CreateTestRoundResult("session_tx", 1, 217, 163)
	require.NoError(t, txRepo.Create(ctx, result))
	tx.Rollback()

	found, err := repo.FindByRound(ctx, "session_tx", 1)
	assert.Error(t, err)
	assert.Nil(t, found)
}
