package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wfunc/reflex-game/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 创建测试数据库
// 使用内存数据库，不依赖文件系统，在所有环境中都能工作
func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.GameState{},
		&models.GameSession{},
		&models.RoundResult{},
	)
	require.NoError(t, err)

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// CreateTestRoundResult 创建测试回合结果
func CreateTestRoundResult(sessionID string, round uint32, visualMs, tactileMs uint32) *models.RoundResult {
	return &models.RoundResult{
		SessionID:  sessionID,
		Round:      round,
		Phase:      "idle",
		Outcome:    "completed",
		Difficulty: 50,
		WaitMs:     1500,
		VisualMs:   visualMs,
		TactileMs:  tactileMs,
		TotalMs:    visualMs + tactileMs,
		BestMs:     visualMs + tactileMs,
		Improved:   false,
		PlayedAt:   time.Now(),
	}
}

// CreateTestAbortedRound 创建测试中止回合
func CreateTestAbortedRound(sessionID string, round uint32, outcome string) *models.RoundResult {
	return &models.RoundResult{
		SessionID: sessionID,
		Round:     round,
		Phase:     "idle",
		Outcome:   outcome,
		WaitMs:    1500,
		PlayedAt:  time.Now(),
	}
}
