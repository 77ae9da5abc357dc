package database

import (
	"fmt"

	"github.com/wfunc/reflex-game/internal/logger"
	"github.com/wfunc/reflex-game/internal/models"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	err := DB.AutoMigrate(
		// 状态机持久化
		&models.GameState{},

		// 回合与会话记录
		&models.GameSession{},
		&models.RoundResult{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	logger.Info("数据库迁移完成")
	return nil
}
