package models

import (
	"time"
)

// GameState 游戏状态模型（用于持久化回合状态机）
type GameState struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"uniqueIndex;size:64;not null" json:"session_id"`
	Round        uint32    `gorm:"not null" json:"round"`
	CurrentPhase string    `gorm:"size:20;not null" json:"current_phase"`
	StateData    string    `gorm:"type:text" json:"state_data"` // JSON格式的状态数据
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (GameState) TableName() string {
	return "game_states"
}
