package models

import (
	"time"
)

// GameSession 游戏会话模型（一次运行的回合序列）
type GameSession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SessionID       string    `gorm:"uniqueIndex;size:64;not null" json:"session_id"`
	TotalRounds     int       `json:"total_rounds"`
	CompletedRounds int       `json:"completed_rounds"`
	AbortedRounds   int       `json:"aborted_rounds"`
	Improvements    int       `json:"improvements"`
	BestTotalMs     uint32    `json:"best_total_ms"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 指定表名
func (GameSession) TableName() string {
	return "game_sessions"
}
