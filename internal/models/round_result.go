package models

import (
	"time"
)

// RoundResult 回合结果模型
type RoundResult struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"index;size:64;not null" json:"session_id"`
	Round      uint32    `gorm:"not null" json:"round"`
	Phase      string    `gorm:"size:20;not null" json:"phase"`     // 回合终态
	Outcome    string    `gorm:"size:20;index;not null" json:"outcome"` // completed / false_start / visual_timeout / tactile_timeout
	Difficulty uint16    `json:"difficulty"`
	WaitMs     uint32    `json:"wait_ms"`
	VisualMs   uint32    `json:"visual_ms"`
	TactileMs  uint32    `json:"tactile_ms"`
	TotalMs    uint32    `json:"total_ms"`
	BestMs     uint32    `json:"best_ms"`
	Improved   bool      `json:"improved"`
	PlayedAt   time.Time `gorm:"index" json:"played_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (RoundResult) TableName() string {
	return "round_results"
}
