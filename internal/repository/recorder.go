package repository

import (
	"context"
	"errors"

	"github.com/wfunc/reflex-game/internal/game"
	"github.com/wfunc/reflex-game/internal/models"
	"gorm.io/gorm"
)

// GameRecorder 基于数据库的回合结果记录器，实现 game.ResultRecorder
type GameRecorder struct {
	rounds   RoundResultRepository
	sessions GameSessionRepository
}

// NewGameRecorder 创建回合结果记录器
func NewGameRecorder(db *gorm.DB) *GameRecorder {
	return &GameRecorder{
		rounds:   NewRoundResultRepository(db),
		sessions: NewGameSessionRepository(db),
	}
}

// RecordRound 记录单回合结果
func (r *GameRecorder) RecordRound(ctx context.Context, result *game.RoundResult) error {
	record := &models.RoundResult{
		SessionID:  result.SessionID,
		Round:      result.Round,
		Phase:      string(result.Phase),
		Outcome:    string(result.Outcome),
		Difficulty: result.Difficulty,
		WaitMs:     result.WaitMs,
		VisualMs:   result.VisualMs,
		TactileMs:  result.TactileMs,
		TotalMs:    result.TotalMs,
		BestMs:     result.BestMs,
		Improved:   result.Improved,
		PlayedAt:   result.PlayedAt,
	}
	return r.rounds.Create(ctx, record)
}

// RecordSession 记录会话汇总
// 同一会话重复记录时更新已有记录
func (r *GameRecorder) RecordSession(ctx context.Context, summary *game.SessionSummary) error {
	existing, err := r.sessions.FindBySessionID(ctx, summary.SessionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := &models.GameSession{
		SessionID:       summary.SessionID,
		TotalRounds:     summary.TotalRounds,
		CompletedRounds: summary.CompletedRounds,
		AbortedRounds:   summary.AbortedRounds,
		Improvements:    summary.Improvements,
		BestTotalMs:     summary.BestTotalMs,
		StartedAt:       summary.StartedAt,
		EndedAt:         summary.EndedAt,
	}

	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		return r.sessions.Update(ctx, record)
	}
	return r.sessions.Create(ctx, record)
}
