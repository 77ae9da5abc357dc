package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/reflex-game/internal/config"
	"go.uber.org/zap"
)

// ResultRecorder 回合结果记录接口
type ResultRecorder interface {
	RecordRound(ctx context.Context, result *RoundResult) error
	RecordSession(ctx context.Context, summary *SessionSummary) error
}

// NopRecorder 空记录器（数据库未启用时使用）
type NopRecorder struct{}

// RecordRound 丢弃回合结果
func (NopRecorder) RecordRound(ctx context.Context, result *RoundResult) error { return nil }

// RecordSession 丢弃会话汇总
func (NopRecorder) RecordSession(ctx context.Context, summary *SessionSummary) error { return nil }

// SessionManager 会话管理器
// 顺序执行配置的回合数，回合序号从1严格递增且不复用
type SessionManager struct {
	logger    *zap.Logger
	cfg       *config.GameConfig
	engine    *RoundEngine
	sessionID string
	recorder  ResultRecorder
}

// NewSessionManager 创建会话管理器
// sessionID为空时自动生成
func NewSessionManager(cfg *config.GameConfig, logger *zap.Logger, engine *RoundEngine, sessionID string, recorder ResultRecorder) *SessionManager {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &SessionManager{
		logger:    logger,
		cfg:       cfg,
		engine:    engine,
		sessionID: sessionID,
		recorder:  recorder,
	}
}

// SessionID 获取会话ID
func (m *SessionManager) SessionID() string {
	return m.sessionID
}

// Run 执行完整会话
// 回合中止不影响后续回合，整个会话总是跑完
func (m *SessionManager) Run(ctx context.Context) (*SessionSummary, error) {
	summary := &SessionSummary{
		SessionID:   m.sessionID,
		TotalRounds: m.cfg.Rounds,
		BestTotalMs: NoBestTotal,
		StartedAt:   time.Now(),
	}

	m.logger.Info("游戏会话开始",
		zap.String("session_id", m.sessionID),
		zap.Int("rounds", m.cfg.Rounds))

	for ix := 1; ix <= m.cfg.Rounds; ix++ {
		m.logger.Info("回合开始",
			zap.String("session_id", m.sessionID),
			zap.Int("round", ix))

		result, err := m.engine.RunRound(ctx, uint32(ix))
		if err != nil {
			return nil, err
		}
		result.SessionID = m.sessionID

		if result.Aborted() {
			summary.AbortedRounds++
		} else {
			summary.CompletedRounds++
		}
		if result.Improved {
			summary.Improvements++
		}

		// 记录失败不中断会话
		if err := m.recorder.RecordRound(ctx, result); err != nil {
			m.logger.Error("回合结果记录失败",
				zap.Error(err),
				zap.Uint32("round", result.Round))
		}
	}

	summary.BestTotalMs = m.engine.BestTotal()
	summary.EndedAt = time.Now()

	if summary.BestTotalMs == NoBestTotal {
		m.logger.Info("游戏会话结束，无完整回合",
			zap.String("session_id", m.sessionID),
			zap.Int("aborted", summary.AbortedRounds))
	} else {
		m.logger.Info("游戏会话结束",
			zap.String("session_id", m.sessionID),
			zap.Uint32("best_total_ms", summary.BestTotalMs),
			zap.Int("completed", summary.CompletedRounds),
			zap.Int("aborted", summary.AbortedRounds))
	}

	if err := m.recorder.RecordSession(ctx, summary); err != nil {
		m.logger.Error("会话汇总记录失败", zap.Error(err))
	}

	return summary, nil
}
