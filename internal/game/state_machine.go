package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// 状态机事件
const (
	EventPressStart      = "press_start"      // 开始按键按下
	EventStimulus        = "stimulus"         // 随机等待结束，点亮刺激
	EventVisualDetected  = "visual_detected"  // 视觉反应捕捉成功
	EventTactileDetected = "tactile_detected" // 触觉反应捕捉成功
	EventReport          = "report"           // 进入结果上报
	EventFeedback        = "feedback"         // 最佳成绩反馈
	EventAbort           = "abort"            // 抢跑或窗口超时
	EventReset           = "reset"            // 回到待机
)

// PhaseTransition 状态转换定义
type PhaseTransition struct {
	From   RoundPhase
	Event  string
	To     RoundPhase
	Action func(ctx context.Context, sm *StateMachine) error
}

// StateMachine 回合状态机
// 一个回合内的转换单向推进，仅中止路径允许提前收场
type StateMachine struct {
	mu           sync.RWMutex
	currentPhase RoundPhase
	sessionID    string
	transitions  map[string][]PhaseTransition
	logger       *zap.Logger

	// 回合数据
	roundIx    uint32    // 回合序号
	difficulty uint16    // 难度 0..100
	waitMs     uint32    // 随机等待时长
	visualMs   uint32    // 视觉反应时间
	tactileMs  uint32    // 触觉反应时间
	totalMs    uint32    // 总反应时间
	bestMs     uint32    // 最佳总时间（跨回合保留）
	improved   bool      // 本回合是否刷新最佳
	startTime  time.Time // 回合开始时间
	lastUpdate time.Time // 最后更新时间

	// 回调函数
	onPhaseChange func(from, to RoundPhase)

	// 持久化接口
	persister StatePersister
}

// StatePersister 状态持久化接口
type StatePersister interface {
	Save(ctx context.Context, sessionID string, state *StateMachineData) error
	Load(ctx context.Context, sessionID string) (*StateMachineData, error)
	Delete(ctx context.Context, sessionID string) error
}

// StateMachineData 状态机数据（用于持久化）
type StateMachineData struct {
	SessionID    string     `json:"session_id"`
	Round        uint32     `json:"round"`
	CurrentPhase RoundPhase `json:"current_phase"`
	Difficulty   uint16     `json:"difficulty"`
	WaitMs       uint32     `json:"wait_ms"`
	VisualMs     uint32     `json:"visual_ms"`
	TactileMs    uint32     `json:"tactile_ms"`
	TotalMs      uint32     `json:"total_ms"`
	BestMs       uint32     `json:"best_ms"`
	Improved     bool       `json:"improved"`
	StartTime    time.Time  `json:"start_time"`
	LastUpdate   time.Time  `json:"last_update"`
}

// NewStateMachine 创建回合状态机
func NewStateMachine(sessionID string, logger *zap.Logger, persister StatePersister) *StateMachine {
	sm := &StateMachine{
		currentPhase: PhaseIdle,
		sessionID:    sessionID,
		transitions:  make(map[string][]PhaseTransition),
		logger:       logger,
		bestMs:       NoBestTotal,
		lastUpdate:   time.Now(),
		persister:    persister,
	}

	// 初始化状态转换规则
	sm.initTransitions()

	return sm
}

// initTransitions 初始化状态转换规则
func (sm *StateMachine) initTransitions() {
	// 待机 -> 已武装（按键按下，难度已读取）
	sm.addTransition(PhaseTransition{
		From:  PhaseIdle,
		Event: EventPressStart,
		To:    PhaseArmed,
		Action: func(ctx context.Context, sm *StateMachine) error {
			if sm.difficulty > 100 {
				return fmt.Errorf("难度超出范围: %d", sm.difficulty)
			}
			sm.startTime = time.Now()
			sm.logger.Info("回合武装",
				zap.String("session_id", sm.sessionID),
				zap.Uint32("round", sm.roundIx),
				zap.Uint16("difficulty", sm.difficulty))
			return nil
		},
	})

	// 已武装 -> 刺激点亮（随机等待期间无抢跑）
	sm.addTransition(PhaseTransition{
		From:  PhaseArmed,
		Event: EventStimulus,
		To:    PhaseStimOn,
		Action: func(ctx context.Context, sm *StateMachine) error {
			sm.logger.Info("刺激信号点亮",
				zap.String("session_id", sm.sessionID),
				zap.Uint32("wait_ms", sm.waitMs))
			return nil
		},
	})

	// 刺激点亮 -> 视觉完成
	sm.addTransition(PhaseTransition{
		From:  PhaseStimOn,
		Event: EventVisualDetected,
		To:    PhaseVisDone,
		Action: func(ctx context.Context, sm *StateMachine) error {
			// 零时长捕捉是超时哨兵值，不是合法反应
			if sm.visualMs == 0 {
				return errors.New("零时长视觉捕捉视为超时")
			}
			sm.logger.Info("视觉反应完成",
				zap.String("session_id", sm.sessionID),
				zap.Uint32("visual_ms", sm.visualMs))
			return nil
		},
	})

	// 视觉完成 -> 触觉完成
	sm.addTransition(PhaseTransition{
		From:  PhaseVisDone,
		Event: EventTactileDetected,
		To:    PhaseTactDone,
		Action: func(ctx context.Context, sm *StateMachine) error {
			if sm.tactileMs == 0 {
				return errors.New("零时长触觉捕捉视为超时")
			}
			sm.logger.Info("触觉反应完成",
				zap.String("session_id", sm.sessionID),
				zap.Uint32("tactile_ms", sm.tactileMs))
			return nil
		},
	})

	// 触觉完成 -> 结果上报（计算总时间与最佳成绩）
	sm.addTransition(PhaseTransition{
		From:  PhaseTactDone,
		Event: EventReport,
		To:    PhaseReport,
		Action: func(ctx context.Context, sm *StateMachine) error {
			sm.totalMs = sm.visualMs + sm.tactileMs
			sm.improved = sm.totalMs < sm.bestMs
			if sm.improved {
				sm.bestMs = sm.totalMs
			}
			sm.logger.Info("回合结算",
				zap.String("session_id", sm.sessionID),
				zap.Uint32("total_ms", sm.totalMs),
				zap.Uint32("best_ms", sm.bestMs),
				zap.Bool("improved", sm.improved))
			return nil
		},
	})

	// 结果上报 -> 反馈（仅最佳刷新时可达）
	sm.addTransition(PhaseTransition{
		From:  PhaseReport,
		Event: EventFeedback,
		To:    PhaseFeedback,
		Action: func(ctx context.Context, sm *StateMachine) error {
			if !sm.improved {
				return errors.New("最佳成绩未刷新")
			}
			sm.logger.Info("最佳成绩反馈",
				zap.String("session_id", sm.sessionID),
				zap.Uint32("best_ms", sm.bestMs))
			return nil
		},
	})

	// 等待/视觉/触觉阶段 -> 中止
	for _, phase := range []RoundPhase{PhaseArmed, PhaseStimOn, PhaseVisDone} {
		sm.addTransition(PhaseTransition{
			From:  phase,
			Event: EventAbort,
			To:    PhaseAbortRetry,
			Action: func(ctx context.Context, sm *StateMachine) error {
				sm.logger.Warn("回合中止",
					zap.String("session_id", sm.sessionID),
					zap.Uint32("round", sm.roundIx))
				return nil
			},
		})
	}

	// 终态 -> 待机
	for _, phase := range []RoundPhase{PhaseReport, PhaseFeedback, PhaseAbortRetry} {
		sm.addTransition(PhaseTransition{
			From:  phase,
			Event: EventReset,
			To:    PhaseIdle,
			Action: func(ctx context.Context, sm *StateMachine) error {
				duration := time.Since(sm.startTime)
				sm.logger.Info("回合结束",
					zap.String("session_id", sm.sessionID),
					zap.Uint32("round", sm.roundIx),
					zap.Duration("duration", duration))
				return nil
			},
		})
	}
}

// addTransition 添加状态转换
func (sm *StateMachine) addTransition(transition PhaseTransition) {
	key := sm.transitionKey(transition.From, transition.Event)
	sm.transitions[key] = append(sm.transitions[key], transition)
}

// transitionKey 生成转换键
func (sm *StateMachine) transitionKey(phase RoundPhase, event string) string {
	return fmt.Sprintf("%s:%s", phase, event)
}

// Trigger 触发事件
func (sm *StateMachine) Trigger(ctx context.Context, event string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	key := sm.transitionKey(sm.currentPhase, event)
	transitions, exists := sm.transitions[key]
	if !exists || len(transitions) == 0 {
		return fmt.Errorf("无效的状态转换: 状态=%s, 事件=%s", sm.currentPhase, event)
	}

	// 执行第一个匹配的转换
	transition := transitions[0]
	oldPhase := sm.currentPhase

	// 执行转换动作
	if transition.Action != nil {
		if err := transition.Action(ctx, sm); err != nil {
			// 转换失败，保持原状态
			return fmt.Errorf("状态转换失败: %w", err)
		}
	}

	// 更新状态
	sm.currentPhase = transition.To
	sm.lastUpdate = time.Now()

	// 触发状态变更回调
	if sm.onPhaseChange != nil {
		sm.onPhaseChange(oldPhase, sm.currentPhase)
	}

	// 持久化状态
	if sm.persister != nil {
		data := sm.toData()
		if err := sm.persister.Save(ctx, sm.sessionID, data); err != nil {
			sm.logger.Error("持久化状态失败",
				zap.Error(err),
				zap.String("session_id", sm.sessionID))
		}
	}

	sm.logger.Debug("状态转换",
		zap.String("session_id", sm.sessionID),
		zap.String("from", string(oldPhase)),
		zap.String("to", string(sm.currentPhase)),
		zap.String("event", event))

	return nil
}

// Phase 获取当前状态
func (sm *StateMachine) Phase() RoundPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentPhase
}

// CanTrigger 检查是否可以触发事件
func (sm *StateMachine) CanTrigger(event string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	key := sm.transitionKey(sm.currentPhase, event)
	transitions, exists := sm.transitions[key]
	return exists && len(transitions) > 0
}

// SetDifficulty 设置难度
func (sm *StateMachine) SetDifficulty(d uint16) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.difficulty = d
}

// SetWaitMs 设置随机等待时长
func (sm *StateMachine) SetWaitMs(ms uint32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.waitMs = ms
}

// SetVisualMs 设置视觉反应时间
func (sm *StateMachine) SetVisualMs(ms uint32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.visualMs = ms
}

// SetTactileMs 设置触觉反应时间
func (sm *StateMachine) SetTactileMs(ms uint32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tactileMs = ms
}

// TotalMs 获取总反应时间
func (sm *StateMachine) TotalMs() uint32 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.totalMs
}

// BestTotal 获取最佳总时间
func (sm *StateMachine) BestTotal() uint32 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.bestMs
}

// Improved 本回合是否刷新最佳
func (sm *StateMachine) Improved() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.improved
}

// OnPhaseChange 设置状态变更回调
func (sm *StateMachine) OnPhaseChange(fn func(from, to RoundPhase)) {
	sm.onPhaseChange = fn
}

// Snapshot 获取当前回合数据快照
func (sm *StateMachine) Snapshot() *StateMachineData {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.toData()
}

// toData 转换为持久化数据，调用方需持锁
func (sm *StateMachine) toData() *StateMachineData {
	return &StateMachineData{
		SessionID:    sm.sessionID,
		Round:        sm.roundIx,
		CurrentPhase: sm.currentPhase,
		Difficulty:   sm.difficulty,
		WaitMs:       sm.waitMs,
		VisualMs:     sm.visualMs,
		TactileMs:    sm.tactileMs,
		TotalMs:      sm.totalMs,
		BestMs:       sm.bestMs,
		Improved:     sm.improved,
		StartTime:    sm.startTime,
		LastUpdate:   sm.lastUpdate,
	}
}

// LoadFromData 从持久化数据加载
func (sm *StateMachine) LoadFromData(data *StateMachineData) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessionID = data.SessionID
	sm.roundIx = data.Round
	sm.currentPhase = data.CurrentPhase
	sm.difficulty = data.Difficulty
	sm.waitMs = data.WaitMs
	sm.visualMs = data.VisualMs
	sm.tactileMs = data.TactileMs
	sm.totalMs = data.TotalMs
	sm.bestMs = data.BestMs
	sm.improved = data.Improved
	sm.startTime = data.StartTime
	sm.lastUpdate = data.LastUpdate
}

// ResetRound 重置回合数据，最佳成绩跨回合保留
func (sm *StateMachine) ResetRound(roundIx uint32) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.currentPhase = PhaseIdle
	sm.roundIx = roundIx
	sm.difficulty = 0
	sm.waitMs = 0
	sm.visualMs = 0
	sm.tactileMs = 0
	sm.totalMs = 0
	sm.improved = false
	sm.startTime = time.Time{}
	sm.lastUpdate = time.Now()
}
