package game

import "time"

// RoundPhase 回合状态枚举
type RoundPhase string

const (
	PhaseIdle       RoundPhase = "idle"        // 待机
	PhaseArmed      RoundPhase = "armed"       // 已武装（随机等待中）
	PhaseStimOn     RoundPhase = "stim_on"     // 刺激信号已点亮
	PhaseVisDone    RoundPhase = "vis_done"    // 视觉反应已捕捉
	PhaseTactDone   RoundPhase = "tact_done"   // 触觉反应已捕捉
	PhaseReport     RoundPhase = "report"      // 结果上报
	PhaseFeedback   RoundPhase = "feedback"    // 最佳成绩反馈
	PhaseAbortRetry RoundPhase = "abort_retry" // 中止，等待下一回合
)

// RoundOutcome 回合结局
type RoundOutcome string

const (
	OutcomeCompleted      RoundOutcome = "completed"       // 完整回合
	OutcomeNotStarted     RoundOutcome = "not_started"     // 按键未按下
	OutcomeFalseStart     RoundOutcome = "false_start"     // 抢跑（等待阶段误触发）
	OutcomeVisualTimeout  RoundOutcome = "visual_timeout"  // 视觉窗口超时
	OutcomeTactileTimeout RoundOutcome = "tactile_timeout" // 触觉窗口超时
)

// NoBestTotal 尚无最佳成绩时的哨兵值
const NoBestTotal uint32 = 0xFFFFFFFF

// RoundResult 单回合结果
type RoundResult struct {
	SessionID  string       `json:"session_id"`
	Round      uint32       `json:"round"`
	Phase      RoundPhase   `json:"phase"`
	Outcome    RoundOutcome `json:"outcome"`
	Difficulty uint16       `json:"difficulty"`
	WaitMs     uint32       `json:"wait_ms"`
	VisualMs   uint32       `json:"visual_ms"`
	TactileMs  uint32       `json:"tactile_ms"`
	TotalMs    uint32       `json:"total_ms"`
	BestMs     uint32       `json:"best_ms"`
	Improved   bool         `json:"improved"`
	PlayedAt   time.Time    `json:"played_at"`
}

// Aborted 回合是否以中止收场
func (r *RoundResult) Aborted() bool {
	return r.Outcome != OutcomeCompleted
}

// SessionSummary 会话汇总
type SessionSummary struct {
	SessionID       string    `json:"session_id"`
	TotalRounds     int       `json:"total_rounds"`
	CompletedRounds int       `json:"completed_rounds"`
	AbortedRounds   int       `json:"aborted_rounds"`
	Improvements    int       `json:"improvements"`
	BestTotalMs     uint32    `json:"best_total_ms"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
}
