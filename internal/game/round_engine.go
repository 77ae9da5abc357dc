package game

import (
	"context"
	"time"

	"github.com/wfunc/reflex-game/internal/config"
	"github.com/wfunc/reflex-game/internal/hardware"
	"go.uber.org/zap"
)

// RoundEngine 回合引擎
// 只依赖硬件能力接口，真实驱动可替换模拟实现而无需改动状态机
type RoundEngine struct {
	logger   *zap.Logger
	cfg      *config.GameConfig
	panel    hardware.PanelController
	visual   hardware.VisualSensor
	tactile  hardware.TactileSensor
	reporter hardware.ResultReporter
	sm       *StateMachine
}

// NewRoundEngine 创建回合引擎
func NewRoundEngine(
	cfg *config.GameConfig,
	logger *zap.Logger,
	panel hardware.PanelController,
	visual hardware.VisualSensor,
	tactile hardware.TactileSensor,
	reporter hardware.ResultReporter,
	sm *StateMachine,
) *RoundEngine {
	return &RoundEngine{
		logger:   logger,
		cfg:      cfg,
		panel:    panel,
		visual:   visual,
		tactile:  tactile,
		reporter: reporter,
		sm:       sm,
	}
}

// BestTotal 当前最佳总时间
func (e *RoundEngine) BestTotal() uint32 {
	return e.sm.BestTotal()
}

// RunRound 执行一个回合
// 抢跑与窗口超时属于正常控制流，以RoundResult返回；error仅表示取消或内部错误
func (e *RoundEngine) RunRound(ctx context.Context, roundIx uint32) (*RoundResult, error) {
	// 回合数据重新初始化，最佳成绩保留
	e.sm.ResetRound(roundIx)
	e.setHardwareRound(roundIx)

	// IDLE：等待开始按键
	if !e.panel.ButtonPressed() {
		return e.buildResult(OutcomeNotStarted), nil
	}

	// 读取难度（PI3电位器）
	difficulty := e.tactile.ReadDifficulty()
	e.sm.SetDifficulty(difficulty)
	if err := e.sm.Trigger(ctx, EventPressStart); err != nil {
		return nil, err
	}

	// ARMED：随机等待，期间检测抢跑
	wait := e.panel.ComputeRandomWait(difficulty)
	e.sm.SetWaitMs(uint32(wait.Milliseconds()))

	for t := time.Duration(0); t < wait; t += time.Millisecond {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.visual.Detect(t) {
			e.logger.Warn("等待阶段误触发",
				zap.Uint32("round", roundIx),
				zap.Duration("elapsed", t))
			return e.abort(ctx, OutcomeFalseStart)
		}
	}

	// STIM_ON：点亮刺激信号
	if err := e.sm.Trigger(ctx, EventStimulus); err != nil {
		return nil, err
	}
	e.panel.StimulusOn()
	e.panel.ShowMessage(hardware.LabelGo)

	// 视觉反应捕捉（PI2）
	visualMs := e.visual.CaptureVisual(e.cfg.VisualWindow)
	if visualMs == 0 || visualMs > uint32(e.cfg.VisualWindow.Milliseconds()) {
		return e.abort(ctx, OutcomeVisualTimeout)
	}
	e.sm.SetVisualMs(visualMs)
	if err := e.sm.Trigger(ctx, EventVisualDetected); err != nil {
		return nil, err
	}
	e.panel.ShowMillis(hardware.LabelVisual, visualMs)

	// 触觉反应捕捉（PI3）
	tactileMs := e.tactile.CaptureTactile(e.cfg.TactileWindow, e.cfg.PressureThreshold)
	if tactileMs == 0 || tactileMs > uint32(e.cfg.TactileWindow.Milliseconds()) {
		e.logger.Warn("窗口内无触觉按压", zap.Uint32("round", roundIx))
		return e.abort(ctx, OutcomeTactileTimeout)
	}
	e.sm.SetTactileMs(tactileMs)
	if err := e.sm.Trigger(ctx, EventTactileDetected); err != nil {
		return nil, err
	}
	e.panel.ShowMillis(hardware.LabelTactile, tactileMs)

	// REPORT：结算并上报
	if err := e.sm.Trigger(ctx, EventReport); err != nil {
		return nil, err
	}
	e.panel.ShowMillis(hardware.LabelTotal, e.sm.TotalMs())

	snap := e.sm.Snapshot()
	report := &hardware.RoundReport{
		Round:     snap.Round,
		WaitMs:    snap.WaitMs,
		VisualMs:  snap.VisualMs,
		TactileMs: snap.TactileMs,
		TotalMs:   snap.TotalMs,
		BestMs:    snap.BestMs,
	}
	// 上报失败不影响回合结果
	if err := e.reporter.SendResult(ctx, report); err != nil {
		e.logger.Error("回合结果上报失败",
			zap.Error(err),
			zap.Uint32("round", roundIx))
	}

	// FEEDBACK：仅最佳刷新时进入
	if e.sm.Improved() {
		if err := e.sm.Trigger(ctx, EventFeedback); err != nil {
			return nil, err
		}
		e.panel.FeedbackBlink()
	}

	result := e.buildResult(OutcomeCompleted)
	if err := e.sm.Trigger(ctx, EventReset); err != nil {
		return nil, err
	}
	return result, nil
}

// abort 中止当前回合并回到待机
func (e *RoundEngine) abort(ctx context.Context, outcome RoundOutcome) (*RoundResult, error) {
	if err := e.sm.Trigger(ctx, EventAbort); err != nil {
		return nil, err
	}
	result := e.buildResult(outcome)
	if err := e.sm.Trigger(ctx, EventReset); err != nil {
		return nil, err
	}
	return result, nil
}

// buildResult 从状态机快照构造回合结果
func (e *RoundEngine) buildResult(outcome RoundOutcome) *RoundResult {
	snap := e.sm.Snapshot()
	return &RoundResult{
		SessionID:  snap.SessionID,
		Round:      snap.Round,
		Phase:      snap.CurrentPhase,
		Outcome:    outcome,
		Difficulty: snap.Difficulty,
		WaitMs:     snap.WaitMs,
		VisualMs:   snap.VisualMs,
		TactileMs:  snap.TactileMs,
		TotalMs:    snap.TotalMs,
		BestMs:     snap.BestMs,
		Improved:   snap.Improved,
		PlayedAt:   time.Now(),
	}
}

// setHardwareRound 将回合序号下发给可感知回合的硬件
func (e *RoundEngine) setHardwareRound(roundIx uint32) {
	for _, dev := range []interface{}{e.panel, e.visual, e.tactile} {
		if ra, ok := dev.(hardware.RoundAware); ok {
			ra.SetRound(roundIx)
		}
	}
}
