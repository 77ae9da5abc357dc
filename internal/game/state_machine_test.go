package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStateMachine() *StateMachine {
	return NewStateMachine("test_session", zap.NewNop(), NewMemoryStatePersister())
}

// 走完一个完整回合的正常路径
func TestStateMachine_CompleteRound(t *testing.T) {
	sm := newTestStateMachine()
	ctx := context.Background()

	assert.Equal(t, PhaseIdle, sm.Phase())
	assert.Equal(t, NoBestTotal, sm.BestTotal())

	sm.ResetRound(1)
	sm.SetDifficulty(37)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))
	assert.Equal(t, PhaseArmed, sm.Phase())

	sm.SetWaitMs(1742)
	require.NoError(t, sm.Trigger(ctx, EventStimulus))
	assert.Equal(t, PhaseStimOn, sm.Phase())

	sm.SetVisualMs(217)
	require.NoError(t, sm.Trigger(ctx, EventVisualDetected))
	assert.Equal(t, PhaseVisDone, sm.Phase())

	sm.SetTactileMs(163)
	require.NoError(t, sm.Trigger(ctx, EventTactileDetected))
	assert.Equal(t, PhaseTactDone, sm.Phase())

	require.NoError(t, sm.Trigger(ctx, EventReport))
	assert.Equal(t, PhaseReport, sm.Phase())
	assert.Equal(t, uint32(380), sm.TotalMs())
	assert.Equal(t, uint32(380), sm.BestTotal())
	assert.True(t, sm.Improved())

	require.NoError(t, sm.Trigger(ctx, EventFeedback))
	assert.Equal(t, PhaseFeedback, sm.Phase())

	require.NoError(t, sm.Trigger(ctx, EventReset))
	assert.Equal(t, PhaseIdle, sm.Phase())
}

// 无效转换不改变状态
func TestStateMachine_InvalidTransition(t *testing.T) {
	sm := newTestStateMachine()
	ctx := context.Background()

	err := sm.Trigger(ctx, EventReport)
	assert.Error(t, err)
	assert.Equal(t, PhaseIdle, sm.Phase())

	err = sm.Trigger(ctx, EventFeedback)
	assert.Error(t, err)
	assert.Equal(t, PhaseIdle, sm.Phase())

	// 待机状态不可中止
	assert.False(t, sm.CanTrigger(EventAbort))
	assert.True(t, sm.CanTrigger(EventPressStart))
}

// 难度超出范围时武装失败
func TestStateMachine_InvalidDifficulty(t *testing.T) {
	sm := newTestStateMachine()
	ctx := context.Background()

	sm.SetDifficulty(120)
	err := sm.Trigger(ctx, EventPressStart)
	assert.Error(t, err)
	assert.Equal(t, PhaseIdle, sm.Phase())
}

// 零时长捕捉是超时哨兵值，不能作为合法反应推进状态
func TestStateMachine_ZeroCaptureRejected(t *testing.T) {
	sm := newTestStateMachine()
	ctx := context.Background()

	sm.SetDifficulty(50)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))
	require.NoError(t, sm.Trigger(ctx, EventStimulus))

	err := sm.Trigger(ctx, EventVisualDetected)
	assert.Error(t, err)
	assert.Equal(t, PhaseStimOn, sm.Phase())

	sm.SetVisualMs(217)
	require.NoError(t, sm.Trigger(ctx, EventVisualDetected))

	err = sm.Trigger(ctx, EventTactileDetected)
	assert.Error(t, err)
	assert.Equal(t, PhaseVisDone, sm.Phase())
}

// 最佳未刷新时反馈不可达
func TestStateMachine_FeedbackRequiresImprovement(t *testing.T) {
	sm := newTestStateMachine()
	ctx := context.Background()

	runRound := func(roundIx, visualMs, tactileMs uint32) {
		sm.ResetRound(roundIx)
		sm.SetDifficulty(50)
		require.NoError(t, sm.Trigger(ctx, EventPressStart))
		require.NoError(t, sm.Trigger(ctx, EventStimulus))
		sm.SetVisualMs(visualMs)
		require.NoError(t, sm.Trigger(ctx, EventVisualDetected))
		sm.SetTactileMs(tactileMs)
		require.NoError(t, sm.Trigger(ctx, EventTactileDetected))
		require.NoError(t, sm.Trigger(ctx, EventReport))
	}

	// 第一回合：刷新最佳
	runRound(1, 217, 163)
	assert.True(t, sm.Improved())
	require.NoError(t, sm.Trigger(ctx, EventFeedback))
	require.NoError(t, sm.Trigger(ctx, EventReset))

	// 第二回合：成绩更差，反馈不可达
	runRound(2, 300, 280)
	assert.False(t, sm.Improved())
	assert.Equal(t, uint32(380), sm.BestTotal())
	err := sm.Trigger(ctx, EventFeedback)
	assert.Error(t, err)
	assert.Equal(t, PhaseReport, sm.Phase())
	require.NoError(t, sm.Trigger(ctx, EventReset))

	// 第三回合：持平也不算刷新
	runRound(3, 217, 163)
	assert.False(t, sm.Improved())
	assert.Equal(t, uint32(380), sm.BestTotal())
}

// 中止路径：武装/刺激/视觉完成阶段均可中止
func TestStateMachine_AbortPaths(t *testing.T) {
	ctx := context.Background()

	// 武装阶段中止（抢跑）
	sm := newTestStateMachine()
	sm.SetDifficulty(50)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))
	require.NoError(t, sm.Trigger(ctx, EventAbort))
	assert.Equal(t, PhaseAbortRetry, sm.Phase())
	require.NoError(t, sm.Trigger(ctx, EventReset))
	assert.Equal(t, PhaseIdle, sm.Phase())

	// 刺激阶段中止（视觉窗口超时）
	sm = newTestStateMachine()
	sm.SetDifficulty(50)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))
	require.NoError(t, sm.Trigger(ctx, EventStimulus))
	require.NoError(t, sm.Trigger(ctx, EventAbort))
	assert.Equal(t, PhaseAbortRetry, sm.Phase())

	// 视觉完成阶段中止（触觉窗口超时）
	sm = newTestStateMachine()
	sm.SetDifficulty(50)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))
	require.NoError(t, sm.Trigger(ctx, EventStimulus))
	sm.SetVisualMs(217)
	require.NoError(t, sm.Trigger(ctx, EventVisualDetected))
	require.NoError(t, sm.Trigger(ctx, EventAbort))
	assert.Equal(t, PhaseAbortRetry, sm.Phase())
}

// 回合重置保留最佳成绩
func TestStateMachine_ResetRoundKeepsBest(t *testing.T) {
	sm := newTestStateMachine()
	ctx := context.Background()

	sm.ResetRound(1)
	sm.SetDifficulty(50)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))
	require.NoError(t, sm.Trigger(ctx, EventStimulus))
	sm.SetVisualMs(217)
	require.NoError(t, sm.Trigger(ctx, EventVisualDetected))
	sm.SetTactileMs(163)
	require.NoError(t, sm.Trigger(ctx, EventTactileDetected))
	require.NoError(t, sm.Trigger(ctx, EventReport))

	sm.ResetRound(2)
	assert.Equal(t, PhaseIdle, sm.Phase())
	assert.Equal(t, uint32(0), sm.TotalMs())
	assert.False(t, sm.Improved())
	assert.Equal(t, uint32(380), sm.BestTotal())

	snap := sm.Snapshot()
	assert.Equal(t, uint32(2), snap.Round)
	assert.Equal(t, uint32(380), snap.BestMs)
	assert.Zero(t, snap.VisualMs)
	assert.Zero(t, snap.TactileMs)
}

// 快照与恢复
func TestStateMachine_SnapshotAndLoad(t *testing.T) {
	sm := newTestStateMachine()
	ctx := context.Background()

	sm.ResetRound(3)
	sm.SetDifficulty(44)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))
	sm.SetWaitMs(2100)

	snap := sm.Snapshot()
	assert.Equal(t, "test_session", snap.SessionID)
	assert.Equal(t, PhaseArmed, snap.CurrentPhase)

	restored := NewStateMachine("other", zap.NewNop(), nil)
	restored.LoadFromData(snap)
	assert.Equal(t, PhaseArmed, restored.Phase())
	assert.Equal(t, NoBestTotal, restored.BestTotal())

	restoredSnap := restored.Snapshot()
	assert.Equal(t, "test_session", restoredSnap.SessionID)
	assert.Equal(t, uint32(2100), restoredSnap.WaitMs)
	assert.Equal(t, uint16(44), restoredSnap.Difficulty)
}
