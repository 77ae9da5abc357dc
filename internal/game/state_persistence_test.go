package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStatePersister(t *testing.T) {
	p := NewMemoryStatePersister()
	ctx := context.Background()

	state := &StateMachineData{
		SessionID:    "session_1",
		Round:        2,
		CurrentPhase: PhaseArmed,
		Difficulty:   44,
		WaitMs:       2100,
		BestMs:       NoBestTotal,
		LastUpdate:   time.Now(),
	}

	require.NoError(t, p.Save(ctx, "session_1", state))

	loaded, err := p.Load(ctx, "session_1")
	require.NoError(t, err)
	assert.Equal(t, state.Round, loaded.Round)
	assert.Equal(t, PhaseArmed, loaded.CurrentPhase)
	assert.Equal(t, NoBestTotal, loaded.BestMs)

	// 保存的是拷贝，调用方后续修改不影响已持久化的数据
	state.Round = 99
	loaded, err = p.Load(ctx, "session_1")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), loaded.Round)

	// 加载的是拷贝
	loaded.CurrentPhase = PhaseReport
	again, err := p.Load(ctx, "session_1")
	require.NoError(t, err)
	assert.Equal(t, PhaseArmed, again.CurrentPhase)

	require.NoError(t, p.Delete(ctx, "session_1"))
	_, err = p.Load(ctx, "session_1")
	assert.Error(t, err)
}

func TestMemoryStatePersister_LoadMissing(t *testing.T) {
	p := NewMemoryStatePersister()
	_, err := p.Load(context.Background(), "missing")
	assert.Error(t, err)
}

// 状态机每次转换都会写入持久化器
func TestStateMachine_PersistsOnTransition(t *testing.T) {
	p := NewMemoryStatePersister()
	sm := NewStateMachine("session_1", zap.NewNop(), p)
	ctx := context.Background()

	sm.ResetRound(1)
	sm.SetDifficulty(37)
	require.NoError(t, sm.Trigger(ctx, EventPressStart))

	saved, err := p.Load(ctx, "session_1")
	require.NoError(t, err)
	assert.Equal(t, PhaseArmed, saved.CurrentPhase)
	assert.Equal(t, uint16(37), saved.Difficulty)

	require.NoError(t, sm.Trigger(ctx, EventStimulus))
	saved, err = p.Load(ctx, "session_1")
	require.NoError(t, err)
	assert.Equal(t, PhaseStimOn, saved.CurrentPhase)
}
