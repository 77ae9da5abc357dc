package hardware

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/reflex-game/internal/logger"
	"go.uber.org/zap"
)

// MockPanel 模拟PI1面板控制器（用于无硬件运行和测试）
type MockPanel struct {
	mu      sync.Mutex
	logger  *zap.Logger
	rng     *rand.Rand
	waitMin time.Duration
	waitMax time.Duration
	roundIx uint32
}

// NewMockPanel 创建模拟面板
// seed为0时按当前时间播种
func NewMockPanel(waitMin, waitMax time.Duration, seed int64) *MockPanel {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockPanel{
		logger:  logger.GetModuleLogger("hardware"),
		rng:     rand.New(rand.NewSource(seed)),
		waitMin: waitMin,
		waitMax: waitMax,
	}
}

// SetRound 设置当前回合序号
func (m *MockPanel) SetRound(roundIx uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundIx = roundIx
}

// ButtonPressed 模拟开始按键（演示模式下每回合开始即按下）
func (m *MockPanel) ButtonPressed() bool {
	m.logger.Info("开始按键按下", zap.String("board", BoardPanel))
	return true
}

// ComputeRandomWait 在配置区间内取随机等待时长
func (m *MockPanel) ComputeRandomWait(difficulty uint16) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	span := m.waitMax - m.waitMin
	wait := m.waitMin
	if span > 0 {
		wait += time.Duration(m.rng.Int63n(int64(span) + 1))
	}

	m.logger.Info("随机等待已选定",
		zap.String("board", BoardPanel),
		zap.Duration("wait", wait),
		zap.Uint16("difficulty", difficulty))

	return wait
}

// StimulusOn 模拟刺激信号：LED绿灯 + 短振动
func (m *MockPanel) StimulusOn() {
	m.logger.Info("STIM_ON: LED=GREEN 短振动",
		zap.String("board", BoardPanel))
}

// ShowMessage 模拟数码管显示文本
func (m *MockPanel) ShowMessage(label string) {
	m.logger.Info("数码管显示",
		zap.String("board", BoardPanel),
		zap.String("label", label))
}

// ShowMillis 模拟数码管显示毫秒数
func (m *MockPanel) ShowMillis(label string, ms uint32) {
	m.logger.Info("数码管显示",
		zap.String("board", BoardPanel),
		zap.String("label", label),
		zap.Uint32("ms", ms))
}

// FeedbackBlink 模拟最佳成绩反馈：LED闪烁 + 蜂鸣
func (m *MockPanel) FeedbackBlink() {
	m.logger.Info("最佳成绩刷新: LED闪烁 + 蜂鸣",
		zap.String("board", BoardPanel))
}
