package hardware

import (
	"sync"
	"time"

	"github.com/wfunc/reflex-game/internal/logger"
	"go.uber.org/zap"
)

// MockVisualSensor 模拟PI2超声视觉传感器
// 按回合序号合成 180..513ms 的反应时间，偶尔超窗触发中止路径
type MockVisualSensor struct {
	mu      sync.Mutex
	logger  *zap.Logger
	roundIx uint32
}

// NewMockVisualSensor 创建模拟视觉传感器
func NewMockVisualSensor() *MockVisualSensor {
	return &MockVisualSensor{
		logger: logger.GetModuleLogger("hardware"),
	}
}

// SetRound 设置当前回合序号
func (m *MockVisualSensor) SetRound(roundIx uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundIx = roundIx
}

// Detect 即时检测（等待阶段抢跑检查）
// 模拟传感器在等待阶段不产生误触发
func (m *MockVisualSensor) Detect(elapsed time.Duration) bool {
	return false
}

// CaptureVisual 在窗口内捕捉视觉反应
func (m *MockVisualSensor) CaptureVisual(window time.Duration) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	windowMs := uint32(window.Milliseconds())
	base := 180 + 37*((m.roundIx*5)%10)
	if base > windowMs {
		m.logger.Warn("视觉反应超时",
			zap.String("board", BoardVisual),
			zap.Uint32("window_ms", windowMs))
		return 0
	}

	m.logger.Info("视觉反应已捕捉",
		zap.String("board", BoardVisual),
		zap.Uint32("ms", base))
	return base
}
