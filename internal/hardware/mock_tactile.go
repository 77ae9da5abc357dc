package hardware

import (
	"sync"
	"time"

	"github.com/wfunc/reflex-game/internal/logger"
	"go.uber.org/zap"
)

// MockTactileSensor 模拟PI3压力传感器与难度电位器
// 回合序号 %5==2 时构造触觉超时，其余回合合成 140..393ms 的按压时间
type MockTactileSensor struct {
	mu      sync.Mutex
	logger  *zap.Logger
	roundIx uint32
}

// NewMockTactileSensor 创建模拟触觉传感器
func NewMockTactileSensor() *MockTactileSensor {
	return &MockTactileSensor{
		logger: logger.GetModuleLogger("hardware"),
	}
}

// SetRound 设置当前回合序号
func (m *MockTactileSensor) SetRound(roundIx uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundIx = roundIx
}

// ReadDifficulty 模拟电位器读数：在 30..80 之间波动
func (m *MockTactileSensor) ReadDifficulty() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := uint16(30 + (m.roundIx*7)%51)
	m.logger.Info("电位器难度读取",
		zap.String("board", BoardTactile),
		zap.Uint16("difficulty", d))
	return d
}

// ReadPressureADC 模拟压力ADC读数
func (m *MockTactileSensor) ReadPressureADC() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pressureADC()
}

// pressureADC 合成压力值，调用方需持锁
func (m *MockTactileSensor) pressureADC() uint16 {
	var val uint16
	if m.roundIx%5 == 2 {
		val = 200
	} else {
		val = uint16(300 + (m.roundIx*150)%600)
	}
	m.logger.Info("压力ADC读取",
		zap.String("board", BoardTactile),
		zap.Uint16("adc", val))
	return val
}

// CaptureTactile 在窗口内等待压力超过阈值
func (m *MockTactileSensor) CaptureTactile(window time.Duration, threshold uint16) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	windowMs := uint32(window.Milliseconds())

	// 构造的超时回合
	if m.roundIx%5 == 2 {
		m.logger.Warn("触觉反应超时",
			zap.String("board", BoardTactile),
			zap.Uint32("window_ms", windowMs))
		return 0
	}

	t := 140 + 23*((m.roundIx*3)%12)

	// 压力未达阈值时按压会来得更晚
	if m.pressureADC() < threshold {
		t = clampUint32(t+80, 0, windowMs)
	}

	if t > windowMs {
		m.logger.Warn("触觉反应超时",
			zap.String("board", BoardTactile),
			zap.Uint32("computed_ms", t),
			zap.Uint32("window_ms", windowMs))
		return 0
	}

	m.logger.Info("触觉反应已捕捉",
		zap.String("board", BoardTactile),
		zap.Uint32("ms", t))
	return t
}

// clampUint32 区间钳制
func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
