package hardware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockPanel_ComputeRandomWait(t *testing.T) {
	waitMin := 1000 * time.Millisecond
	waitMax := 3000 * time.Millisecond
	panel := NewMockPanel(waitMin, waitMax, 42)

	for i := 0; i < 100; i++ {
		wait := panel.ComputeRandomWait(50)
		assert.GreaterOrEqual(t, wait, waitMin)
		assert.LessOrEqual(t, wait, waitMax)
	}
}

func TestMockPanel_ComputeRandomWait_FixedInterval(t *testing.T) {
	// 区间退化为单点时返回下限
	panel := NewMockPanel(time.Second, time.Second, 42)
	assert.Equal(t, time.Second, panel.ComputeRandomWait(50))
}

func TestMockPanel_Deterministic(t *testing.T) {
	// 相同种子产生相同序列
	a := NewMockPanel(time.Second, 3*time.Second, 7)
	b := NewMockPanel(time.Second, 3*time.Second, 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.ComputeRandomWait(50), b.ComputeRandomWait(50))
	}
}

func TestMockVisualSensor_Capture(t *testing.T) {
	sensor := NewMockVisualSensor()
	window := 1200 * time.Millisecond

	tests := []struct {
		round uint32
		want  uint32
	}{
		{1, 365}, // 180 + 37*5
		{2, 180}, // 180 + 37*0
		{3, 365},
		{4, 180},
		{9, 180 + 37*5},
	}
	for _, tt := range tests {
		sensor.SetRound(tt.round)
		assert.Equal(t, tt.want, sensor.CaptureVisual(window), "round %d", tt.round)
	}
}

func TestMockVisualSensor_Timeout(t *testing.T) {
	sensor := NewMockVisualSensor()
	sensor.SetRound(1) // 365ms

	// 窗口小于合成反应时间时返回超时哨兵值
	assert.Equal(t, uint32(0), sensor.CaptureVisual(300*time.Millisecond))
}

func TestMockVisualSensor_NoFalseStart(t *testing.T) {
	sensor := NewMockVisualSensor()
	for elapsed := time.Duration(0); elapsed < time.Second; elapsed += 100 * time.Millisecond {
		assert.False(t, sensor.Detect(elapsed))
	}
}

func TestMockTactileSensor_ReadDifficulty(t *testing.T) {
	sensor := NewMockTactileSensor()

	tests := []struct {
		round uint32
		want  uint16
	}{
		{1, 37},  // 30 + 7
		{2, 44},  // 30 + 14
		{10, 49}, // 30 + 70%51
	}
	for _, tt := range tests {
		sensor.SetRound(tt.round)
		d := sensor.ReadDifficulty()
		assert.Equal(t, tt.want, d, "round %d", tt.round)
		assert.LessOrEqual(t, d, uint16(100))
	}
}

func TestMockTactileSensor_Capture(t *testing.T) {
	sensor := NewMockTactileSensor()
	window := 1500 * time.Millisecond
	threshold := uint16(400)

	tests := []struct {
		round uint32
		want  uint32
	}{
		{1, 209}, // 140 + 23*3, ADC 450 >= 阈值
		{3, 347}, // 140 + 23*9, ADC 750
		{4, 220}, // 140 + 0, ADC 300 < 阈值 -> +80
		{6, 278}, // 140 + 23*6, ADC 600
	}
	for _, tt := range tests {
		sensor.SetRound(tt.round)
		assert.Equal(t, tt.want, sensor.CaptureTactile(window, threshold), "round %d", tt.round)
	}
}

func TestMockTactileSensor_TimeoutRound(t *testing.T) {
	sensor := NewMockTactileSensor()
	window := 1500 * time.Millisecond

	// 序号 %5==2 的回合构造超时
	for _, round := range []uint32{2, 7, 12} {
		sensor.SetRound(round)
		assert.Equal(t, uint32(0), sensor.CaptureTactile(window, 400), "round %d", round)
	}
}

func TestMockTactileSensor_LowPressureClamp(t *testing.T) {
	sensor := NewMockTactileSensor()
	sensor.SetRound(4) // t=140, ADC 300 低于阈值

	// 延迟后的按压被钳制在窗口内
	got := sensor.CaptureTactile(200*time.Millisecond, 400)
	assert.Equal(t, uint32(200), got)
}

func TestMockTactileSensor_PressureADC(t *testing.T) {
	sensor := NewMockTactileSensor()

	sensor.SetRound(2)
	assert.Equal(t, uint16(200), sensor.ReadPressureADC())

	sensor.SetRound(1)
	assert.Equal(t, uint16(450), sensor.ReadPressureADC())

	sensor.SetRound(4)
	assert.Equal(t, uint16(300), sensor.ReadPressureADC())
}
