package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	require.NoError(t, Init(""))

	cfg := Get()
	require.NotNil(t, cfg)

	// 游戏默认参数对应原型机常量
	assert.Equal(t, 6, cfg.Game.Rounds)
	assert.Equal(t, time.Second, cfg.Game.RandomWaitMin)
	assert.Equal(t, 3*time.Second, cfg.Game.RandomWaitMax)
	assert.Equal(t, 1200*time.Millisecond, cfg.Game.VisualWindow)
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.TactileWindow)
	assert.Equal(t, uint16(400), cfg.Game.PressureThreshold)

	// 串口默认禁用，波特率115200
	assert.False(t, cfg.Serial.Enabled)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)

	// 默认内存库，不跨运行持久化
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestValidateGame(t *testing.T) {
	valid := GameConfig{
		Rounds:            6,
		RandomWaitMin:     time.Second,
		RandomWaitMax:     3 * time.Second,
		VisualWindow:      1200 * time.Millisecond,
		TactileWindow:     1500 * time.Millisecond,
		PressureThreshold: 400,
	}
	assert.NoError(t, validateGame(&valid))

	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"回合数为零", func(g *GameConfig) { g.Rounds = 0 }},
		{"等待区间倒置", func(g *GameConfig) { g.RandomWaitMax = 500 * time.Millisecond }},
		{"等待下限为零", func(g *GameConfig) { g.RandomWaitMin = 0 }},
		{"视觉窗口为零", func(g *GameConfig) { g.VisualWindow = 0 }},
		{"触觉窗口为零", func(g *GameConfig) { g.TactileWindow = 0 }},
		{"压力阈值超出ADC范围", func(g *GameConfig) { g.PressureThreshold = 1024 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			assert.Error(t, validateGame(&g))
		})
	}
}
