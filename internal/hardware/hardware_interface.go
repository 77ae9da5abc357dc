package hardware

import (
	"context"
	"time"
)

// PanelController PI1 面板控制器接口（按键/LED/振动/数码管）
type PanelController interface {
	// ButtonPressed 检测开始按键（真实硬件为EXTI中断）
	ButtonPressed() bool

	// ComputeRandomWait 计算随机等待时长（难度越高等待越短）
	ComputeRandomWait(difficulty uint16) time.Duration

	// StimulusOn 点亮刺激信号：LED绿灯 + 短振动
	StimulusOn()

	// ShowMessage 数码管显示文本（如 "GO"）
	ShowMessage(label string)

	// ShowMillis 数码管显示毫秒数
	ShowMillis(label string, ms uint32)

	// FeedbackBlink 最佳成绩刷新时的LED闪烁+蜂鸣反馈
	FeedbackBlink()
}

// VisualSensor PI2 超声视觉传感器接口
type VisualSensor interface {
	// Detect 即时检测：等待阶段用于捕捉抢跑（误触发）
	Detect(elapsed time.Duration) bool

	// CaptureVisual 在窗口内捕捉视觉反应，返回反应毫秒数
	// 返回0表示窗口内无检测（超时哨兵值，不是合法的0毫秒反应）
	CaptureVisual(window time.Duration) uint32
}

// TactileSensor PI3 压力传感器/电位器接口
type TactileSensor interface {
	// ReadDifficulty 通过电位器ADC读取难度 0..100
	ReadDifficulty() uint16

	// ReadPressureADC 读取压力ADC原始值 0..1023
	ReadPressureADC() uint16

	// CaptureTactile 在窗口内等待压力超过阈值，返回反应毫秒数
	// 返回0表示窗口内无按压（超时哨兵值）
	CaptureTactile(window time.Duration, threshold uint16) uint32
}

// ResultReporter PI3 结果上报接口（UART）
type ResultReporter interface {
	// SendResult 上报单回合结果
	SendResult(ctx context.Context, report *RoundReport) error

	// Close 释放上报通道
	Close() error
}

// RoundAware 可感知回合序号的硬件（模拟实现按回合序号合成数据）
type RoundAware interface {
	SetRound(roundIx uint32)
}
