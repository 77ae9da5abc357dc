package hardware

import (
	"context"

	"github.com/wfunc/reflex-game/internal/logger"
	"go.uber.org/zap"
)

// ConsoleReporter 控制台结果上报器（模拟PI3的UART TX）
type ConsoleReporter struct {
	logger   *zap.Logger
	baudRate int
}

// NewConsoleReporter 创建控制台上报器
func NewConsoleReporter(baudRate int) *ConsoleReporter {
	return &ConsoleReporter{
		logger:   logger.GetModuleLogger("serial"),
		baudRate: baudRate,
	}
}

// SendResult 以日志形式输出回合结果
func (r *ConsoleReporter) SendResult(ctx context.Context, report *RoundReport) error {
	r.logger.Info("UART结果上报(模拟)",
		zap.String("board", BoardTactile),
		zap.Int("baud", r.baudRate),
		zap.Uint32("round", report.Round),
		zap.Uint32("wait_ms", report.WaitMs),
		zap.Uint32("visual_ms", report.VisualMs),
		zap.Uint32("tactile_ms", report.TactileMs),
		zap.Uint32("total_ms", report.TotalMs),
		zap.Uint32("best_ms", report.BestMs))
	return nil
}

// Close 无资源需要释放
func (r *ConsoleReporter) Close() error {
	return nil
}
