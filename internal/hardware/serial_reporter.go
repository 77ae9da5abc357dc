package hardware

import (
	"context"
	"sync"
	"time"

	"github.com/tarm/serial"
	"github.com/wfunc/reflex-game/internal/config"
	"github.com/wfunc/reflex-game/internal/errors"
	"github.com/wfunc/reflex-game/internal/logger"
	"go.uber.org/zap"
)

// SerialReporter 串口结果上报器（PI3 UART TX的真实实现）
// 游戏逻辑只依赖ResultReporter接口，真实串口可直接替换模拟上报器
type SerialReporter struct {
	mu        sync.Mutex
	logger    *zap.Logger
	cfg       *config.SerialConfig
	port      *serial.Port
	seq       uint16
	connected bool
}

// NewSerialReporter 创建串口上报器
func NewSerialReporter(cfg *config.SerialConfig) *SerialReporter {
	return &SerialReporter{
		logger: logger.GetModuleLogger("serial"),
		cfg:    cfg,
	}
}

// Connect 打开串口
func (r *SerialReporter) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connected {
		return errors.New(errors.ErrAlreadyExists, "串口已打开")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        r.cfg.Port,
		Baud:        r.cfg.BaudRate,
		ReadTimeout: r.cfg.ReadTimeout,
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrSerialPortOpen, "端口: %s", r.cfg.Port)
	}

	r.port = port
	r.connected = true

	r.logger.Info("串口已打开",
		zap.String("port", r.cfg.Port),
		zap.Int("baud", r.cfg.BaudRate))

	return nil
}

// IsConnected 是否已连接
func (r *SerialReporter) IsConnected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

// SendResult 发送回合结果帧，按配置重试
func (r *SerialReporter) SendResult(ctx context.Context, report *RoundReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.connected {
		return errors.New(errors.ErrDeviceOffline, "串口未打开")
	}

	r.seq++
	frame := NewFrame(CmdRoundReport, r.seq, EncodeRoundReport(report))
	buf := frame.ToBytes()

	var lastErr error
	attempts := r.cfg.RetryTimes
	if attempts <= 0 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), errors.ErrCanceled)
		default:
		}

		if _, err := r.port.Write(buf); err != nil {
			lastErr = err
			logger.LogSerialFrame(frame.Command, len(buf), false)
			time.Sleep(r.cfg.RetryInterval)
			continue
		}

		logger.LogSerialFrame(frame.Command, len(buf), true)
		return nil
	}

	return errors.Wrapf(lastErr, errors.ErrSerialPortWrite, "回合 %d 结果发送失败", report.Round)
}

// Close 关闭串口
func (r *SerialReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.connected {
		return nil
	}

	r.connected = false
	if err := r.port.Close(); err != nil {
		return errors.Wrap(err, errors.ErrSerialPortRead, "关闭串口失败")
	}

	r.logger.Info("串口已关闭", zap.String("port", r.cfg.Port))
	return nil
}
