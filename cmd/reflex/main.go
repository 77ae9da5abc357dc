package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/reflex-game/internal/config"
	"github.com/wfunc/reflex-game/internal/database"
	"github.com/wfunc/reflex-game/internal/errors"
	"github.com/wfunc/reflex-game/internal/game"
	"github.com/wfunc/reflex-game/internal/hardware"
	"github.com/wfunc/reflex-game/internal/logger"
	"github.com/wfunc/reflex-game/internal/repository"
	"go.uber.org/zap"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// App 反应游戏控制器实例
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	reporter hardware.ResultReporter
	manager  *game.SessionManager

	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	// 命令行参数
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		sessionID   = flag.String("session", "", "会话ID（为空时自动生成）")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	// 加载配置
	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	// 设置系统参数
	setupSystem(&cfg.System)

	app := NewApp(cfg)

	// 初始化各个组件
	if err := app.Init(*sessionID); err != nil {
		logger.Fatal("初始化失败", zap.Error(err))
	}

	// 监听退出信号，取消会话上下文
	go app.watchSignals()

	// 执行完整会话
	summary, err := app.Run()
	if err != nil {
		app.Close()
		logger.Fatal("会话执行失败", zap.Error(err))
	}

	app.printSummary(summary)
	app.Close()
}

// NewApp 创建控制器实例
func NewApp(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		cfg:    cfg,
		logger: logger.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Init 初始化数据库、硬件与游戏组件
func (a *App) Init(sessionID string) error {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	a.logger.Info("正在启动反应游戏控制器...",
		zap.String("version", Version),
		zap.Int("rounds", a.cfg.Game.Rounds))

	if err := a.initDatabase(); err != nil {
		return err
	}

	// 组装硬件（三块板的能力接口，当前为模拟实现）
	panel := hardware.NewMockPanel(
		a.cfg.Game.RandomWaitMin,
		a.cfg.Game.RandomWaitMax,
		a.cfg.Game.RandomSeed,
	)
	visual := hardware.NewMockVisualSensor()
	tactile := hardware.NewMockTactileSensor()

	reporter, err := a.buildReporter()
	if err != nil {
		return err
	}
	a.reporter = reporter

	// 状态机持久化与结果记录
	var (
		persister game.StatePersister = game.NewMemoryStatePersister()
		recorder  game.ResultRecorder = game.NopRecorder{}
	)
	if database.IsConnected() {
		persister = game.NewDatabaseStatePersister(database.GetDB())
		recorder = repository.NewGameRecorder(database.GetDB())
	}

	sm := game.NewStateMachine(sessionID, a.logger, persister)
	engine := game.NewRoundEngine(&a.cfg.Game, a.logger, panel, visual, tactile, reporter, sm)
	a.manager = game.NewSessionManager(&a.cfg.Game, a.logger, engine, sessionID, recorder)

	// 监听配置变化
	config.Watch(func(newCfg *config.Config) {
		a.logger.Info("配置已更新")
		a.cfg = newCfg
	})

	a.logger.Info("所有组件初始化完成")
	return nil
}

// initDatabase 初始化数据库
func (a *App) initDatabase() error {
	if err := database.Init(&a.cfg.Database); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseConnect, "初始化数据库连接失败")
	}

	if a.cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseConnect, "数据库迁移失败")
		}
	}

	return nil
}

// buildReporter 根据串口配置选择上报器
func (a *App) buildReporter() (hardware.ResultReporter, error) {
	if !a.cfg.Serial.Enabled || a.cfg.Serial.MockMode {
		return hardware.NewConsoleReporter(a.cfg.Serial.BaudRate), nil
	}

	reporter := hardware.NewSerialReporter(&a.cfg.Serial)
	if err := reporter.Connect(); err != nil {
		return nil, errors.Wrap(err, errors.ErrSerialPortOpen, "打开串口失败")
	}
	return reporter, nil
}

// Run 执行完整会话
func (a *App) Run() (*game.SessionSummary, error) {
	return a.manager.Run(a.ctx)
}

// watchSignals 监听系统信号
func (a *App) watchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	sig := <-sigCh
	a.logger.Info("收到退出信号", zap.String("signal", sig.String()))
	a.cancel()
}

// Close 关闭组件并同步日志
func (a *App) Close() {
	a.cancel()

	if a.reporter != nil {
		if err := a.reporter.Close(); err != nil {
			a.logger.Error("关闭上报器失败", zap.Error(err))
		}
	}

	if err := database.Close(); err != nil {
		a.logger.Error("关闭数据库失败", zap.Error(err))
	}

	logger.Cleanup()
}

// printSummary 打印会话汇总
func (a *App) printSummary(summary *game.SessionSummary) {
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("会话: %s\n", summary.SessionID)
	fmt.Printf("回合: %d (完整 %d / 中止 %d)\n",
		summary.TotalRounds, summary.CompletedRounds, summary.AbortedRounds)
	if summary.BestTotalMs == game.NoBestTotal {
		fmt.Println("最佳总时间: 无完整回合")
	} else {
		fmt.Printf("最佳总时间: %dms (刷新 %d 次)\n",
			summary.BestTotalMs, summary.Improvements)
	}
	fmt.Println("═══════════════════════════════════════")
}

// setupSystem 设置系统参数
func setupSystem(cfg *config.SystemConfig) {
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			time.Local = loc
		}
	}

	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("反应游戏控制器\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("反应游戏控制器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  reflex [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  REFLEX_GAME_GAME_ROUNDS        回合数")
	fmt.Println("  REFLEX_GAME_SERIAL_ENABLED     启用串口上报")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  reflex -config=/path/to/config.yaml")
	fmt.Println("  reflex -version")
}
