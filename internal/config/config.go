package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Serial   SerialConfig   `mapstructure:"serial"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	System   SystemConfig   `mapstructure:"system"`
}

// GameConfig 反应游戏配置
type GameConfig struct {
	Rounds            int           `mapstructure:"rounds"`             // 每次运行的回合数
	RandomWaitMin     time.Duration `mapstructure:"random_wait_min"`    // 随机等待下限（PI1）
	RandomWaitMax     time.Duration `mapstructure:"random_wait_max"`    // 随机等待上限（PI1）
	VisualWindow      time.Duration `mapstructure:"visual_window"`      // 视觉反应窗口（PI2）
	TactileWindow     time.Duration `mapstructure:"tactile_window"`     // 触觉反应窗口（PI3）
	PressureThreshold uint16        `mapstructure:"pressure_threshold"` // 压力ADC阈值 0..1023（PI3）
	RandomSeed        int64         `mapstructure:"random_seed"`        // 随机种子（0=按时间）
}

// SerialConfig 串口配置（PI3结果上报）
type SerialConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MockMode      bool          `mapstructure:"mock_mode"` // 调试模式（使用模拟上报器）
	Port          string        `mapstructure:"port"`
	BaudRate      int           `mapstructure:"baud_rate"`
	DataBits      int           `mapstructure:"data_bits"`
	StopBits      int           `mapstructure:"stop_bits"`
	Parity        string        `mapstructure:"parity"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	RetryTimes    int           `mapstructure:"retry_times"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// DatabaseConfig 数据库配置（回合结果存储，默认内存库）
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  string            `mapstructure:"output"`
	File    LogFileConfig     `mapstructure:"file"`
	Modules map[string]string `mapstructure:"modules"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// SystemConfig 系统配置
type SystemConfig struct {
	Timezone string `mapstructure:"timezone"`
	MaxProcs int    `mapstructure:"max_procs"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// Init 初始化配置
func Init(configPath string) error {
	var err error
	once.Do(func() {
		v = viper.New()

		// 设置配置文件路径
		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath("./config")
			v.AddConfigPath(".")
		}

		// 设置环境变量前缀
		v.SetEnvPrefix("REFLEX_GAME")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		// 设置默认值
		setDefaults(v)

		// 读取配置文件
		if err = v.ReadInConfig(); err != nil {
			// 如果配置文件不存在，使用默认配置
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return
			}
			err = nil
		}

		// 解析配置到结构体
		cfg = &Config{}
		if err = v.Unmarshal(cfg); err != nil {
			return
		}

		// 校验游戏参数
		err = validateGame(&cfg.Game)
	})

	return err
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 游戏默认配置（对应原型机的编译期常量）
	v.SetDefault("game.rounds", 6)
	v.SetDefault("game.random_wait_min", "1000ms")
	v.SetDefault("game.random_wait_max", "3000ms")
	v.SetDefault("game.visual_window", "1200ms")
	v.SetDefault("game.tactile_window", "1500ms")
	v.SetDefault("game.pressure_threshold", 400)
	v.SetDefault("game.random_seed", 0)

	// 串口默认配置
	v.SetDefault("serial.enabled", false)
	v.SetDefault("serial.mock_mode", true)
	v.SetDefault("serial.port", "/dev/ttyS1")
	v.SetDefault("serial.baud_rate", 115200)
	v.SetDefault("serial.data_bits", 8)
	v.SetDefault("serial.stop_bits", 1)
	v.SetDefault("serial.parity", "none")
	v.SetDefault("serial.read_timeout", "500ms")
	v.SetDefault("serial.write_timeout", "500ms")
	v.SetDefault("serial.retry_times", 3)
	v.SetDefault("serial.retry_interval", "100ms")

	// 数据库默认配置（内存库，进程退出即丢弃）
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ":memory:")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", true)

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "reflex-game.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_age", 30)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.compress", true)

	// 系统默认配置
	v.SetDefault("system.timezone", "Asia/Shanghai")
	v.SetDefault("system.max_procs", 0)
}

// validateGame 校验游戏参数
func validateGame(g *GameConfig) error {
	if g.Rounds <= 0 {
		return fmt.Errorf("无效的回合数: %d", g.Rounds)
	}
	if g.RandomWaitMin <= 0 || g.RandomWaitMax < g.RandomWaitMin {
		return fmt.Errorf("无效的随机等待区间: [%v, %v]", g.RandomWaitMin, g.RandomWaitMax)
	}
	if g.VisualWindow <= 0 || g.TactileWindow <= 0 {
		return fmt.Errorf("无效的反应窗口: visual=%v tactile=%v", g.VisualWindow, g.TactileWindow)
	}
	if g.PressureThreshold > 1023 {
		return fmt.Errorf("压力阈值超出ADC范围: %d", g.PressureThreshold)
	}
	return nil
}

// Get 获取配置实例
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化
func Watch(callback func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		defer mu.Unlock()

		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			fmt.Printf("配置重载失败: %v\n", err)
			return
		}

		if err := validateGame(&newCfg.Game); err != nil {
			fmt.Printf("配置校验失败: %v\n", err)
			return
		}

		cfg = newCfg

		if callback != nil {
			callback(cfg)
		}

		fmt.Println("配置已重新加载")
	})
}

// GetString 获取字符串配置
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt 获取整数配置
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool 获取布尔配置
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetDuration 获取时间间隔配置
func GetDuration(key string) time.Duration {
	return v.GetDuration(key)
}

// IsSet 检查配置项是否存在
func IsSet(key string) bool {
	return v.IsSet(key)
}

// Set 动态设置配置值
func Set(key string, value interface{}) {
	v.Set(key, value)
}
