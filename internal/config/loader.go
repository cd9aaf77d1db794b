package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	serrors "pdfSentinel/internal/errors"
)

// GlobalConfig 全局配置单例
// 在调用 LoadConfig 成功后，该变量会被填充，后续模块直接读取即可
var (
	GlobalConfig *AppConfig
	loadOnce     sync.Once
)

// LoadConfig 加载配置到全局单例
// configPath: 配置文件路径 (e.g., "/etc/pdfSentinel/config.yaml")
// 如果传入空字符串，会在默认路径搜索，找不到时使用默认值
func LoadConfig(configPath string) error {
	var err error

	loadOnce.Do(func() {
		var cfg *AppConfig
		cfg, err = Load(configPath)
		if err != nil {
			return
		}
		GlobalConfig = cfg
	})

	return err
}

// Load 读取一份独立的配置 (不影响全局单例)
func Load(configPath string) (*AppConfig, error) {
	v := viper.New()

	// 1. 设置默认值
	setDefaults(v)

	// 2. 配置读取规则
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/pdfSentinel/") // 生产环境标准路径
		v.AddConfigPath(".")                 // 当前目录 (开发调试用)
	}

	// 3. 环境变量覆盖
	// SENTINEL_REPUTATION_API_KEY -> reputation.api_key
	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// 显式指定的文件必须存在；搜索模式下找不到则使用默认值
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, serrors.ConfigError("failed to read config file", err)
		}
	}

	// 5. 反序列化到结构体
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, serrors.ConfigError("failed to unmarshal config", err)
	}

	// 6. 校验
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验取值范围
func (c *AppConfig) Validate() error {
	if err := ValidateThreshold(c.Scan.QuarantineThreshold); err != nil {
		return err
	}
	if c.Sanitizer.Scale <= 0 {
		return serrors.ConfigError(fmt.Sprintf("sanitizer.scale must be positive, got %v", c.Sanitizer.Scale), nil)
	}
	if c.Sanitizer.JPEGQuality < 1 || c.Sanitizer.JPEGQuality > 100 {
		return serrors.ConfigError(fmt.Sprintf("sanitizer.jpeg_quality must be in [1,100], got %d", c.Sanitizer.JPEGQuality), nil)
	}
	if c.Scanner.WindowSize <= 0 {
		return serrors.ConfigError(fmt.Sprintf("scanner.window_size must be positive, got %d", c.Scanner.WindowSize), nil)
	}
	if c.History.Capacity <= 0 {
		return serrors.ConfigError(fmt.Sprintf("history.capacity must be positive, got %d", c.History.Capacity), nil)
	}
	return nil
}

// ValidateThreshold 隔离阈值必须在 [0,100]
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return serrors.ConfigError(fmt.Sprintf("quarantine_threshold must be in [0,100], got %d", threshold), nil)
	}
	return nil
}

// setDefaults 定义配置文件的“默认行为”
func setDefaults(v *viper.Viper) {
	// Agent 基础
	v.SetDefault("agent.log_level", "info")
	v.SetDefault("agent.log_file", "/var/log/pdfSentinel/sentinel.log")
	v.SetDefault("agent.data_dir", "/var/lib/pdfSentinel")
	v.SetDefault("agent.log_max_size", 100)
	v.SetDefault("agent.log_max_backups", 5)
	v.SetDefault("agent.log_max_age", 30)
	v.SetDefault("agent.log_compress", true)
	v.SetDefault("agent.log_stdout", false)

	// Scan 决策
	v.SetDefault("scan.quarantine_threshold", 55)
	v.SetDefault("scan.simulate_reputation", true)
	v.SetDefault("scan.strict_media_type", true)
	v.SetDefault("scan.max_file_size", 256<<20) // 256MB

	// Scanner 采样
	v.SetDefault("scanner.window_size", 128000)
	v.SetDefault("scanner.heart_min_size", 0)
	v.SetDefault("scanner.look_ahead", 2048)
	v.SetDefault("scanner.max_fragments", 16)

	// Reputation 信誉服务
	// api_key 需要有默认值，环境变量覆盖才会在 Unmarshal 时生效
	v.SetDefault("reputation.api_key", "")
	v.SetDefault("reputation.base_url", "https://www.virustotal.com/api/v3")
	v.SetDefault("reputation.timeout", "15s")
	v.SetDefault("reputation.cache_ttl", "1h")
	v.SetDefault("reputation.simulate_delay", "800ms")

	// Advisory 辅助分析
	v.SetDefault("advisory.enable", false)
	v.SetDefault("advisory.api_key", "")
	v.SetDefault("advisory.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("advisory.model", "gemini-1.5-flash")
	v.SetDefault("advisory.timeout", "20s")

	// Sanitizer 净化器
	v.SetDefault("sanitizer.scale", 2.0)
	v.SetDefault("sanitizer.jpeg_quality", 85)
	v.SetDefault("sanitizer.pdftoppm_path", "")
	v.SetDefault("sanitizer.render_timeout", "60s")

	// Server HTTP 服务
	v.SetDefault("server.listen", "127.0.0.1:8088")
	v.SetDefault("server.max_upload_size", 256<<20)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "5m")

	// Database 数据库配置
	v.SetDefault("database.file_name", "sentinel.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.journal_mode", "WAL")
	v.SetDefault("database.synchronous", "NORMAL")
	v.SetDefault("database.temp_store", "MEMORY")

	// Storage 存储引擎配置
	v.SetDefault("storage.archive_memory_limit", 50)

	// History 会话历史
	v.SetDefault("history.capacity", 10)

	// Integrity 完整性巡检
	v.SetDefault("integrity.enable", true)
	v.SetDefault("integrity.interval", "5m")
}

// Get 获取配置的安全访问器
func Get() *AppConfig {
	if GlobalConfig == nil {
		panic("Config not initialized! Call LoadConfig() first.")
	}
	return GlobalConfig
}
