// Package config
package config

import "time"

// ==========================================
// 顶层配置结构
// ==========================================

type AppConfig struct {
	Agent      AgentConfig      `mapstructure:"agent" yaml:"agent"`
	Scan       ScanConfig       `mapstructure:"scan" yaml:"scan"`
	Scanner    ScannerConfig    `mapstructure:"scanner" yaml:"scanner"`
	Reputation ReputationConfig `mapstructure:"reputation" yaml:"reputation"`
	Advisory   AdvisoryConfig   `mapstructure:"advisory" yaml:"advisory"`
	Sanitizer  SanitizerConfig  `mapstructure:"sanitizer" yaml:"sanitizer"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	History    HistoryConfig    `mapstructure:"history" yaml:"history"`
	Integrity  IntegrityConfig  `mapstructure:"integrity" yaml:"integrity"`
}

// ==========================================
// 1. 基础配置
// ==========================================

type AgentConfig struct {
	// 日志级别: debug, info, warn, error
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// 日志文件路径
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
	// 数据存储目录 (数据库、密钥盐值)
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// 日志轮转
	LogMaxSize    int  `mapstructure:"log_max_size" yaml:"log_max_size"`       // MB
	LogMaxBackups int  `mapstructure:"log_max_backups" yaml:"log_max_backups"` // 个数
	LogMaxAge     int  `mapstructure:"log_max_age" yaml:"log_max_age"`         // 天数
	LogCompress   bool `mapstructure:"log_compress" yaml:"log_compress"`       // 是否压缩
	LogStdout     bool `mapstructure:"log_stdout" yaml:"log_stdout"`           // 是否打印到控制台
}

// ==========================================
// 2. 扫描决策 (用户可调，持久化到数据库)
// ==========================================

type ScanConfig struct {
	// 隔离阈值 [0,100]，score >= 阈值即锁定
	QuarantineThreshold int `mapstructure:"quarantine_threshold" yaml:"quarantine_threshold"`
	// 信誉查询演示模式
	SimulateReputation bool `mapstructure:"simulate_reputation" yaml:"simulate_reputation"`
	// 是否拒绝声明类型不是 application/pdf 的输入
	StrictMediaType bool `mapstructure:"strict_media_type" yaml:"strict_media_type"`
	// 单文件大小上限 (字节)，0 表示不限制
	MaxFileSize int64 `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// ==========================================
// 3. 启发式扫描器
// ==========================================

type ScannerConfig struct {
	// 采样窗口大小 (字节)
	WindowSize int `mapstructure:"window_size" yaml:"window_size"`
	// 文件超过该大小才采样中部窗口，0 表示 4 倍窗口
	HeartMinSize int `mapstructure:"heart_min_size" yaml:"heart_min_size"`
	// 脚本片段提取的前向搜索上限 (字符)
	LookAhead int `mapstructure:"look_ahead" yaml:"look_ahead"`
	// 每个发现最多保留的片段数
	MaxFragments int `mapstructure:"max_fragments" yaml:"max_fragments"`
}

// ==========================================
// 4. 外部服务
// ==========================================

type ReputationConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// 单次查询超时，超时后返回 queried=false
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// 成功结论的缓存时间，0 表示不缓存
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	// 演示模式的模拟延迟
	SimulateDelay time.Duration `mapstructure:"simulate_delay" yaml:"simulate_delay"`
}

type AdvisoryConfig struct {
	Enable  bool          `mapstructure:"enable" yaml:"enable"`
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Model   string        `mapstructure:"model" yaml:"model"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ==========================================
// 5. 净化器
// ==========================================

type SanitizerConfig struct {
	// 渲染放大倍数
	Scale float64 `mapstructure:"scale" yaml:"scale"`
	// JPEG 质量 [1,100]
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
	// pdftoppm 可执行文件路径，为空时从 PATH 查找
	PdftoppmPath string `mapstructure:"pdftoppm_path" yaml:"pdftoppm_path"`
	// 单页渲染超时
	RenderTimeout time.Duration `mapstructure:"render_timeout" yaml:"render_timeout"`
}

// ==========================================
// 6. HTTP 服务
// ==========================================

type ServerConfig struct {
	// 监听地址
	Listen string `mapstructure:"listen" yaml:"listen"`
	// 上传体积上限 (字节)
	MaxUploadSize int64 `mapstructure:"max_upload_size" yaml:"max_upload_size"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// ==========================================
// 7. 数据库配置
// ==========================================

type DatabaseConfig struct {
	// 数据库文件名
	FileName string `mapstructure:"file_name" yaml:"file_name"`
	// GORM 日志级别: silent, error, warn, info
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// 最大打开连接数 (SQLite 建议 1)
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	// 最大空闲连接数 (SQLite 建议 1)
	MaxIdleConns int `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	// 连接最大生命周期
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	// SQLite Journal 模式: WAL, DELETE, TRUNCATE, PERSIST, MEMORY
	JournalMode string `mapstructure:"journal_mode" yaml:"journal_mode"`
	// SQLite 同步模式: FULL, NORMAL, OFF
	Synchronous string `mapstructure:"synchronous" yaml:"synchronous"`
	// SQLite 临时存储: MEMORY, FILE
	TempStore string `mapstructure:"temp_store" yaml:"temp_store"`
}

// ==========================================
// 8. 存储引擎配置
// ==========================================

type StorageConfig struct {
	// 评估归档内存存储上限，超出后加密落盘
	ArchiveMemoryLimit int `mapstructure:"archive_memory_limit" yaml:"archive_memory_limit"`
}

type HistoryConfig struct {
	// 会话历史容量
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
}

// IntegrityConfig sentineld 与渲染工具的完整性巡检
type IntegrityConfig struct {
	Enable   bool          `mapstructure:"enable" yaml:"enable"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}
