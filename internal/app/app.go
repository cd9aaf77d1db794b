// Package app 组装各组件，供 sentinel 与 sentineld 共用
// 初始化顺序: 日志 -> 密钥 -> 数据库 -> 存储 -> 服务
package app

import (
	"fmt"

	"gorm.io/gorm"

	"pdfSentinel/internal/advisory"
	"pdfSentinel/internal/config"
	"pdfSentinel/internal/detector/heuristic"
	"pdfSentinel/internal/history"
	"pdfSentinel/internal/integrity"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/renderer"
	"pdfSentinel/internal/reputation"
	"pdfSentinel/internal/sanitizer"
	"pdfSentinel/internal/server"
	"pdfSentinel/internal/service/scan"
	"pdfSentinel/internal/service/settings"
	"pdfSentinel/internal/storage"
	"pdfSentinel/internal/vault"
)

// App 运行期组件集合
type App struct {
	Config *config.AppConfig

	DB     *gorm.DB
	Stores *storage.Stores

	Settings  *settings.Service
	Scanner   *scan.Service
	Narrator  advisory.Narrator
	Sanitizer *sanitizer.Sanitizer
	History   *history.Ring
	Integrity *integrity.Monitor
}

// New 创建空壳，各阶段由调用方按顺序执行
func New(cfg *config.AppConfig) *App {
	return &App{Config: cfg}
}

// InitLogger 日志
// stdout 为 true 时强制同时输出到控制台
func (a *App) InitLogger(stdout bool) error {
	agent := a.Config.Agent
	if err := logger.Setup(logger.Options{
		Level:      agent.LogLevel,
		FilePath:   agent.LogFile,
		MaxSize:    agent.LogMaxSize,
		MaxBackups: agent.LogMaxBackups,
		MaxAge:     agent.LogMaxAge,
		Compress:   agent.LogCompress,
		Stdout:     agent.LogStdout || stdout,
	}); err != nil {
		return fmt.Errorf("logger setup failed: %w", err)
	}
	logger.Info("pdfSentinel initialized", "version", config.Version)
	return nil
}

// InitStorage 本机密钥、数据库与存储实例
func (a *App) InitStorage() error {
	cipher := vault.New(&vault.HostKey{})
	// 提前派生，避免首次落盘时才发现密钥不可用
	if _, err := cipher.Seal(nil); err != nil {
		return fmt.Errorf("vault setup failed: %w", err)
	}

	dbCfg := a.Config.Database
	db, err := storage.Open(storage.Options{
		DataDir:         a.Config.Agent.DataDir,
		FileName:        dbCfg.FileName,
		LogLevel:        dbCfg.LogLevel,
		MaxOpenConns:    dbCfg.MaxOpenConns,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: dbCfg.ConnMaxLifetime,
		JournalMode:     dbCfg.JournalMode,
		Synchronous:     dbCfg.Synchronous,
		TempStore:       dbCfg.TempStore,
	})
	if err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}
	a.DB = db

	stores, err := storage.NewStores(db, cipher, storage.StoresOptions{
		ArchiveMemoryLimit: a.Config.Storage.ArchiveMemoryLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to setup stores: %w", err)
	}
	a.Stores = stores
	return nil
}

// InitServices 业务服务
// 未执行 InitStorage 时配置只在内存中生效
func (a *App) InitServices() error {
	cfg := a.Config

	var persister settings.Persister
	if a.Stores != nil {
		persister = a.Stores.Settings
	}
	st, err := settings.NewService(persister, settings.FromAppConfig(cfg))
	if err != nil {
		return err
	}
	a.Settings = st

	scanner := heuristic.NewScanner(heuristic.Config{
		WindowSize:   cfg.Scanner.WindowSize,
		HeartMinSize: int64(cfg.Scanner.HeartMinSize),
		LookAhead:    cfg.Scanner.LookAhead,
		MaxFragments: cfg.Scanner.MaxFragments,
	})
	rep := reputation.NewService(reputation.Config{
		APIKey:        cfg.Reputation.APIKey,
		BaseURL:       cfg.Reputation.BaseURL,
		Timeout:       cfg.Reputation.Timeout,
		CacheTTL:      cfg.Reputation.CacheTTL,
		SimulateDelay: cfg.Reputation.SimulateDelay,
	})
	a.Scanner = scan.NewService(scanner, rep, scan.Options{
		StrictMediaType: cfg.Scan.StrictMediaType,
		MaxFileSize:     cfg.Scan.MaxFileSize,
	})

	a.Narrator = advisory.NewService(advisory.Config{
		Enable:  cfg.Advisory.Enable,
		APIKey:  cfg.Advisory.APIKey,
		BaseURL: cfg.Advisory.BaseURL,
		Model:   cfg.Advisory.Model,
		Timeout: cfg.Advisory.Timeout,
	})

	a.Sanitizer = sanitizer.New(sanitizer.Config{
		Scale:       cfg.Sanitizer.Scale,
		JPEGQuality: cfg.Sanitizer.JPEGQuality,
	})

	a.History = history.NewRing(cfg.History.Capacity)

	logger.Info("services initialized",
		"threshold", a.Settings.Get().QuarantineThreshold,
		"simulate_reputation", a.Settings.Get().SimulateReputationLookup,
		"advisory", cfg.Advisory.Enable,
	)
	return nil
}

// InitIntegrity 为自身与 pdftoppm 建立完整性基线并启动巡检
// 找不到 pdftoppm 时只监控自身
func (a *App) InitIntegrity() error {
	cfg := a.Config.Integrity
	if !cfg.Enable {
		logger.Info("integrity monitor disabled")
		return nil
	}

	self, err := integrity.SelfExecutablePath()
	if err != nil {
		return err
	}
	targets := []string{self}
	if tool, err := renderer.LocateTool(a.Config.Sanitizer.PdftoppmPath); err == nil {
		targets = append(targets, tool)
	} else {
		logger.Warn("renderer not found, integrity monitor covers self only", "error", err)
	}

	mon, err := integrity.NewMonitor(targets, integrity.LogReporter{})
	if err != nil {
		return err
	}
	mon.Start(cfg.Interval)
	a.Integrity = mon
	return nil
}

// RenderOptions 渲染器参数
func (a *App) RenderOptions() renderer.Options {
	return renderer.Options{
		PdftoppmPath:  a.Config.Sanitizer.PdftoppmPath,
		RenderTimeout: a.Config.Sanitizer.RenderTimeout,
	}
}

// OpenDocument 供 HTTP 接口使用的文档打开函数
func (a *App) OpenDocument(data []byte) (server.RenderDocument, error) {
	return renderer.FromBytes(data, a.RenderOptions())
}

// Server HTTP 接口
func (a *App) Server() *server.Server {
	deps := server.Deps{
		Scanner:      a.Scanner,
		Settings:     a.Settings,
		Narrator:     a.Narrator,
		Sanitizer:    a.Sanitizer,
		OpenDocument: a.OpenDocument,
		History:      a.History,
	}
	if a.Stores != nil {
		deps.Archive = a.Stores.Archive
	}
	if a.Integrity != nil {
		deps.Integrity = a.Integrity
	}
	return server.New(deps, server.Options{MaxUploadSize: a.Config.Server.MaxUploadSize})
}

// Shutdown 刷盘并关闭数据库，清空会话历史
func (a *App) Shutdown() error {
	var firstErr error
	if a.Integrity != nil {
		a.Integrity.Stop()
	}
	if a.History != nil {
		a.History.Clear()
	}
	if a.Stores != nil {
		if err := a.Stores.FlushAll(); err != nil {
			logger.Error("Failed to flush stores", "error", err)
			firstErr = err
		}
	}
	if err := storage.Close(a.DB); err != nil && firstErr == nil {
		firstErr = err
	}
	logger.Close()
	return firstErr
}
