// Package storage SQLite 持久化：扫描配置与加密的评估归档
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pdfSentinel/internal/logger"
)

// Options 数据库参数，零值字段不生效
type Options struct {
	DataDir         string
	FileName        string
	LogLevel        string // silent, error, warn, info
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	JournalMode     string
	Synchronous     string
	TempStore       string
}

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
}

// Open 打开 DataDir/FileName 下的 SQLite 数据库
func Open(opts Options) (*gorm.DB, error) {
	if err := os.MkdirAll(opts.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db dir %s: %w", opts.DataDir, err)
	}
	dbPath := filepath.Join(opts.DataDir, opts.FileName)

	level, ok := gormLevels[strings.ToLower(opts.LogLevel)]
	if !ok {
		level = gormlogger.Warn
	}

	conn, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(level),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		logger.Error("DB open failed", "path", dbPath, "error", err)
		return nil, fmt.Errorf("failed to open sqlite %s: %w", dbPath, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	// PRAGMA 按连接生效；单连接时执行一次即可
	pragmas := [][2]string{
		{"journal_mode", opts.JournalMode},
		{"synchronous", opts.Synchronous},
		{"temp_store", opts.TempStore},
	}
	for _, p := range pragmas {
		if p[1] == "" {
			continue
		}
		stmt := fmt.Sprintf("PRAGMA %s = %s;", p[0], p[1])
		if err := conn.Exec(stmt).Error; err != nil {
			Close(conn)
			return nil, fmt.Errorf("failed to exec %q: %w", stmt, err)
		}
	}

	logger.Info("Database initialized", "path", dbPath, "journal_mode", opts.JournalMode)
	return conn, nil
}

// Close 关闭底层连接，nil 安全
func Close(conn *gorm.DB) error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
