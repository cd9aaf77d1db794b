// Package logger 提供全局结构化日志 (slog + lumberjack 轮转)
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志初始化选项
type Options struct {
	Level      string // debug, info, warn, error
	FilePath   string // 日志文件路径，为空时只输出到控制台
	MaxSize    int    // 单文件上限 (MB)
	MaxBackups int    // 保留旧文件个数
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩旧日志
	Stdout     bool   // 是否同时打印到控制台
}

var (
	mu      sync.RWMutex
	current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	rotator *lumberjack.Logger
)

// Setup 初始化日志系统
// 未调用 Setup 前，日志默认输出到 stderr (info 级别)
func Setup(opts Options) error {
	var writers []io.Writer

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return fmt.Errorf("failed to create log dir: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}
		writers = append(writers, rotator)
	}

	if opts.Stdout || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
	})

	mu.Lock()
	current = slog.New(handler)
	mu.Unlock()

	return nil
}

// Close 关闭轮转文件句柄
func Close() error {
	if rotator != nil {
		return rotator.Close()
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Debug 调试日志
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info 普通日志
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn 警告日志
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error 错误日志
func Error(msg string, args ...any) { get().Error(msg, args...) }

// With 返回携带固定字段的子 logger
func With(args ...any) *slog.Logger { return get().With(args...) }
