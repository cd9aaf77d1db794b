// Package heuristic 静态启发式扫描器
// 对输入字节做窗口采样，按规则表检测高风险结构标记，不解析 PDF 对象图
package heuristic

import (
	"context"

	"pdfSentinel/internal/detector/heuristic/window"
	"pdfSentinel/internal/model"
)

// Scanner 定义接口
type Scanner interface {
	// Scan 扫描原始字节
	// 任何内容都不会导致失败，结构缺失以 Malformed Structure 发现体现
	// 只有 ctx 取消时返回错误
	Scan(ctx context.Context, data []byte) (*Result, error)
}

// Config 组件配置
type Config struct {
	WindowSize   int
	HeartMinSize int64
	LookAhead    int
	MaxFragments int
}

// Result 扫描结果
type Result struct {
	Findings []model.HeuristicFinding
	Segments []window.Segment
}

// NewScanner 创建实例
func NewScanner(cfg Config) Scanner {
	return newService(cfg)
}
