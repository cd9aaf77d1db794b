package heuristic

import (
	"bytes"
	"context"
	"strings"

	"pdfSentinel/internal/detector/heuristic/engine"
	"pdfSentinel/internal/detector/heuristic/rules"
	"pdfSentinel/internal/detector/heuristic/window"
	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
)

type service struct {
	config Config
	rules  []*rules.Rule
}

func newService(cfg Config) *service {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = window.DefaultSize
	}
	if cfg.LookAhead <= 0 {
		cfg.LookAhead = engine.DefaultLookAhead
	}
	if cfg.MaxFragments <= 0 {
		cfg.MaxFragments = 16
	}
	return &service{
		config: cfg,
		rules:  rules.Patterns,
	}
}

// Scan 实现
func (s *service) Scan(ctx context.Context, data []byte) (*Result, error) {
	// 1. 窗口采样
	sample := window.Take(data, window.Options{
		Size:         s.config.WindowSize,
		HeartMinSize: s.config.HeartMinSize,
	})

	// 2. 规则匹配
	findings := make([]model.HeuristicFinding, 0, len(s.rules)+1)
	for _, rule := range s.rules {
		if err := ctx.Err(); err != nil {
			return nil, serrors.New(serrors.ErrCancelled, "heuristic scan cancelled").
				WithComponent("heuristic").
				WithCause(err)
		}
		if f := engine.Evaluate(rule, sample, s.config.LookAhead, s.config.MaxFragments); f != nil {
			findings = append(findings, *f)
		}
	}

	// 3. 结构完整性
	if !eofPresent(sample.Text, data) {
		findings = append(findings, model.HeuristicFinding{
			Category:        model.CategoryMalformedStructure,
			OccurrenceCount: 1,
			Severity:        model.SeverityMedium,
			Description:     rules.MalformedDescription,
		})
	}

	logger.Debug("heuristic scan finished",
		"size", len(data),
		"windows", len(sample.Segments),
		"findings", len(findings),
	)

	return &Result{Findings: findings, Segments: sample.Segments}, nil
}

// eofPresent 文件结束标记检查
// 先查解码后的采样文本，再查原始尾部字节 (含十六进制写法)
func eofPresent(text string, data []byte) bool {
	if strings.Contains(text, rules.EOFMarker) {
		return true
	}

	tail := data[max(0, len(data)-rules.TrailerProbeSize):]
	if bytes.Contains(tail, []byte(rules.EOFMarker)) {
		return true
	}
	return bytes.Contains(bytes.ToLower(tail), []byte(rules.EOFMarkerHex))
}
