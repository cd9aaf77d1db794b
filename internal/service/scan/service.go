// Package scan 扫描编排：指纹、启发式扫描、信誉查询并行执行，汇合后评分与隔离决策
package scan

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pdfSentinel/internal/detector/heuristic"
	"pdfSentinel/internal/detector/heuristic/format"
	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/fingerprint"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
	"pdfSentinel/internal/reputation"
	"pdfSentinel/internal/risk"
)

// Options 服务参数
type Options struct {
	// StrictMediaType 拒绝非 application/pdf 的输入
	StrictMediaType bool
	// MaxFileSize 单文件上限，0 表示不限制
	MaxFileSize int64
}

// Service 扫描服务
// 不持有任何跨扫描的可变状态，可并发调用
type Service struct {
	scanner    heuristic.Scanner
	reputation reputation.Adapter
	opts       Options

	now   func() time.Time
	newID func() string
}

// NewService 创建实例
func NewService(scanner heuristic.Scanner, adapter reputation.Adapter, opts Options) *Service {
	return &Service{
		scanner:    scanner,
		reputation: adapter,
		opts:       opts,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// ScanFile 读取文件后扫描
// 读取失败为致命的输入错误
func (s *Service) ScanFile(ctx context.Context, path string, cfg model.ScanConfiguration) (*model.RiskAssessment, error) {
	if path == "" {
		return nil, serrors.New(serrors.ErrInputEmptyPath, "no input file").WithLevel(serrors.LevelFatal)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, serrors.InputError(path, err)
	}
	if s.opts.MaxFileSize > 0 && info.Size() > s.opts.MaxFileSize {
		return nil, serrors.TooLargeError(path, info.Size(), s.opts.MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.InputError(path, err)
	}

	// 声明类型取自扩展名；内容识别结果只用于展示
	return s.Scan(ctx, model.RawDocument{
		Name:         filepath.Base(path),
		Data:         data,
		DeclaredSize: info.Size(),
		DeclaredType: format.FromExtension(path),
	}, cfg)
}

// Scan 执行一次完整扫描
func (s *Service) Scan(ctx context.Context, doc model.RawDocument, cfg model.ScanConfiguration) (*model.RiskAssessment, error) {
	start := s.now()

	// 1. 输入检查
	detected, err := s.admit(doc)
	if err != nil {
		return nil, err
	}

	// 2. 并行分支
	// A: 指纹 -> 信誉查询 (查询失败在适配器内恢复为结论)
	// B: 启发式扫描
	var (
		digests  fingerprint.Digests
		verdict  model.ReputationVerdict
		findings []model.HeuristicFinding
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		digests = fingerprint.ComputeAll(doc.Data)
		verdict = s.reputation.Lookup(gctx, digests.SHA256, cfg.SimulateReputationLookup)
		return nil
	})

	g.Go(func() error {
		res, err := serrors.SafeExecuteWithResult(func() (*heuristic.Result, error) {
			return s.scanner.Scan(gctx, doc.Data)
		})
		if err != nil {
			return err
		}
		if res != nil {
			findings = res.Findings
		}
		return nil
	})

	// 3. 汇合
	if err := g.Wait(); err != nil {
		logger.Error("scan aborted", "file", doc.Name, "error", err)
		return nil, err
	}

	// 4. 评分与隔离决策
	assessment := risk.Assess(findings, verdict, cfg)
	assessment.ID = s.newID()
	assessment.FileName = doc.Name
	assessment.FileSize = doc.Size()
	assessment.Fingerprint = digests.SHA256
	assessment.SM3 = digests.SM3
	assessment.DetectedType = detected
	assessment.Timestamp = s.now().UTC()

	logger.Info("scan finished",
		"id", assessment.ID,
		"file", doc.Name,
		"fingerprint", digests.SHA256.Short(),
		"score", assessment.Score,
		"classification", assessment.Classification,
		"locked", assessment.Locked,
		"findings", len(assessment.Findings),
		"elapsed", time.Since(start).String(),
	)

	return &assessment, nil
}

// admit 媒体类型与大小检查，返回识别出的类型
// 只有声明类型参与拒绝；内容畸形或被识别为其他类型时照常扫描，由启发式规则给出发现
func (s *Service) admit(doc model.RawDocument) (string, error) {
	size := doc.Size()
	if s.opts.MaxFileSize > 0 && size > s.opts.MaxFileSize {
		return "", serrors.TooLargeError(doc.Name, size, s.opts.MaxFileSize)
	}
	if doc.DeclaredSize > 0 && doc.DeclaredSize != size {
		logger.Warn("declared size mismatch", "file", doc.Name, "declared", doc.DeclaredSize, "actual", size)
	}

	detected := format.Sniff(doc.Data)
	if format.HasLeadingGarbage(doc.Data) {
		logger.Warn("pdf header not at offset 0", "file", doc.Name)
	}

	declared := doc.DeclaredType
	if declared == "" {
		logger.Debug("no declared media type", "file", doc.Name, "detected", detected)
		return detected, nil
	}

	if s.opts.StrictMediaType && !format.IsPDF(declared) {
		return "", serrors.MediaTypeError(doc.Name, declared)
	}
	if format.IsPDF(declared) && detected != model.MediaTypePDF {
		logger.Warn("declared type does not match content", "file", doc.Name, "declared", declared, "detected", detected)
	}

	return detected, nil
}
