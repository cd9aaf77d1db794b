// Package reputation 第三方信誉查询适配器
// 调用方总是得到一个 ReputationVerdict，查询失败以 FailureReason 表示，不会返回错误
package reputation

import (
	"context"
	"net/http"
	"time"

	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
)

// SimulatedReason 演示模式的结论说明
const SimulatedReason = "DEMO MODE: Using simulated reputation data."

// Adapter 定义接口
type Adapter interface {
	Lookup(ctx context.Context, fp model.Fingerprint, simulate bool) model.ReputationVerdict
}

// Config 组件配置
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration // 单次查询上限
	CacheTTL      time.Duration // 0 表示不缓存
	SimulateDelay time.Duration
}

// Service Adapter 的默认实现
type Service struct {
	client        *Client
	cache         *verdictCache
	timeout       time.Duration
	simulateDelay time.Duration
}

// NewService 创建实例
func NewService(cfg Config) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Service{
		client:        NewClient(httpClient, cfg.BaseURL, cfg.APIKey),
		cache:         newVerdictCache(cfg.CacheTTL),
		timeout:       cfg.Timeout,
		simulateDelay: cfg.SimulateDelay,
	}
}

// Lookup 实现
func (s *Service) Lookup(ctx context.Context, fp model.Fingerprint, simulate bool) model.ReputationVerdict {
	// 1. 演示模式
	if simulate {
		return s.simulated(ctx)
	}

	// 2. 缓存
	if v, ok := s.cache.get(fp); ok {
		logger.Debug("reputation cache hit", "fingerprint", fp.Short())
		return v
	}

	// 3. 限时查询
	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	v, err := serrors.SafeExecuteWithResult(func() (model.ReputationVerdict, error) {
		return s.client.FileReport(lookupCtx, fp)
	})
	if err != nil {
		if serrors.IsLookupError(err) {
			logger.Warn("reputation lookup failed",
				"fingerprint", fp.Short(),
				"code", serrors.GetErrorCode(err),
				"error", err,
			)
		} else {
			logger.Error("reputation lookup crashed",
				"fingerprint", fp.Short(),
				"error", err,
			)
		}
		return model.ReputationVerdict{Queried: false, FailureReason: failureReason(err)}
	}

	s.cache.put(fp, v)
	logger.Info("reputation lookup finished",
		"fingerprint", fp.Short(),
		"positives", v.Positives,
		"total", v.Total,
	)
	return v
}

func (s *Service) simulated(ctx context.Context) model.ReputationVerdict {
	if s.simulateDelay > 0 {
		timer := time.NewTimer(s.simulateDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	return model.ReputationVerdict{
		Queried:       false,
		Simulated:     true,
		FailureReason: SimulatedReason,
	}
}

// failureReason 面向展示的失败原因
func failureReason(err error) string {
	se, ok := serrors.As(err)
	if !ok {
		return err.Error()
	}
	if se.Cause != nil {
		return se.Code.Description() + ": " + se.Cause.Error()
	}
	return se.Code.Description()
}
