// Package advisory 基于大模型的辅助研判
// 结果仅供参考，失败时返回不可用占位文本，从不影响评分与隔离决策
package advisory

import (
	"context"
	"net/http"
	"time"

	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
)

// UnavailablePrefix 不可用时的文本前缀
const UnavailablePrefix = "analysis unavailable: "

// Narrator 叙述生成能力
type Narrator interface {
	Summarize(ctx context.Context, a model.RiskAssessment) model.Narrative
	AnalyzeFragment(ctx context.Context, fragment string) model.Narrative
}

// Config 组件配置
type Config struct {
	Enable  bool
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Service Narrator 的默认实现
type Service struct {
	enabled bool
	timeout time.Duration
	client  *Client
}

// NewService 创建实例
func NewService(cfg Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{
		enabled: cfg.Enable,
		timeout: timeout,
		client:  NewClient(&http.Client{}, cfg.BaseURL, cfg.Model, cfg.APIKey),
	}
}

// Summarize 为评估结果生成 CISO 摘要
func (s *Service) Summarize(ctx context.Context, a model.RiskAssessment) model.Narrative {
	return s.narrate(ctx, "summary", summaryPrompt(a))
}

// AnalyzeFragment 分析单个脚本片段
func (s *Service) AnalyzeFragment(ctx context.Context, fragment string) model.Narrative {
	if fragment == "" {
		return Unavailable(serrors.AdvisoryError(serrors.ErrAdvisoryEmpty, nil))
	}
	return s.narrate(ctx, "fragment", fragmentPrompt(fragment))
}

func (s *Service) narrate(ctx context.Context, kind, prompt string) model.Narrative {
	if !s.enabled {
		return model.Narrative{Available: false, Text: UnavailablePrefix + "advisory disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := serrors.SafeExecuteWithResult(func() (string, error) {
		return s.client.Generate(ctx, prompt)
	})
	if err != nil {
		if serrors.IsAdvisoryError(err) {
			logger.Warn("advisory failed", "kind", kind, "error", err)
		} else {
			logger.Error("advisory crashed", "kind", kind, "error", err)
		}
		return Unavailable(err)
	}
	return model.Narrative{Available: true, Text: text}
}

// Unavailable 将错误转换为占位叙述
func Unavailable(err error) model.Narrative {
	reason := "unknown error"
	if se, ok := serrors.As(err); ok {
		reason = se.Code.Description()
		if se.Cause != nil {
			reason += " (" + se.Cause.Error() + ")"
		}
	} else if err != nil {
		reason = err.Error()
	}
	return model.Narrative{Available: false, Text: UnavailablePrefix + reason}
}
