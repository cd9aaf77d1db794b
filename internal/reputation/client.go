package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pdfSentinel/internal/config"
	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/model"
)

const (
	// DefaultBaseURL VirusTotal v3 API
	DefaultBaseURL = "https://www.virustotal.com/api/v3"
	// PermalinkBase 报告页面
	PermalinkBase = "https://www.virustotal.com/gui/file/"

	// NotFoundNote 数据库中不存在该摘要
	NotFoundNote = "File hash not found in global database."

	maxResponseSize = 4 << 20
)

// analysisStats last_analysis_stats 字段
type analysisStats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
}

type fileReport struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats analysisStats `json:"last_analysis_stats"`
		} `json:"attributes"`
	} `json:"data"`
}

// Client VirusTotal 文件报告查询
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient 创建客户端
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Configured 是否配置了 API Key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// FileReport 查询摘要对应的检测统计
// 404 映射为成功的零检出结论；其余非 200 状态与传输错误返回 LookupError
func (c *Client) FileReport(ctx context.Context, fp model.Fingerprint, opts ...RequestOption) (model.ReputationVerdict, error) {
	if !c.Configured() {
		return model.ReputationVerdict{}, serrors.LookupError(serrors.ErrLookupNotConfigured, nil)
	}

	// 1. 构造请求
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+string(fp), nil)
	if err != nil {
		return model.ReputationVerdict{}, serrors.LookupError(serrors.ErrLookupTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	WithUserAgent(config.UserAgent())(req)
	WithAPIKey(c.apiKey)(req)
	for _, opt := range opts {
		opt(req)
	}

	// 2. 发送请求
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return model.ReputationVerdict{}, serrors.LookupError(serrors.ErrLookupTimeout, ctx.Err())
		}
		return model.ReputationVerdict{}, serrors.LookupError(serrors.ErrLookupTransport, err)
	}
	defer resp.Body.Close()

	// 3. 处理响应
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.ReputationVerdict{Queried: true, Note: NotFoundNote}, nil
	case resp.StatusCode != http.StatusOK:
		return model.ReputationVerdict{}, serrors.LookupError(serrors.ErrLookupService,
			fmt.Errorf("VT API Error: %d", resp.StatusCode))
	}

	var report fileReport
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&report); err != nil {
		return model.ReputationVerdict{}, serrors.LookupError(serrors.ErrLookupDecode, err)
	}

	s := report.Data.Attributes.LastAnalysisStats
	positives := max(0, s.Malicious) + max(0, s.Suspicious)
	total := positives + max(0, s.Harmless) + max(0, s.Undetected)

	return model.ReputationVerdict{
		Queried:       true,
		Positives:     positives,
		Total:         total,
		ReferenceLink: PermalinkBase + string(fp),
	}, nil
}
