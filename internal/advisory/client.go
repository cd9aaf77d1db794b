package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pdfSentinel/internal/config"
	serrors "pdfSentinel/internal/errors"
)

const (
	// DefaultBaseURL Generative Language API
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel 默认模型
	DefaultModel = "gemini-1.5-flash"

	// 偏向事实性的采样参数
	temperature = 0.4
	topP        = 0.8

	maxResponseSize = 1 << 20
)

// RequestOption 定义一个函数类型，用于修改 http.Request
type RequestOption func(*http.Request)

// WithHeader 添加或覆盖自定义 Header
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client generateContent 调用
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewClient 创建客户端
func NewClient(httpClient *http.Client, baseURL, model, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
	}
}

// Generate 发送单轮提示词，返回拼接后的文本
func (c *Client) Generate(ctx context.Context, prompt string, opts ...RequestOption) (string, error) {
	if c.apiKey == "" {
		return "", serrors.AdvisoryError(serrors.ErrAdvisoryUnavailable, fmt.Errorf("api key not configured"))
	}

	// 1. 构造请求
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: temperature, TopP: topP},
	})
	if err != nil {
		return "", serrors.AdvisoryError(serrors.ErrAdvisoryUnavailable, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", serrors.AdvisoryError(serrors.ErrAdvisoryUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())
	req.Header.Set("x-goog-api-key", c.apiKey)
	for _, opt := range opts {
		opt(req)
	}

	// 2. 发送请求
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", serrors.AdvisoryError(serrors.ErrAdvisoryUnavailable, err)
	}
	defer resp.Body.Close()

	// 3. 解析响应
	var out generateResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			msg += ": " + out.Error.Message
		}
		return "", serrors.AdvisoryError(serrors.ErrAdvisoryUnavailable, fmt.Errorf("%s", msg))
	}
	if decodeErr != nil {
		return "", serrors.AdvisoryError(serrors.ErrAdvisoryUnavailable, decodeErr)
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", serrors.AdvisoryError(serrors.ErrAdvisoryEmpty, nil)
	}
	return text, nil
}
