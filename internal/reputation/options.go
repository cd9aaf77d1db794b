package reputation

import "net/http"

// RequestOption 定义一个函数类型，用于修改 http.Request
type RequestOption func(*http.Request)

// WithHeader 添加或覆盖自定义 Header
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// WithAPIKey 信誉服务认证头
func WithAPIKey(key string) RequestOption {
	return WithHeader("x-apikey", key)
}

// WithUserAgent 覆盖 UA
func WithUserAgent(ua string) RequestOption {
	return WithHeader("User-Agent", ua)
}
