// Package server HTTP 接口
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pdfSentinel/internal/advisory"
	"pdfSentinel/internal/history"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
	"pdfSentinel/internal/sanitizer"
)

// DefaultMaxUploadSize 默认上传上限
const DefaultMaxUploadSize = 256 << 20

// 片段分析请求体上限
const maxFragmentSize = 64 << 10

// Scanner 扫描能力
type Scanner interface {
	Scan(ctx context.Context, doc model.RawDocument, cfg model.ScanConfiguration) (*model.RiskAssessment, error)
}

// Settings 当前扫描配置
type Settings interface {
	Get() model.ScanConfiguration
	Update(cfg model.ScanConfiguration) error
}

// Archive 评估归档
type Archive interface {
	Push(item model.ArchivedAssessment) error
}

// RenderDocument 可渲染且需要释放的文档
type RenderDocument interface {
	sanitizer.Document
	io.Closer
}

// Integrity 可执行文件完整性状态
type Integrity interface {
	Healthy() bool
}

// DocumentOpener 将上传的字节打开为可渲染文档
type DocumentOpener func(data []byte) (RenderDocument, error)

// Deps 依赖集合，Archive 与 Integrity 可为 nil
type Deps struct {
	Scanner      Scanner
	Settings     Settings
	Narrator     advisory.Narrator
	Sanitizer    *sanitizer.Sanitizer
	OpenDocument DocumentOpener
	History      *history.Ring
	Archive      Archive
	Integrity    Integrity
}

// Options 服务选项
type Options struct {
	MaxUploadSize int64
}

// Server 路由与处理函数
type Server struct {
	deps      Deps
	maxUpload int64
}

// New 创建实例
func New(deps Deps, opts Options) *Server {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}
	return &Server{deps: deps, maxUpload: opts.MaxUploadSize}
}

// Routes 挂载所有路由
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scans", s.handleScan)

		r.Get("/history", s.handleHistoryList)
		r.Delete("/history", s.handleHistoryClear)

		r.Get("/config", s.handleConfigGet)
		r.Put("/config", s.handleConfigPut)

		r.Post("/sanitize", s.handleSanitize)
		r.Post("/advisory/fragment", s.handleFragment)
	})

	return r
}

// requestLogger 访问日志
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).String(),
		)
	})
}
