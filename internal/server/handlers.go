package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"pdfSentinel/internal/config"
	"pdfSentinel/internal/detector/heuristic/format"
	serrors "pdfSentinel/internal/errors"
	"pdfSentinel/internal/fingerprint"
	"pdfSentinel/internal/logger"
	"pdfSentinel/internal/model"
)

const defaultUploadName = "upload.pdf"

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// ==========================================
// 基础
// ==========================================

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if !s.integrityOK() {
		status, code = "integrity_violation", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{
		"status":  status,
		"version": config.Version,
	})
}

func (s *Server) integrityOK() bool {
	return s.deps.Integrity == nil || s.deps.Integrity.Healthy()
}

// ==========================================
// 扫描
// ==========================================

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r, s.maxUpload)
	if !ok {
		return
	}

	doc := model.RawDocument{
		Name:         uploadName(r),
		Data:         data,
		DeclaredSize: r.ContentLength,
		DeclaredType: r.Header.Get("Content-Type"),
	}
	if doc.DeclaredType == "" {
		doc.DeclaredType = format.FromExtension(doc.Name)
	}

	assessment, err := s.deps.Scanner.Scan(r.Context(), doc, s.deps.Settings.Get())
	if err != nil {
		writeError(w, err)
		return
	}

	result := *assessment
	if r.URL.Query().Get("advisory") == "true" && s.deps.Narrator != nil {
		result = result.WithNarrative(s.deps.Narrator.Summarize(r.Context(), result))
	}

	if s.deps.History != nil {
		s.deps.History.Add(result.HistoryEntry())
	}
	if s.deps.Archive != nil {
		if err := s.deps.Archive.Push(result.Archive()); err != nil {
			logger.Warn("archive push failed", "id", result.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// ==========================================
// 历史
// ==========================================

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	entries := []model.ScanHistoryEntry{}
	if s.deps.History != nil {
		entries = s.deps.History.List()
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if s.deps.History != nil {
		s.deps.History.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================================
// 配置
// ==========================================

func (s *Server) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Settings.Get())
}

func (s *Server) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	var cfg model.ScanConfiguration
	dec := json.NewDecoder(io.LimitReader(r.Body, 4<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid configuration body: " + err.Error()})
		return
	}

	if err := s.deps.Settings.Update(cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Settings.Get())
}

// ==========================================
// 净化
// ==========================================

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r, s.maxUpload)
	if !ok {
		return
	}
	if len(data) == 0 {
		writeError(w, serrors.InputError(uploadName(r), errors.New("empty body")))
		return
	}
	if detected := format.Sniff(data); detected != model.MediaTypePDF {
		writeError(w, serrors.MediaTypeError(uploadName(r), detected))
		return
	}
	// 渲染工具被篡改时拒绝执行
	if !s.integrityOK() {
		writeError(w, serrors.RenderError(serrors.ErrRenderTool, 0, errors.New("renderer integrity check failed")))
		return
	}

	out, err := s.sanitize(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}

	name := strings.TrimSuffix(filepath.Base(uploadName(r)), filepath.Ext(uploadName(r)))
	w.Header().Set("Content-Type", model.MediaTypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "sanitized_"+name+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// sanitize 打开文档并净化，返回前释放文档
func (s *Server) sanitize(ctx context.Context, data []byte) ([]byte, error) {
	doc, err := s.deps.OpenDocument(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	key := fingerprint.Compute(data).String()
	return s.deps.Sanitizer.Sanitize(ctx, key, doc, nil)
}

// ==========================================
// 辅助研判
// ==========================================

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r, maxFragmentSize)
	if !ok {
		return
	}
	if s.deps.Narrator == nil {
		writeJSON(w, http.StatusOK, model.Narrative{Text: "analysis unavailable: advisory disabled"})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Narrator.AnalyzeFragment(r.Context(), string(data)))
}

// ==========================================
// 工具函数
// ==========================================

// readBody 读取受限的请求体，失败时已写入响应
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, serrors.TooLargeError(uploadName(r), tooLarge.Limit+1, tooLarge.Limit))
			return nil, false
		}
		writeError(w, serrors.InputError(uploadName(r), err))
		return nil, false
	}
	return data, true
}

// uploadName X-File-Name 头，允许 URL 编码
func uploadName(r *http.Request) string {
	name := r.Header.Get("X-File-Name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" {
		return defaultUploadName
	}
	return name
}

// statusFor 错误码到 HTTP 状态
func statusFor(err error) int {
	switch code := serrors.GetErrorCode(err); {
	case code == serrors.ErrInputMediaType:
		return http.StatusUnsupportedMediaType
	case code == serrors.ErrInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case serrors.IsInputError(err), serrors.IsConfigError(err) && code == serrors.ErrConfigInvalid:
		return http.StatusBadRequest
	case code == serrors.ErrRenderBusy:
		return http.StatusConflict
	case serrors.IsRenderError(err):
		return http.StatusUnprocessableEntity
	case code == serrors.ErrCancelled, code == serrors.ErrTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	if se, ok := serrors.As(err); ok {
		body.Error = se.UserMessage()
		body.Code = int(se.Code)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response failed", "error", err)
	}
}
