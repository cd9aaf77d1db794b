// Package errors 定义扫描/净化流水线的统一错误类型
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorLevel 错误级别
type ErrorLevel int

const (
	LevelInfo    ErrorLevel = iota // 信息
	LevelWarning                   // 警告
	LevelError                     // 错误
	LevelFatal                     // 致命错误
)

// String 返回错误级别的字符串表示
func (l ErrorLevel) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorCode 错误代码
type ErrorCode int

const (
	// 通用错误 (1000-1999)
	ErrUnknown   ErrorCode = 1000
	ErrInternal  ErrorCode = 1001
	ErrCancelled ErrorCode = 1002
	ErrTimeout   ErrorCode = 1003

	// 输入错误 (2000-2999)：对扫描致命，不重试
	ErrInputUnreadable ErrorCode = 2000
	ErrInputEmptyPath  ErrorCode = 2001
	ErrInputMediaType  ErrorCode = 2002
	ErrInputTooLarge   ErrorCode = 2003

	// 信誉查询错误 (3000-3999)：本地恢复为 queried=false 的结论
	ErrLookupTransport     ErrorCode = 3000
	ErrLookupService       ErrorCode = 3001
	ErrLookupTimeout       ErrorCode = 3002
	ErrLookupNotConfigured ErrorCode = 3003
	ErrLookupDecode        ErrorCode = 3004

	// 渲染错误 (4000-4999)：中止整个净化过程，不返回部分结果
	ErrRenderPageCount ErrorCode = 4000
	ErrRenderPage      ErrorCode = 4001
	ErrRenderEncode    ErrorCode = 4002
	ErrRenderAssemble  ErrorCode = 4003
	ErrRenderBusy      ErrorCode = 4004
	ErrRenderNoPages   ErrorCode = 4005
	ErrRenderTool      ErrorCode = 4006

	// 辅助分析错误 (5000-5999)：恢复为占位文本
	ErrAdvisoryUnavailable ErrorCode = 5000
	ErrAdvisoryEmpty       ErrorCode = 5001

	// 配置错误 (6000-6999)
	ErrConfigInvalid ErrorCode = 6000
	ErrConfigPersist ErrorCode = 6001
)

var errorDescriptions = map[ErrorCode]string{
	ErrUnknown:   "未知错误",
	ErrInternal:  "内部错误",
	ErrCancelled: "操作已取消",
	ErrTimeout:   "操作超时",

	ErrInputUnreadable: "无法读取输入文件",
	ErrInputEmptyPath:  "未指定输入文件",
	ErrInputMediaType:  "不支持的文件类型",
	ErrInputTooLarge:   "文件过大",

	ErrLookupTransport:     "信誉服务不可达",
	ErrLookupService:       "信誉服务返回错误",
	ErrLookupTimeout:       "信誉查询超时",
	ErrLookupNotConfigured: "信誉服务未配置",
	ErrLookupDecode:        "信誉服务响应无法解析",

	ErrRenderPageCount: "无法获取页数",
	ErrRenderPage:      "页面渲染失败",
	ErrRenderEncode:    "栅格编码失败",
	ErrRenderAssemble:  "输出文档生成失败",
	ErrRenderBusy:      "文档正在被净化",
	ErrRenderNoPages:   "文档没有页面",
	ErrRenderTool:      "渲染工具不可用",

	ErrAdvisoryUnavailable: "辅助分析不可用",
	ErrAdvisoryEmpty:       "辅助分析返回空结果",

	ErrConfigInvalid: "配置值无效",
	ErrConfigPersist: "配置保存失败",
}

// Description 返回错误代码的描述
func (c ErrorCode) Description() string {
	if desc, ok := errorDescriptions[c]; ok {
		return desc
	}
	return "未知错误"
}

// SentinelError 流水线错误
type SentinelError struct {
	Code      ErrorCode         // 错误代码
	Level     ErrorLevel        // 错误级别
	Message   string            // 错误消息
	Component string            // 组件名称
	FilePath  string            // 相关文件路径
	Operation string            // 操作名称
	Cause     error             // 原始错误
	Timestamp time.Time         // 发生时间
	Extra     map[string]string // 额外信息
}

// New 创建错误
func New(code ErrorCode, message string) *SentinelError {
	return &SentinelError{
		Code:      code,
		Level:     LevelError,
		Message:   message,
		Timestamp: time.Now(),
		Extra:     make(map[string]string),
	}
}

// Error 实现 error 接口
func (e *SentinelError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] ", e.Level.String()))
	if e.Component != "" {
		sb.WriteString(fmt.Sprintf("[%s] ", e.Component))
	}
	sb.WriteString(e.Message)
	if e.FilePath != "" {
		sb.WriteString(fmt.Sprintf(" (file: %s)", e.FilePath))
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	return sb.String()
}

// Unwrap 返回原始错误
func (e *SentinelError) Unwrap() error {
	return e.Cause
}

// WithLevel 设置错误级别
func (e *SentinelError) WithLevel(level ErrorLevel) *SentinelError {
	e.Level = level
	return e
}

// WithComponent 设置组件名称
func (e *SentinelError) WithComponent(component string) *SentinelError {
	e.Component = component
	return e
}

// WithFile 设置相关文件
func (e *SentinelError) WithFile(filePath string) *SentinelError {
	e.FilePath = filePath
	return e
}

// WithOperation 设置操作名称
func (e *SentinelError) WithOperation(operation string) *SentinelError {
	e.Operation = operation
	return e
}

// WithCause 设置原始错误
func (e *SentinelError) WithCause(cause error) *SentinelError {
	e.Cause = cause
	return e
}

// AddExtra 添加额外信息
func (e *SentinelError) AddExtra(key, value string) *SentinelError {
	if e.Extra == nil {
		e.Extra = make(map[string]string)
	}
	e.Extra[key] = value
	return e
}

// IsFatal 是否是致命错误
func (e *SentinelError) IsFatal() bool {
	return e.Level == LevelFatal
}

// UserMessage 返回面向用户的错误消息
func (e *SentinelError) UserMessage() string {
	var sb strings.Builder

	sb.WriteString(e.Code.Description())
	if e.Message != "" && e.Message != e.Code.Description() {
		sb.WriteString("：")
		sb.WriteString(e.Message)
	}
	if s := e.suggestion(); s != "" {
		sb.WriteString("\n建议：")
		sb.WriteString(s)
	}

	return sb.String()
}

func (e *SentinelError) suggestion() string {
	switch e.Code {
	case ErrInputUnreadable:
		return "请检查文件路径和读取权限"
	case ErrInputMediaType:
		return "仅支持 PDF 文件 (application/pdf)"
	case ErrInputTooLarge:
		return "请调整配置中的 scan.max_file_size"
	case ErrLookupNotConfigured:
		return "请配置 reputation.api_key 或开启 scan.simulate_reputation"
	case ErrRenderTool:
		return "请安装 poppler-utils (pdftoppm) 或配置 sanitizer.pdftoppm_path"
	case ErrRenderBusy:
		return "同一文档的净化任务正在执行，请稍后重试"
	case ErrConfigInvalid:
		return "quarantine_threshold 取值范围为 0-100"
	default:
		return ""
	}
}

// ============================================================
// 便捷构造函数
// ============================================================

// InputError 输入读取错误 (致命)
func InputError(filePath string, cause error) *SentinelError {
	return New(ErrInputUnreadable, "读取输入失败").
		WithFile(filePath).
		WithCause(cause).
		WithLevel(LevelFatal)
}

// MediaTypeError 文件类型不受支持
func MediaTypeError(filePath, declared string) *SentinelError {
	return New(ErrInputMediaType, fmt.Sprintf("unsupported media type %q", declared)).
		WithFile(filePath).
		WithLevel(LevelFatal)
}

// TooLargeError 文件超出上限
func TooLargeError(filePath string, size, maxSize int64) *SentinelError {
	return New(ErrInputTooLarge, fmt.Sprintf("size %d exceeds limit %d", size, maxSize)).
		WithFile(filePath).
		WithLevel(LevelFatal).
		AddExtra("size", fmt.Sprintf("%d", size)).
		AddExtra("max_size", fmt.Sprintf("%d", maxSize))
}

// LookupError 信誉查询错误
func LookupError(code ErrorCode, cause error) *SentinelError {
	return New(code, code.Description()).
		WithComponent("reputation").
		WithCause(cause).
		WithLevel(LevelWarning)
}

// RenderError 渲染错误，page 为 0 表示与具体页面无关
func RenderError(code ErrorCode, page int, cause error) *SentinelError {
	msg := code.Description()
	if page > 0 {
		msg = fmt.Sprintf("%s (page %d)", msg, page)
	}
	err := New(code, msg).
		WithComponent("sanitizer").
		WithCause(cause).
		WithLevel(LevelError)
	if page > 0 {
		err.AddExtra("page", fmt.Sprintf("%d", page))
	}
	return err
}

// AdvisoryError 辅助分析错误
func AdvisoryError(code ErrorCode, cause error) *SentinelError {
	return New(code, code.Description()).
		WithComponent("advisory").
		WithCause(cause).
		WithLevel(LevelWarning)
}

// ConfigError 配置错误
func ConfigError(message string, cause error) *SentinelError {
	return New(ErrConfigInvalid, message).
		WithComponent("config").
		WithCause(cause)
}

// ============================================================
// 错误判断辅助函数
// ============================================================

// As 提取 SentinelError
func As(err error) (*SentinelError, bool) {
	var se *SentinelError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// GetErrorCode 获取错误代码
func GetErrorCode(err error) ErrorCode {
	if se, ok := As(err); ok {
		return se.Code
	}
	return ErrUnknown
}

func inRange(err error, lo, hi ErrorCode) bool {
	code := GetErrorCode(err)
	return code >= lo && code < hi
}

// IsInputError 是否是输入错误
func IsInputError(err error) bool { return inRange(err, 2000, 3000) }

// IsLookupError 是否是信誉查询错误
func IsLookupError(err error) bool { return inRange(err, 3000, 4000) }

// IsRenderError 是否是渲染错误
func IsRenderError(err error) bool { return inRange(err, 4000, 5000) }

// IsAdvisoryError 是否是辅助分析错误
func IsAdvisoryError(err error) bool { return inRange(err, 5000, 6000) }

// IsConfigError 是否是配置错误
func IsConfigError(err error) bool { return inRange(err, 6000, 7000) }

// Wrap 包装标准错误
func Wrap(err error, code ErrorCode, message string) *SentinelError {
	if err == nil {
		return nil
	}
	if se, ok := As(err); ok {
		if message != "" {
			se.Message = message + ": " + se.Message
		}
		return se
	}
	return New(code, message).WithCause(err)
}
