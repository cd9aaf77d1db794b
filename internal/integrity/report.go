package integrity

import "pdfSentinel/internal/logger"

// ViolationType 异常类型
type ViolationType string

const (
	TypeFileModified ViolationType = "FILE_MODIFIED" // 内容被篡改 (Hash不匹配)
	TypeFileDeleted  ViolationType = "FILE_DELETED"  // 文件消失
	TypePermChanged  ViolationType = "PERM_CHANGED"  // 变为全局可写
	TypeReadError    ViolationType = "READ_ERROR"    // 无法读取
)

// Violation 一次巡检发现的异常
type Violation struct {
	Type   ViolationType `json:"type"`
	Target string        `json:"target"`
	Detail string        `json:"detail"`
}

// Reporter 上报接口
type Reporter interface {
	Report(v Violation)
}

// LogReporter 写入日志 (默认实现)
type LogReporter struct{}

func (LogReporter) Report(v Violation) {
	logger.Error("[SECURITY ALARM] integrity violation",
		"type", v.Type,
		"target", v.Target,
		"detail", v.Detail,
	)
}
