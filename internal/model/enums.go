// Package model 扫描流水线共享的数据类型
package model

import (
	"fmt"
	"strings"
)

// ==========================================
// 启发式发现分类
// ==========================================

// Category 发现类别
type Category string

const (
	CategoryActiveContent      Category = "Active Content"
	CategoryAutoRunPayload     Category = "Auto-Run Payload"
	CategoryExternalExecution  Category = "External Execution"
	CategoryDroppedPayload     Category = "Dropped Payload"
	CategoryMediaExploit       Category = "Media Exploit"
	CategoryOutboundLink       Category = "Outbound Link"
	CategoryDoubleEncoding     Category = "Double Encoding"
	CategoryMalformedStructure Category = "Malformed Structure"
)

// ScriptBearing 该类别是否需要提取脚本片段
func (c Category) ScriptBearing() bool {
	return c == CategoryActiveContent || c == CategoryAutoRunPayload
}

// ==========================================
// 严重级别 (有序)
// ==========================================

// Severity 严重级别，数值越大越严重
type Severity int

const (
	SeverityLow      Severity = 1
	SeverityMedium   Severity = 2
	SeverityHigh     Severity = 3
	SeverityCritical Severity = 4
)

var severityNames = map[Severity]string{
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText JSON 中以小写名称输出
func (s Severity) MarshalText() ([]byte, error) {
	if _, ok := severityNames[s]; !ok {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText 解析小写名称
func (s *Severity) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for k, v := range severityNames {
		if v == name {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("invalid severity %q", text)
}

// ==========================================
// 风险分类
// ==========================================

// RiskLevel 风险分类
type RiskLevel string

const (
	RiskSafe       RiskLevel = "SAFE"
	RiskSuspicious RiskLevel = "SUSPICIOUS"
	RiskMalicious  RiskLevel = "MALICIOUS"
)

// MediaTypePDF 唯一接受的输入类型
const MediaTypePDF = "application/pdf"
