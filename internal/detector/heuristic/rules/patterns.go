// Package rules 启发式规则表
package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"pdfSentinel/internal/model"
)

// Rule 单条检测规则
// 同一类别的字面量与混淆写法放在同一个正则中，保证每个类别最多一个发现
type Rule struct {
	Category    model.Category
	Severity    model.Severity
	Regex       *regexp.Regexp
	Description string
	Examples    []string
}

// Match 检查文本是否命中
func (r *Rule) Match(text string) bool {
	return r.Regex.MatchString(text)
}

// FindAllIndex 查找所有不重叠的命中位置
func (r *Rule) FindAllIndex(text string) [][]int {
	return r.Regex.FindAllStringIndex(text, -1)
}

// ============================================================
// 名称混淆
// PDF 名称对象允许用 #xx 写任意字符，/JavaScript 可以写成 /J#61vaScript
// ============================================================

// ObfuscatedName 生成同时匹配字面量与 #xx 转义写法的名称模式
// 返回的片段需要放在 (?i) 正则中使用
func ObfuscatedName(name string) string {
	var sb strings.Builder
	sb.WriteString(`(?:/|#2f)`)
	for _, r := range name {
		sb.WriteString(obfuscatedRune(r))
	}
	return sb.String()
}

func obfuscatedRune(r rune) string {
	alts := []string{regexp.QuoteMeta(string(r))}
	lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
	alts = append(alts, fmt.Sprintf("#%02x", upper))
	if lower != upper {
		alts = append(alts, fmt.Sprintf("#%02x", lower))
	}
	return "(?:" + strings.Join(alts, "|") + ")"
}

func names(list ...string) string {
	parts := make([]string, 0, len(list))
	for _, n := range list {
		parts = append(parts, ObfuscatedName(n))
	}
	return strings.Join(parts, "|")
}

// ============================================================
// 规则定义
// ============================================================

// filterNames 标准压缩/编码过滤器 (含内联图像缩写)
var filterNames = `(?:FlateDecode|LZWDecode|ASCIIHexDecode|ASCII85Decode|RunLengthDecode|` +
	`CCITTFaxDecode|DCTDecode|JBIG2Decode|JPXDecode|Crypt|Fl|LZW|AHx|A85|RL|CCF|DCT)`

var (
	// ActiveContentRule 脚本标记
	// #4a#53 为早期样本中常见的无斜杠 JS 混淆写法
	ActiveContentRule = &Rule{
		Category:    model.CategoryActiveContent,
		Severity:    model.SeverityHigh,
		Regex:       regexp.MustCompile(`(?i)` + names("JavaScript", "JS") + `|#4a#53`),
		Description: "Embedded scripts found. High execution risk.",
		Examples:    []string{"/JS", "/JavaScript", "/J#61vaScript", "#4a#53"},
	}

	// AutoRunRule 打开即执行
	AutoRunRule = &Rule{
		Category:    model.CategoryAutoRunPayload,
		Severity:    model.SeverityCritical,
		Regex:       regexp.MustCompile(`(?i)` + names("OpenAction", "AA")),
		Description: "Auto-executes actions on open.",
		Examples:    []string{"/OpenAction", "/AA", "/Open#41ction"},
	}

	// LaunchRule 启动外部程序
	LaunchRule = &Rule{
		Category:    model.CategoryExternalExecution,
		Severity:    model.SeverityCritical,
		Regex:       regexp.MustCompile(`(?i)` + names("Launch")),
		Description: "Attempts to launch OS commands or binaries.",
		Examples:    []string{"/Launch", "/L#61unch"},
	}

	// EmbeddedFileRule 内嵌文件
	EmbeddedFileRule = &Rule{
		Category:    model.CategoryDroppedPayload,
		Severity:    model.SeverityMedium,
		Regex:       regexp.MustCompile(`(?i)` + names("EmbeddedFile")),
		Description: "Contains embedded binary. Potential dropper.",
		Examples:    []string{"/EmbeddedFile", "/EmbeddedFiles"},
	}

	// RichMediaRule 旧式富媒体
	RichMediaRule = &Rule{
		Category:    model.CategoryMediaExploit,
		Severity:    model.SeverityMedium,
		Regex:       regexp.MustCompile(`(?i)` + names("RichMedia")),
		Description: "Legacy media content detected.",
		Examples:    []string{"/RichMedia", "/RichMediaSettings"},
	}

	// URIRule 外部链接
	URIRule = &Rule{
		Category:    model.CategoryOutboundLink,
		Severity:    model.SeverityLow,
		Regex:       regexp.MustCompile(`(?i)` + names("URI")),
		Description: "External links found. Phishing risk.",
		Examples:    []string{"/URI", "/#55RI"},
	}

	// DoubleEncodingRule 过滤器数组中叠加了两个以上过滤器
	DoubleEncodingRule = &Rule{
		Category: model.CategoryDoubleEncoding,
		Severity: model.SeverityHigh,
		Regex: regexp.MustCompile(`(?i)/Filter\s*\[\s*` +
			`(?:/` + filterNames + `\s*){2,}` +
			`\]`),
		Description: "Stacked compression filters. Common evasion technique.",
		Examples:    []string{"/Filter [/FlateDecode /FlateDecode]", "/Filter[/AHx/Fl]"},
	}
)

// Patterns 有序规则表 (结构完整性检查不在此表中)
var Patterns = []*Rule{
	ActiveContentRule,
	AutoRunRule,
	LaunchRule,
	EmbeddedFileRule,
	RichMediaRule,
	URIRule,
	DoubleEncodingRule,
}

// ============================================================
// 文件结束标记
// ============================================================

const (
	// EOFMarker PDF 文件结束标记
	EOFMarker = "%%EOF"
	// EOFMarkerHex 十六进制写法 (小写)
	EOFMarkerHex = "2525454f46"
	// TrailerProbeSize 原始尾部字节检查范围
	TrailerProbeSize = 1024

	MalformedDescription = "End-of-file marker missing. Possible truncation or appended payload."
)
