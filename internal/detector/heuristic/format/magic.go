// Package format 输入媒体类型识别
package format

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"pdfSentinel/internal/model"
)

// HeaderSize 类型识别读取的头部长度
// PDF 阅读器允许 %PDF- 出现在前 1024 字节内
const HeaderSize = 1024

// OctetStream 无法识别时的类型
const OctetStream = "application/octet-stream"

var pdfMagic = []byte("%PDF-")

// Sniff 根据文件头识别媒体类型
func Sniff(head []byte) string {
	if len(head) > HeaderSize {
		head = head[:HeaderSize]
	}

	// 1. 魔数识别
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}

	// 2. 前置垃圾数据后的 PDF 头 (常见的解析器差异利用)
	if bytes.Contains(head, pdfMagic) {
		return model.MediaTypePDF
	}

	return OctetStream
}

// HasLeadingGarbage PDF 头不在偏移 0
func HasLeadingGarbage(head []byte) bool {
	if len(head) > HeaderSize {
		head = head[:HeaderSize]
	}
	idx := bytes.Index(head, pdfMagic)
	return idx > 0
}

// FromExtension 按文件扩展名推断声明类型，未知扩展名返回空串
// 与浏览器上传时依据扩展名填写的 Content-Type 一致
func FromExtension(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return ""
	}
	return filetype.GetType(ext).MIME.Value
}

// IsPDF 判断声明的媒体类型是否为 PDF (忽略参数与大小写)
func IsPDF(declared string) bool {
	if declared == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(declared))
	}
	return mt == model.MediaTypePDF
}
