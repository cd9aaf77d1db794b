package format

import (
	"encoding/hex"
	"testing"

	"pdfSentinel/internal/model"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		hexStr string // 模拟文件头的 Hex 字符串
		want   string
	}{
		// 25 50 44 46 -> PDF
		{"PDF_Header", "255044462d312e370a", model.MediaTypePDF},

		// 89 50 4E 47 -> PNG
		{"PNG_Header", "89504e470d0a1a0a0000000d49484452", "image/png"},

		// 垃圾前缀 + %PDF-
		{"PDF_LeadingGarbage", "6a756e6b0a255044462d312e34", model.MediaTypePDF},

		// 纯文本
		{"TXT_ASCII", "48656c6c6f20576f726c64", OctetStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, _ := hex.DecodeString(tt.hexStr)
			if got := Sniff(header); got != tt.want {
				t.Errorf("Sniff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasLeadingGarbage(t *testing.T) {
	if HasLeadingGarbage([]byte("%PDF-1.7")) {
		t.Error("clean header reported as garbage")
	}
	if !HasLeadingGarbage([]byte("junk%PDF-1.7")) {
		t.Error("leading junk not detected")
	}
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"application/pdf", true},
		{"Application/PDF", true},
		{"application/pdf; charset=binary", true},
		{"text/plain", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPDF(tt.in); got != tt.want {
			t.Errorf("IsPDF(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"invoice.pdf", model.MediaTypePDF},
		{"/tmp/SCAN.PDF", model.MediaTypePDF},
		{"photo.png", "image/png"},
		{"README", ""},
		{"archive.unknownext", ""},
	}
	for _, tt := range tests {
		if got := FromExtension(tt.name); got != tt.want {
			t.Errorf("FromExtension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
