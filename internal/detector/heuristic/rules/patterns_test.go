package rules

import (
	"regexp"
	"testing"
)

func TestPatterns_Examples(t *testing.T) {
	for _, rule := range Patterns {
		for _, ex := range rule.Examples {
			if !rule.Match(ex) {
				t.Errorf("%s: example %q not matched", rule.Category, ex)
			}
		}
	}
}

func TestActiveContent_Obfuscation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"literal JS", "/JS (x)", true},
		{"lower case", "/javascript", true},
		{"hex char", "/J#61vaScript", true},
		{"hex upper digits", "/J#61v#41Script", true},
		{"fully hex JS", "/#4A#53", true},
		{"hex slash", "#2fJS", true},
		{"bare legacy", "#4a#53", true},
		{"unrelated name", "/JBIG2Decode", false},
		{"plain text", "just some words", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActiveContentRule.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestActiveContent_OneMatchPerMarker(t *testing.T) {
	// 字面量与混淆写法同属一条规则，计数不重复
	got := ActiveContentRule.FindAllIndex("/JavaScript /#4a#53 /J#61vaScript")
	if len(got) != 3 {
		t.Errorf("matches = %d, want 3", len(got))
	}
}

func TestDoubleEncoding(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/Filter [/FlateDecode /FlateDecode]", true},
		{"/Filter[/ASCIIHexDecode/LZWDecode/FlateDecode]", true},
		{"/Filter [ /AHx /Fl ]", true},
		{"/Filter [/FlateDecode]", false},
		{"/Filter /FlateDecode", false},
	}
	for _, tt := range tests {
		if got := DoubleEncodingRule.Match(tt.input); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestObfuscatedName_Compiles(t *testing.T) {
	re := regexp.MustCompile(`(?i)` + ObfuscatedName("Launch"))
	if !re.MatchString("/L#61#75nch") {
		t.Error("expected multi-escape Launch to match")
	}
}
