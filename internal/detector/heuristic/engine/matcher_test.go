package engine

import (
	"testing"

	"pdfSentinel/internal/detector/heuristic/rules"
	"pdfSentinel/internal/detector/heuristic/window"
)

func TestExtractFragment(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"literal", ` (app.alert(1))`, "app.alert(1)", true},
		{"escaped paren", `(a\)b)`, `a\)b`, true},
		{"nested dict", ` << /S /JS /JS (x) /Next << /A 1 >> >>`, ` /S /JS /JS (x) /Next << /A 1 >> `, true},
		{"hex string", ` <6170702e616c657274>`, "6170702e616c657274", true},
		{"indirect reference", ` 12 0 R`, "", false},
		{"unterminated", ` (never closed`, "", false},
		{"empty", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFragment(tt.text, 0, len(tt.text), 256)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractFragment() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractFragment_Bounds(t *testing.T) {
	text := ` (0123456789)`

	// 前向窗口不足以覆盖闭合括号
	if _, ok := ExtractFragment(text, 0, len(text), 5); ok {
		t.Error("look-ahead bound not honored")
	}
	// limit (窗口终点) 截断
	if _, ok := ExtractFragment(text, 0, 8, 256); ok {
		t.Error("segment limit not honored")
	}
}

func TestFindMatches_DropsBridgingMatches(t *testing.T) {
	sample := &window.Sample{
		Text: "xx/JS yy/JS",
		Segments: []window.Segment{
			{Label: window.Head, Start: 0, End: 4},
			{Label: window.Tail, Start: 4, End: 11},
		},
	}
	matches := FindMatches(rules.ActiveContentRule, sample)
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1 (bridging match dropped)", len(matches))
	}
	if matches[0].Segment != 1 {
		t.Errorf("match attributed to segment %d, want 1", matches[0].Segment)
	}
}

func TestEvaluate_FragmentsOnlyForScriptRules(t *testing.T) {
	sample := window.Take([]byte(`/URI (http://x) /JS (run())`), window.Options{Size: 1024})

	uri := Evaluate(rules.URIRule, sample, 256, 16)
	if uri == nil || uri.OccurrenceCount != 1 {
		t.Fatalf("uri finding = %+v", uri)
	}
	if len(uri.Fragments) != 0 {
		t.Errorf("outbound link should not carry fragments")
	}

	js := Evaluate(rules.ActiveContentRule, sample, 256, 16)
	if js == nil || len(js.Fragments) != 1 || string(js.Fragments[0]) != "run()" {
		t.Errorf("js finding = %+v", js)
	}

	if f := Evaluate(rules.LaunchRule, sample, 256, 16); f != nil {
		t.Errorf("expected no launch finding, got %+v", f)
	}
}

func TestEvaluate_MaxFragments(t *testing.T) {
	sample := window.Take([]byte(`/JS (a) /JS (b) /JS (c)`), window.Options{Size: 1024})
	f := Evaluate(rules.ActiveContentRule, sample, 256, 2)
	if f.OccurrenceCount != 3 {
		t.Errorf("count = %d, want 3", f.OccurrenceCount)
	}
	if len(f.Fragments) != 2 {
		t.Errorf("fragments = %d, want 2", len(f.Fragments))
	}
}
