package heuristic

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"pdfSentinel/internal/model"
)

const cleanPDF = "%PDF-1.7\n1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

const maliciousPDF = "%PDF-1.7\n" +
	"1 0 obj\n<< /Type /Catalog /OpenAction << /S /JavaScript /JS (app.alert(1)) >> >>\nendobj\n" +
	"2 0 obj\n<< /AA 5 0 R >>\nendobj\n" +
	"3 0 obj\n<< /AA 6 0 R >>\nendobj\n" +
	"trailer\n<< /Root 1 0 R >>\n%%EOF\n"

func findingsByCategory(findings []model.HeuristicFinding) map[model.Category]model.HeuristicFinding {
	m := make(map[model.Category]model.HeuristicFinding, len(findings))
	for _, f := range findings {
		m[f.Category] = f
	}
	return m
}

func TestScan_CleanDocument(t *testing.T) {
	res, err := NewScanner(Config{}).Scan(context.Background(), []byte(cleanPDF))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(res.Findings) != 0 {
		t.Errorf("clean document produced findings: %+v", res.Findings)
	}
}

func TestScan_MaliciousDocument(t *testing.T) {
	res, err := NewScanner(Config{}).Scan(context.Background(), []byte(maliciousPDF))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	got := findingsByCategory(res.Findings)

	autoRun, ok := got[model.CategoryAutoRunPayload]
	if !ok {
		t.Fatal("missing Auto-Run Payload finding")
	}
	if autoRun.OccurrenceCount != 3 || autoRun.Severity != model.SeverityCritical {
		t.Errorf("auto-run = %+v, want 3 critical occurrences", autoRun)
	}
	if len(autoRun.Fragments) != 1 {
		t.Errorf("auto-run fragments = %d, want 1 (dictionary after /OpenAction)", len(autoRun.Fragments))
	}

	active, ok := got[model.CategoryActiveContent]
	if !ok {
		t.Fatal("missing Active Content finding")
	}
	if active.OccurrenceCount != 2 || active.Severity != model.SeverityHigh {
		t.Errorf("active content = %+v", active)
	}
	if len(active.Fragments) != 1 || string(active.Fragments[0]) != "app.alert(1)" {
		t.Errorf("active content fragments = %q", active.Fragments)
	}

	if _, ok := got[model.CategoryMalformedStructure]; ok {
		t.Errorf("document ends with %%EOF, should not be malformed")
	}
}

func TestScan_ObfuscatedMarkerSameRule(t *testing.T) {
	literal, _ := NewScanner(Config{}).Scan(context.Background(), []byte("/JavaScript\n%%EOF"))
	hidden, _ := NewScanner(Config{}).Scan(context.Background(), []byte("/J#61v#61Script\n%%EOF"))

	if len(literal.Findings) != 1 || len(hidden.Findings) != 1 {
		t.Fatalf("findings: literal=%+v hidden=%+v", literal.Findings, hidden.Findings)
	}
	if literal.Findings[0].Category != hidden.Findings[0].Category {
		t.Errorf("obfuscated marker classified as %s, literal as %s",
			hidden.Findings[0].Category, literal.Findings[0].Category)
	}
}

func TestScan_MalformedStructure(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		malformed bool
	}{
		{"empty input", nil, true},
		{"random bytes", []byte{0x00, 0x01, 0xff, 0xfe}, true},
		{"truncated pdf", []byte("%PDF-1.4\n1 0 obj\n<<"), true},
		{"eof present", []byte(cleanPDF), false},
		{"hex spelled eof", []byte("%PDF-1.4\n...\n2525454F46"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewScanner(Config{}).Scan(context.Background(), tt.data)
			if err != nil {
				t.Fatalf("Scan must not fail on content: %v", err)
			}
			f, ok := findingsByCategory(res.Findings)[model.CategoryMalformedStructure]
			if ok != tt.malformed {
				t.Fatalf("malformed = %v, want %v", ok, tt.malformed)
			}
			if ok && (f.OccurrenceCount != 1 || f.Severity != model.SeverityMedium) {
				t.Errorf("malformed finding = %+v", f)
			}
		})
	}
}

func TestScan_CoverageWindows(t *testing.T) {
	data := bytes.Repeat([]byte(" "), 1_000_000)
	copy(data[5000:], "/URI")       // 不在任何窗口内
	copy(data[500_000:], "/Launch") // 中部窗口
	copy(data[len(data)-6:], "%%EOF\n")

	res, err := NewScanner(Config{WindowSize: 1000}).Scan(context.Background(), data)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(res.Segments) != 3 {
		t.Errorf("segments = %d, want 3", len(res.Segments))
	}

	got := findingsByCategory(res.Findings)
	if _, ok := got[model.CategoryExternalExecution]; !ok {
		t.Error("marker at midpoint should be caught by heart window")
	}
	if _, ok := got[model.CategoryOutboundLink]; ok {
		t.Error("marker outside sampled windows should not be reported")
	}
}

func TestScan_Idempotent(t *testing.T) {
	s := NewScanner(Config{})
	a, _ := s.Scan(context.Background(), []byte(maliciousPDF))
	b, _ := s.Scan(context.Background(), []byte(maliciousPDF))
	if !reflect.DeepEqual(a, b) {
		t.Error("scanning the same bytes twice produced different results")
	}
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewScanner(Config{}).Scan(ctx, []byte(cleanPDF)); err == nil {
		t.Error("expected error for cancelled context")
	}
}
