package risk

import (
	"testing"

	"pdfSentinel/internal/model"
)

func TestDecide_Boundaries(t *testing.T) {
	for threshold := 0; threshold <= 100; threshold++ {
		for score := 0; score <= 100; score++ {
			if got, want := Decide(score, threshold), score >= threshold; got != want {
				t.Fatalf("Decide(%d, %d) = %v, want %v", score, threshold, got, want)
			}
		}
	}
}

func TestAssess(t *testing.T) {
	findings := []model.HeuristicFinding{finding(model.CategoryExternalExecution, model.SeverityCritical, 1)}
	rep := model.ReputationVerdict{Queried: true, Positives: 0, Total: 60}

	tests := []struct {
		threshold  int
		wantLocked bool
	}{
		{55, false},
		{45, true}, // 边界相等
		{0, true},
		{100, false},
	}
	for _, tt := range tests {
		a := Assess(findings, rep, model.ScanConfiguration{QuarantineThreshold: tt.threshold})
		if a.Score != 45 {
			t.Fatalf("score = %d, want 45", a.Score)
		}
		if a.Locked != tt.wantLocked {
			t.Errorf("threshold %d: locked = %v, want %v", tt.threshold, a.Locked, tt.wantLocked)
		}
		if a.Classification != model.RiskSuspicious {
			t.Errorf("classification = %s", a.Classification)
		}
	}
}

func TestAssess_NilFindingsEncodedAsEmpty(t *testing.T) {
	a := Assess(nil, model.ReputationVerdict{}, model.ScanConfiguration{QuarantineThreshold: 55})
	if a.Findings == nil {
		t.Error("findings should be an empty slice")
	}
	if a.Score != 0 || a.Classification != model.RiskSafe || a.Locked {
		t.Errorf("unexpected assessment %+v", a)
	}
}
