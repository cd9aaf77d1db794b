package model

import "time"

// ==========================================
// 评估归档 (加密落盘)
// ==========================================

// ArchivedFinding 归档中的发现摘要
// 不包含提取的片段，片段可能携带可执行脚本
type ArchivedFinding struct {
	Category        Category `json:"category"`
	Severity        Severity `json:"severity"`
	OccurrenceCount int      `json:"occurrence_count"`
}

// ArchivedAssessment 归档记录
type ArchivedAssessment struct {
	ID             string            `json:"id"`
	FileName       string            `json:"file_name"`
	FileSize       int64             `json:"file_size"`
	Fingerprint    Fingerprint       `json:"fingerprint"`
	SM3            string            `json:"sm3,omitempty"`
	Score          int               `json:"score"`
	Classification RiskLevel         `json:"classification"`
	Locked         bool              `json:"locked"`
	Positives      int               `json:"positives"`
	Total          int               `json:"total"`
	Findings       []ArchivedFinding `json:"findings"`
	ScannedAt      time.Time         `json:"scanned_at"`
}

// Archive 生成归档投影
func (a RiskAssessment) Archive() ArchivedAssessment {
	findings := make([]ArchivedFinding, 0, len(a.Findings))
	for _, f := range a.Findings {
		findings = append(findings, ArchivedFinding{
			Category:        f.Category,
			Severity:        f.Severity,
			OccurrenceCount: f.OccurrenceCount,
		})
	}
	return ArchivedAssessment{
		ID:             a.ID,
		FileName:       a.FileName,
		FileSize:       a.FileSize,
		Fingerprint:    a.Fingerprint,
		SM3:            a.SM3,
		Score:          a.Score,
		Classification: a.Classification,
		Locked:         a.Locked,
		Positives:      a.Reputation.Positives,
		Total:          a.Reputation.Total,
		Findings:       findings,
		ScannedAt:      a.Timestamp,
	}
}
