package model

import "time"

// Fragment 从脚本类标记后提取的字面量内容
type Fragment []byte

// MarshalText JSON 中以字符串输出
func (f Fragment) MarshalText() ([]byte, error) {
	return []byte(f), nil
}

// UnmarshalText 从字符串还原
func (f *Fragment) UnmarshalText(text []byte) error {
	*f = append((*f)[:0], text...)
	return nil
}

// HeuristicFinding 单个类别的检测结果
type HeuristicFinding struct {
	Category        Category   `json:"category"`
	OccurrenceCount int        `json:"occurrence_count"`
	Severity        Severity   `json:"severity"`
	Description     string     `json:"description"`
	Fragments       []Fragment `json:"extracted_fragments"`
}

// ReputationVerdict 第三方信誉查询结论
// 成功结论与 FailureReason 二者只有一个有意义
type ReputationVerdict struct {
	Queried       bool   `json:"queried"`
	Simulated     bool   `json:"simulated,omitempty"`
	Positives     int    `json:"positive_detections"`
	Total         int    `json:"total_engines"`
	ReferenceLink string `json:"reference_link,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	// Note 成功但需要提示的信息 (e.g., 数据库中不存在)
	Note string `json:"note,omitempty"`
}

// Narrative 辅助分析文本，不参与评分
type Narrative struct {
	Available bool   `json:"available"`
	Text      string `json:"text"`
}

// RiskAssessment 一次扫描的最终评估
type RiskAssessment struct {
	ID             string             `json:"id"`
	FileName       string             `json:"file_name"`
	FileSize       int64              `json:"file_size"`
	Fingerprint    Fingerprint        `json:"fingerprint"`
	SM3            string             `json:"sm3,omitempty"`
	DetectedType   string             `json:"detected_type,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	Score          int                `json:"numeric_score"`
	Classification RiskLevel          `json:"classification"`
	Findings       []HeuristicFinding `json:"findings"`
	Reputation     ReputationVerdict  `json:"reputation"`
	Locked         bool               `json:"locked"`
	Threshold      int                `json:"quarantine_threshold"`
	Narrative      *Narrative         `json:"narrative,omitempty"`
}

// WithNarrative 返回附带辅助分析的副本
// 评分、分类和锁定状态保持不变
func (a RiskAssessment) WithNarrative(n Narrative) RiskAssessment {
	a.Narrative = &n
	return a
}

// HistoryEntry 生成会话历史条目
func (a RiskAssessment) HistoryEntry() ScanHistoryEntry {
	return ScanHistoryEntry{
		ID:             a.ID,
		Name:           a.FileName,
		Classification: a.Classification,
		Score:          a.Score,
		Timestamp:      a.Timestamp,
	}
}

// ScanHistoryEntry 历史评估的有损投影
type ScanHistoryEntry struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Classification RiskLevel `json:"classification"`
	Score          int       `json:"score"`
	Timestamp      time.Time `json:"timestamp"`
}
