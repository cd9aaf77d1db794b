// Package risk 风险评分与隔离决策
// 全部为纯函数：相同输入总是得到相同输出
package risk

import "pdfSentinel/internal/model"

// ============================================================
// 评分常量
// ============================================================

const (
	// ReputationBase 信誉服务存在检出时的基础分
	ReputationBase = 60
	// ReputationPerPositive 每个检出引擎追加的分数
	ReputationPerPositive = 5

	MaxScore = 100
	MinScore = 0

	// MaliciousAbove score 大于该值判定为 MALICIOUS
	MaliciousAbove = 60
	// SuspiciousAbove score 大于该值判定为 SUSPICIOUS
	SuspiciousAbove = 25
)

// severityWeights 每个发现按严重级别计一次分
// 出现次数不参与计算
var severityWeights = map[model.Severity]int{
	model.SeverityCritical: 45,
	model.SeverityHigh:     25,
	model.SeverityMedium:   10,
	model.SeverityLow:      2,
}

// Weight 返回严重级别对应的分值
func Weight(s model.Severity) int {
	return severityWeights[s]
}

// Result 评分结果
type Result struct {
	Score          int
	Classification model.RiskLevel
}

// Score 计算风险分
// 1. 信誉检出 > 0 时加 60 + 5 × 检出数
// 2. 每个发现加一次严重级别分值
// 3. 截断到 [0,100]
func Score(findings []model.HeuristicFinding, rep model.ReputationVerdict) Result {
	total := 0

	if rep.Positives > 0 {
		total += ReputationBase + ReputationPerPositive*rep.Positives
	}

	for _, f := range findings {
		total += Weight(f.Severity)
	}

	total = min(max(total, MinScore), MaxScore)

	return Result{
		Score:          total,
		Classification: Classify(total),
	}
}

// Classify 仅由分数决定分类，先判断 MALICIOUS
func Classify(score int) model.RiskLevel {
	switch {
	case score > MaliciousAbove:
		return model.RiskMalicious
	case score > SuspiciousAbove:
		return model.RiskSuspicious
	default:
		return model.RiskSafe
	}
}
