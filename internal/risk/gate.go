package risk

import "pdfSentinel/internal/model"

// Decide 隔离决策：score >= threshold 即锁定
// 只产生信号，是否允许查看由展示层在用户显式确认后决定
func Decide(score, threshold int) bool {
	return score >= threshold
}

// Assess 组合评分与隔离决策
// ID、文件信息、时间戳由调用方填写
func Assess(findings []model.HeuristicFinding, rep model.ReputationVerdict, cfg model.ScanConfiguration) model.RiskAssessment {
	r := Score(findings, rep)
	if findings == nil {
		findings = []model.HeuristicFinding{}
	}
	return model.RiskAssessment{
		Score:          r.Score,
		Classification: r.Classification,
		Findings:       findings,
		Reputation:     rep,
		Locked:         Decide(r.Score, cfg.QuarantineThreshold),
		Threshold:      cfg.QuarantineThreshold,
	}
}
