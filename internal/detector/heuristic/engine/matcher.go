// Package engine 规则匹配与脚本片段提取
package engine

import (
	"pdfSentinel/internal/detector/heuristic/rules"
	"pdfSentinel/internal/detector/heuristic/window"
	"pdfSentinel/internal/model"
)

// DefaultLookAhead 片段提取默认前向搜索上限
const DefaultLookAhead = 2048

// Match 单次命中
type Match struct {
	Start, End int // 在采样文本中的位置
	Segment    int // 所属窗口
}

// FindMatches 返回规则在采样文本中的全部不重叠命中
// 跨越窗口边界的命中被丢弃
func FindMatches(rule *rules.Rule, sample *window.Sample) []Match {
	idx := rule.FindAllIndex(sample.Text)
	if len(idx) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(idx))
	for _, loc := range idx {
		seg := sample.Locate(loc[0], loc[1])
		if seg < 0 {
			continue
		}
		matches = append(matches, Match{Start: loc[0], End: loc[1], Segment: seg})
	}
	return matches
}

// Evaluate 对单条规则求值，零命中返回 nil
func Evaluate(rule *rules.Rule, sample *window.Sample, lookAhead, maxFragments int) *model.HeuristicFinding {
	matches := FindMatches(rule, sample)
	if len(matches) == 0 {
		return nil
	}

	finding := &model.HeuristicFinding{
		Category:        rule.Category,
		OccurrenceCount: len(matches),
		Severity:        rule.Severity,
		Description:     rule.Description,
	}

	if rule.Category.ScriptBearing() {
		for _, m := range matches {
			if maxFragments > 0 && len(finding.Fragments) >= maxFragments {
				break
			}
			limit := sample.Segments[m.Segment].End
			if frag, ok := ExtractFragment(sample.Text, m.End, limit, lookAhead); ok {
				finding.Fragments = append(finding.Fragments, model.Fragment(frag))
			}
		}
	}

	return finding
}
