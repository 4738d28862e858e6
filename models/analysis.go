package models

import "strings"

// DegradedSummary 는 분석 실패 시 Summary 에 들어가는 표식이다.
const DegradedSummary = "analysis failed"

// AnalysisResult 는 기사 분석 결과이다. 네 개의 목록은 집합처럼 다룬다.
type AnalysisResult struct {
	HumorPoints         []string `json:"humor_points"`
	CriticismPoints     []string `json:"criticism_points"`
	CoreViewpoints      []string `json:"core_viewpoints"`
	ControversialPoints []string `json:"controversial_points"`
	Summary             string   `json:"summary"`
}

// DegradedAnalysis returns the value used when analysis could not be produced.
func DegradedAnalysis() AnalysisResult {
	return AnalysisResult{
		HumorPoints:         []string{},
		CriticismPoints:     []string{},
		CoreViewpoints:      []string{},
		ControversialPoints: []string{},
		Summary:             DegradedSummary,
	}
}

// IsEmpty reports whether every point list is empty.
func (a AnalysisResult) IsEmpty() bool {
	return len(a.HumorPoints) == 0 &&
		len(a.CriticismPoints) == 0 &&
		len(a.CoreViewpoints) == 0 &&
		len(a.ControversialPoints) == 0
}

// IsDegraded reports whether a is the degraded fallback.
func (a AnalysisResult) IsDegraded() bool {
	return a.IsEmpty() && a.Summary == DegradedSummary
}

// Normalize 는 각 목록에서 공백 항목과 중복을 제거한다. 순서는 처음 등장 순서를 따른다.
func (a AnalysisResult) Normalize() AnalysisResult {
	return AnalysisResult{
		HumorPoints:         uniqueNonEmpty(a.HumorPoints),
		CriticismPoints:     uniqueNonEmpty(a.CriticismPoints),
		CoreViewpoints:      uniqueNonEmpty(a.CoreViewpoints),
		ControversialPoints: uniqueNonEmpty(a.ControversialPoints),
		Summary:             strings.TrimSpace(a.Summary),
	}
}

func uniqueNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
