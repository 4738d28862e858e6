package models

import "time"

// Stage 는 파이프라인 상태 머신의 상태이다.
type Stage string

const (
	StageInit        Stage = "init"
	StageFetched     Stage = "fetched"
	StageAnalyzed    Stage = "analyzed"
	StageMined       Stage = "mined"
	StageGenerated   Stage = "generated"
	StageIllustrated Stage = "illustrated"
	StageExported    Stage = "exported"
	StageFailed      Stage = "failed"
)

// PipelineResult 는 한 번의 실행 결과이며 파일로 내보내는 단위이다.
type PipelineResult struct {
	RunID        string               `json:"run_id"`
	Document     *ExtractedDocument   `json:"news_content,omitempty"`
	Analysis     *AnalysisResult      `json:"analysis,omitempty"`
	References   []DiscourseReference `json:"reddit_references"`
	Comments     []GeneratedComment   `json:"generated_comments"`
	Timestamp    time.Time            `json:"timestamp"`
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Stage        Stage                `json:"stage"`
	Degradations []string             `json:"degradations,omitempty"`
}

// Degraded reports whether any stage fell back to a degraded value.
func (r *PipelineResult) Degraded() bool {
	return len(r.Degradations) > 0
}
