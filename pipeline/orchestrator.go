package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"news-comment/config"
	"news-comment/models"
	"news-comment/trace"
)

const topicKeywords = 2

// ErrAnalysisDegraded 는 abort_on_degraded_analysis 가 켜져 있을 때 분석 실패나 빈 분석으로 실행을 중단한 경우이다.
var ErrAnalysisDegraded = errors.New("content analysis degraded")

type DocumentFetcher interface {
	Extract(ctx context.Context, rawURL string) (*models.ExtractedDocument, error)
}

type ContentAnalyzer interface {
	Analyze(ctx context.Context, title, body string) models.AnalysisResult
}

type ReferenceMiner interface {
	FindReferences(ctx context.Context, keywords []string, limit int) []models.DiscourseReference
}

type CommentGenerator interface {
	Generate(ctx context.Context, analysis models.AnalysisResult, refs []models.DiscourseReference) []models.GeneratedComment
}

type Illustrator interface {
	Illustrate(ctx context.Context, comment models.GeneratedComment, newsTitle string) (string, bool)
}

// Stages 는 Orchestrator 가 순서대로 호출하는 단계 구현 모음이다.
type Stages struct {
	Fetcher     DocumentFetcher
	Analyzer    ContentAnalyzer
	Miner       ReferenceMiner
	Generator   CommentGenerator
	Illustrator Illustrator
}

// Orchestrator 는 한 URL 에 대해 추출, 분석, 참고 댓글 수집, 댓글 생성, 이미지 생성을 순서대로 실행한다.
type Orchestrator struct {
	stages      Stages
	pipeline    config.PipelineConfig
	outputDir   string
	searchLimit int
	now         func() time.Time
}

func New(stages Stages, cfg *config.AppConfig) *Orchestrator {
	return &Orchestrator{
		stages:      stages,
		pipeline:    cfg.Pipeline,
		outputDir:   cfg.Output.Dir,
		searchLimit: cfg.Reddit.SearchLimit,
		now:         time.Now,
	}
}

// Run 은 파이프라인을 한 번 실행한다. 문서를 가져오지 못하면 Success=false 인 결과를 돌려준다.
// 그 밖의 단계 실패는 Degradations 에 기록되고 실행은 계속된다.
func (o *Orchestrator) Run(ctx context.Context, rawURL string) *models.PipelineResult {
	// API 요청처럼 이미 실행 ID 가 있으면 그대로 이어 쓴다.
	runID := trace.RunIDFromContext(ctx)
	if runID == "" {
		runID = trace.GenerateID()
		ctx = trace.WithRun(ctx, runID, 0)
	}

	result := &models.PipelineResult{
		RunID:      runID,
		References: []models.DiscourseReference{},
		Comments:   []models.GeneratedComment{},
		Stage:      models.StageInit,
	}
	logStage(result, "pipeline started", config.Fields{"url": rawURL})

	// 1. 기사 추출
	doc, err := o.stages.Fetcher.Extract(ctx, rawURL)
	if err != nil {
		return o.fail(result, models.StageFetched, err)
	}
	result.Document = doc
	result.Stage = models.StageFetched
	logStage(result, "document fetched", config.Fields{"title": doc.Title, "images": len(doc.ImageURLs)})

	// 2. 기사 분석
	analysis := o.stages.Analyzer.Analyze(ctx, doc.Title, doc.Body)
	result.Analysis = &analysis
	// 요점이 하나도 없는 분석은 생성 단계에 쓸모가 없으므로 대체 결과와 같이 취급한다.
	if analysis.IsEmpty() {
		if o.pipeline.AbortOnDegradedAnalysis {
			return o.fail(result, models.StageAnalyzed, ErrAnalysisDegraded)
		}
		o.degrade(result, "analysis")
	}
	result.Stage = models.StageAnalyzed
	logStage(result, "content analyzed", config.Fields{"summary": analysis.Summary})

	// 3. 참고 댓글 수집
	keywords := Keywords(doc.Title, analysis, topicKeywords)
	refs := o.stages.Miner.FindReferences(ctx, keywords, o.searchLimit)
	if len(refs) == 0 {
		o.degrade(result, "mining")
		refs = []models.DiscourseReference{}
	}
	result.References = refs
	result.Stage = models.StageMined
	logStage(result, "references mined", config.Fields{"keywords": keywords, "references": len(refs)})

	// 4. 스타일별 댓글 생성
	comments := o.stages.Generator.Generate(ctx, analysis, refs)
	produced := make(map[models.Style]struct{}, len(comments))
	for _, c := range comments {
		produced[c.Style] = struct{}{}
	}
	for _, style := range models.CommentStyles {
		if _, ok := produced[style]; !ok {
			o.degrade(result, "generation:"+string(style))
		}
	}
	result.Stage = models.StageGenerated
	logStage(result, "comments generated", config.Fields{"comments": len(comments)})

	// 5. 댓글별 이미지 생성
	for i := range comments {
		location, ok := o.stages.Illustrator.Illustrate(ctx, comments[i], doc.Title)
		if !ok {
			o.degrade(result, "illustration:"+string(comments[i].Style))
			continue
		}
		comments[i].ImageURL = location
	}
	result.Comments = comments
	result.Stage = models.StageIllustrated

	result.Success = true
	result.Timestamp = o.now()
	logStage(result, "pipeline finished", config.Fields{"degradations": result.Degradations})
	return result
}

// Export 는 성공한 결과를 output.dir 에 쓰고 경로를 돌려준다.
func (o *Orchestrator) Export(result *models.PipelineResult, filename string) (string, error) {
	if !result.Success {
		return "", fmt.Errorf("refusing to export failed run %s: %s", result.RunID, result.Error)
	}
	// 파일에도 exported 상태가 기록되도록 먼저 바꾸고, 실패하면 되돌린다.
	prev := result.Stage
	result.Stage = models.StageExported
	path, err := Export(result, o.outputDir, filename)
	if err != nil {
		result.Stage = prev
		config.ErrorWithFields("export failed", config.Fields{"run_id": result.RunID, "error": err.Error()})
		return "", err
	}
	logStage(result, "result exported", config.Fields{"path": path})
	return path, nil
}

// RunAndExport 는 Run 후 성공한 경우에만 Export 한다. 실패한 실행이면 경로는 비어 있다.
func (o *Orchestrator) RunAndExport(ctx context.Context, rawURL, filename string) (*models.PipelineResult, string, error) {
	result := o.Run(ctx, rawURL)
	if !result.Success {
		return result, "", nil
	}
	path, err := o.Export(result, filename)
	return result, path, err
}

func (o *Orchestrator) fail(result *models.PipelineResult, at models.Stage, err error) *models.PipelineResult {
	result.Success = false
	result.Error = err.Error()
	result.Stage = models.StageFailed
	result.Timestamp = o.now()
	config.ErrorWithFields("pipeline failed", config.Fields{
		"run_id": result.RunID,
		"stage":  string(at),
		"error":  err.Error(),
	})
	return result
}

func (o *Orchestrator) degrade(result *models.PipelineResult, what string) {
	result.Degradations = append(result.Degradations, what)
	config.WarnWithFields("stage degraded", config.Fields{"run_id": result.RunID, "degradation": what})
}

func logStage(result *models.PipelineResult, msg string, fields config.Fields) {
	fields["run_id"] = result.RunID
	fields["stage"] = string(result.Stage)
	config.InfoWithFields(msg, fields)
}
