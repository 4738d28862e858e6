package feeder

import (
	"context"

	"news-comment/config"
	"news-comment/models"
)

// Runner 는 기사 하나에 대해 파이프라인을 실행하고 결과를 내보낸다. *pipeline.Orchestrator 가 구현한다.
type Runner interface {
	RunAndExport(ctx context.Context, rawURL, filename string) (*models.PipelineResult, string, error)
}

// Outcome 은 피드 항목 하나의 처리 결과이다.
type Outcome struct {
	Item   RssFeedItem
	Result *models.PipelineResult
	Path   string
	Err    error
}

// Succeeded reports whether the item was processed and exported.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Result != nil && o.Result.Success
}

// RunBatch 는 항목마다 독립된 실행을 순서대로 돌린다. 한 항목의 실패는 다음 항목에 영향을 주지 않는다.
// 컨텍스트가 취소되면 남은 항목은 건너뛴다.
func RunBatch(ctx context.Context, runner Runner, items []RssFeedItem) []Outcome {
	outcomes := make([]Outcome, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}

		result, path, err := runner.RunAndExport(ctx, item.Link, "")
		outcome := Outcome{Item: item, Result: result, Path: path, Err: err}
		outcomes = append(outcomes, outcome)

		fields := config.Fields{"link": item.Link, "title": item.Title}
		switch {
		case err != nil:
			fields["error"] = err.Error()
			config.ErrorWithFields("feed item export failed", fields)
		case !outcome.Succeeded():
			fields["error"] = result.Error
			config.WarnWithFields("feed item failed", fields)
		default:
			fields["path"] = path
			config.InfoWithFields("feed item processed", fields)
		}
	}
	return outcomes
}
