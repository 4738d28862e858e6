package analyzer

import (
	"context"
	"errors"
	"fmt"

	"news-comment/config"
	"news-comment/llm"
	"news-comment/models"
)

// maxBodyRunes 는 분석 요청에 포함하는 본문 길이 상한이다.
const maxBodyRunes = 2000

const SYSTEM_INSTRUCTION = `
You are a professional news analyst who is good at spotting the angles of a news story.
Analyze the provided article and answer in %[1]s.
The response MUST be a valid JSON object with exactly five keys:

1. humor_points: A list of funny or absurd aspects of the story.
2. criticism_points: A list of things in the story that deserve criticism or mockery.
3. core_viewpoints: A list of the main arguments the article makes.
4. controversial_points: A list of points likely to spark disagreement.
5. summary: A summary of the article, no more than 50 characters.

Additional constraints:
- Every string value MUST be written in %[1]s.
- Use an empty array when a category has nothing to report.
- You MUST NOT wrap the JSON output in a markdown code block (e.g., ` + "```json ... ```" + `).
- The response should contain ONLY the raw JSON string, with no comments or explanations.
`

// failure kinds logged on degradation
const (
	failureRequest  = "request"
	failureDecode   = "decode"
	failureValidate = "validate"
)

var errEmptyAnalysis = errors.New("analysis has no points and no summary")

// Analyzer 는 기사 제목과 본문을 LLM 으로 분석한다.
type Analyzer struct {
	client      llm.Client
	temperature float64
	language    string
}

func New(client llm.Client, cfg config.AnalyzerConfig) *Analyzer {
	language := cfg.Language
	if language == "" {
		language = "Simplified Chinese"
	}
	return &Analyzer{client: client, temperature: cfg.Temperature, language: language}
}

// Analyze 는 에러를 반환하지 않는다. 요청이나 디코딩에 실패하거나 결과가 완전히 비어 있으면
// 원인을 로그로 남기고 models.DegradedAnalysis() 를 반환한다.
func (a *Analyzer) Analyze(ctx context.Context, title, body string) models.AnalysisResult {
	resp, err := a.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: fmt.Sprintf(SYSTEM_INSTRUCTION, a.language)},
			{Role: llm.RoleUser, Content: buildPrompt(title, body)},
		},
		Temperature: a.temperature,
		JSON:        true,
	})
	if err != nil {
		logFailure(failureRequest, title, err)
		return models.DegradedAnalysis()
	}

	var result models.AnalysisResult
	if err := llm.DecodeJSON(resp.Text, &result); err != nil {
		logFailure(failureDecode, title, err)
		return models.DegradedAnalysis()
	}

	result = result.Normalize()
	if result.IsEmpty() && result.Summary == "" {
		logFailure(failureValidate, title, errEmptyAnalysis)
		return models.DegradedAnalysis()
	}
	config.Logger.Infof("analysis done: %d core, %d controversial, %d criticism, %d humor points",
		len(result.CoreViewpoints), len(result.ControversialPoints), len(result.CriticismPoints), len(result.HumorPoints))
	return result
}

func buildPrompt(title, body string) string {
	runes := []rune(body)
	if len(runes) > maxBodyRunes {
		body = string(runes[:maxBodyRunes])
	}
	return fmt.Sprintf("Title: %s\n\nContent: %s", title, body)
}

func logFailure(kind, title string, err error) {
	fields := config.Fields{
		"failure": kind,
		"title":   title,
		"error":   err.Error(),
	}
	if errors.Is(err, llm.ErrQuotaExceeded) {
		fields["quota_exceeded"] = true
	}
	config.WarnWithFields("analysis degraded", fields)
}
