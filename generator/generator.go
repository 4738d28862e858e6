package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"news-comment/config"
	"news-comment/llm"
	"news-comment/models"
)

// exemplarsPerStyle 는 프롬프트에 넣는 같은 스타일 참고 댓글 수의 상한이다.
const exemplarsPerStyle = 2

// maxCommentRunes 를 넘는 댓글은 말줄임표를 붙여 자른다.
const maxCommentRunes = 100

var styleInstructions = map[models.Style]string{
	models.StyleProvocative: "a controversial comment that sparks discussion, sharp but not excessive",
	models.StyleWitty:       "a witty, humorous comment, such as a pun, sarcasm or a clever observation",
	models.StyleInsightful:  "a thoughtful, insightful comment that offers a new perspective or deeper analysis",
	models.StyleQuestion:    "a thought-provoking question that makes readers reflect",
}

const SYSTEM_INSTRUCTION = `
You are a skilled %s-style internet commenter.
You MUST always return a valid JSON object with exactly three keys and nothing else:

1. comment: The comment text, written in %s, natural and conversational, no more than 100 characters.
2. image_prompt: A vivid, imaginative description of a symbolic, satirical or dramatic image that visualizes the core idea of the comment.
3. confidence: A number between 0 and 1 describing how well the comment fits the requested tone.

You MUST NOT wrap the JSON output in a markdown code block (e.g., ` + "```json ... ```" + `).
Do not add comments, explanations or notes.
`

const userPromptTemplate = `# Role
You are a sharp, funny social media commentator. Based on the analysis of a news story,
write one short, punchy, shareable original comment and come up with a creative image description for it.

# News analysis
- Core viewpoints: %s
- Controversies and criticism: %s
- Humor: %s

# Instructions
1. Comment
   - Tone: %s.
   - Reference: imitate the tone and attitude of the following examples but do NOT copy their content or phrasing: "%s"
   - Blend one or two key points from the news analysis into a coherent opinion. Avoid listing them.
   - Keep it under 100 characters, natural and conversational.
2. Image prompt
   - Describe a symbolic, satirical or dramatic scene that visualizes the core idea of your comment.
`

// Generator 는 스타일마다 댓글 하나를 만든다.
type Generator struct {
	client      llm.Client
	temperature float64
	parallel    bool
	language    string
}

func New(client llm.Client, cfg config.GeneratorConfig) *Generator {
	language := cfg.Language
	if language == "" {
		language = "Simplified Chinese"
	}
	return &Generator{
		client:      client,
		temperature: cfg.Temperature,
		parallel:    cfg.Parallel,
		language:    language,
	}
}

type commentResponse struct {
	Comment     string   `json:"comment"`
	ImagePrompt string   `json:"image_prompt"`
	Confidence  *float64 `json:"confidence"`
}

// Generate 는 models.CommentStyles 의 각 스타일에 대해 한 번씩 생성을 시도한다.
// 실패한 스타일은 결과에서 빠지고, 나머지는 confidence 내림차순(동점이면 스타일 순서)으로 정렬된다.
func (g *Generator) Generate(ctx context.Context, analysis models.AnalysisResult, refs []models.DiscourseReference) []models.GeneratedComment {
	slots := make([]*models.GeneratedComment, len(models.CommentStyles))

	if g.parallel {
		eg, egCtx := errgroup.WithContext(ctx)
		for i, style := range models.CommentStyles {
			eg.Go(func() error {
				slots[i] = g.generateOne(egCtx, analysis, refs, style)
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for i, style := range models.CommentStyles {
			slots[i] = g.generateOne(ctx, analysis, refs, style)
		}
	}

	comments := make([]models.GeneratedComment, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			comments = append(comments, *c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].ConfidenceScore > comments[j].ConfidenceScore
	})
	return comments
}

func (g *Generator) generateOne(ctx context.Context, analysis models.AnalysisResult, refs []models.DiscourseReference, style models.Style) *models.GeneratedComment {
	resp, err := g.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: fmt.Sprintf(SYSTEM_INSTRUCTION, style, g.language)},
			{Role: llm.RoleUser, Content: BuildPrompt(analysis, refs, style)},
		},
		Temperature: g.temperature,
		JSON:        true,
	})
	if err != nil {
		logFailure(style, "request", err)
		return nil
	}

	var out commentResponse
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		logFailure(style, "decode", err)
		return nil
	}
	text := strings.TrimSpace(out.Comment)
	if text == "" {
		logFailure(style, "validate", fmt.Errorf("empty comment"))
		return nil
	}
	if n := utf8.RuneCountInString(text); n > maxCommentRunes {
		config.WarnWithFields("comment truncated", config.Fields{"style": string(style), "runes": n, "limit": maxCommentRunes})
		text = truncateRunes(text, maxCommentRunes)
	}

	confidence := models.DefaultConfidence
	if out.Confidence != nil {
		confidence = clamp(*out.Confidence, 0, 1)
	}

	return &models.GeneratedComment{
		Text:            text,
		Style:           style,
		ImagePromptSeed: strings.TrimSpace(out.ImagePrompt),
		ConfidenceScore: confidence,
	}
}

// BuildPrompt 는 분석 결과와 같은 스타일의 참고 댓글(최대 2개)로 사용자 프롬프트를 만든다.
func BuildPrompt(analysis models.AnalysisResult, refs []models.DiscourseReference, style models.Style) string {
	controversy := make([]string, 0, len(analysis.ControversialPoints)+len(analysis.CriticismPoints))
	controversy = append(controversy, analysis.ControversialPoints...)
	controversy = append(controversy, analysis.CriticismPoints...)

	return fmt.Sprintf(userPromptTemplate,
		strings.Join(analysis.CoreViewpoints, "; "),
		strings.Join(controversy, "; "),
		strings.Join(analysis.HumorPoints, "; "),
		styleInstructions[style],
		Exemplar(refs, style),
	)
}

// Exemplar 는 같은 스타일 참고 댓글 최대 2개를 줄바꿈으로 잇는다. 없으면 빈 문자열이다.
func Exemplar(refs []models.DiscourseReference, style models.Style) string {
	texts := make([]string, 0, exemplarsPerStyle)
	for _, r := range refs {
		if r.Style != style {
			continue
		}
		texts = append(texts, r.Text)
		if len(texts) == exemplarsPerStyle {
			break
		}
	}
	return strings.Join(texts, "\n")
}

// truncateRunes 는 text 를 limit 룬 이하로 자르고 끝에 … 를 붙인다.
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func logFailure(style models.Style, kind string, err error) {
	config.WarnWithFields("comment generation failed", config.Fields{
		"style":   string(style),
		"failure": kind,
		"error":   err.Error(),
	})
}
