package generator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-comment/config"
	"news-comment/generator"
	"news-comment/llm"
	"news-comment/models"
)

// styleClient 는 system 메시지에 들어 있는 스타일 이름으로 응답을 고른다.
type styleClient struct {
	mu        sync.Mutex
	responses map[models.Style]string
	failures  map[models.Style]error
	prompts   map[models.Style]string
}

func (c *styleClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	style := styleOf(req.Messages[0].Content)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prompts == nil {
		c.prompts = map[models.Style]string{}
	}
	c.prompts[style] = req.Messages[1].Content

	if err := c.failures[style]; err != nil {
		return llm.Response{}, err
	}
	return llm.Response{Text: c.responses[style]}, nil
}

func styleOf(system string) models.Style {
	for _, s := range models.CommentStyles {
		if strings.Contains(system, string(s)+"-style") {
			return s
		}
	}
	return models.StyleNeutral
}

func allStyles(text string) map[models.Style]string {
	out := map[models.Style]string{}
	for _, s := range models.CommentStyles {
		out[s] = text
	}
	return out
}

var analysis = models.AnalysisResult{
	CoreViewpoints:      []string{"rates rise", "savers win"},
	ControversialPoints: []string{"timing"},
	CriticismPoints:     []string{"late"},
	HumorPoints:         []string{"the chart"},
	Summary:             "s",
}

func TestGenerateAllStylesWithoutReferences(t *testing.T) {
	client := &styleClient{responses: allStyles(`{"comment":"nice","image_prompt":"a cat","confidence":0.6}`)}

	comments := generator.New(client, config.GeneratorConfig{Temperature: 0.8}).
		Generate(context.Background(), analysis, nil)

	require.Len(t, comments, 4)
	var styles []models.Style
	for _, c := range comments {
		styles = append(styles, c.Style)
		assert.Equal(t, "nice", c.Text)
		assert.Equal(t, "a cat", c.ImagePromptSeed)
	}
	// 동점이면 스타일 순서를 유지한다.
	assert.Equal(t, models.CommentStyles, styles)
	for _, p := range client.prompts {
		assert.Contains(t, p, `do NOT copy their content or phrasing: ""`)
	}
}

func TestGenerateSortsByConfidenceAndHandlesGaps(t *testing.T) {
	client := &styleClient{
		responses: map[models.Style]string{
			models.StyleProvocative: `{"comment":"p","image_prompt":"","confidence":0.2}`,
			models.StyleWitty:       "```json\n{\"comment\":\"w\",\"image_prompt\":\"x\"}\n```",
			models.StyleInsightful:  `{"comment":"i","image_prompt":"","confidence":1.7}`,
			models.StyleQuestion:    `{"comment":"   ","image_prompt":"","confidence":0.9}`,
		},
	}

	comments := generator.New(client, config.GeneratorConfig{}).Generate(context.Background(), analysis, nil)

	require.Len(t, comments, 3)
	assert.Equal(t, models.StyleInsightful, comments[0].Style)
	assert.Equal(t, 1.0, comments[0].ConfidenceScore)
	assert.Equal(t, models.StyleWitty, comments[1].Style)
	assert.Equal(t, models.DefaultConfidence, comments[1].ConfidenceScore)
	assert.Equal(t, models.StyleProvocative, comments[2].Style)
}

func TestGenerateOmitsFailedStyles(t *testing.T) {
	client := &styleClient{
		responses: allStyles(`{"comment":"ok","image_prompt":"","confidence":0.5}`),
		failures: map[models.Style]error{
			models.StyleWitty: errors.New("timeout"),
		},
	}
	client.responses[models.StyleQuestion] = "not json"

	comments := generator.New(client, config.GeneratorConfig{}).Generate(context.Background(), analysis, nil)

	require.Len(t, comments, 2)
	assert.Equal(t, models.StyleProvocative, comments[0].Style)
	assert.Equal(t, models.StyleInsightful, comments[1].Style)
}

func TestGenerateTruncatesLongComments(t *testing.T) {
	long := strings.Repeat("涨", 150)
	client := &styleClient{responses: allStyles(`{"comment":"` + long + `","image_prompt":"","confidence":0.5}`)}
	client.responses[models.StyleQuestion] = `{"comment":"` + strings.Repeat("a", 100) + `","image_prompt":"","confidence":0.4}`

	comments := generator.New(client, config.GeneratorConfig{}).Generate(context.Background(), analysis, nil)

	require.Len(t, comments, 4)
	for _, c := range comments {
		if c.Style == models.StyleQuestion {
			assert.Equal(t, strings.Repeat("a", 100), c.Text)
			continue
		}
		assert.Equal(t, 100, utf8.RuneCountInString(c.Text))
		assert.Equal(t, strings.Repeat("涨", 99)+"…", c.Text)
	}
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	responses := map[models.Style]string{
		models.StyleProvocative: `{"comment":"p","image_prompt":"","confidence":0.5}`,
		models.StyleWitty:       `{"comment":"w","image_prompt":"","confidence":0.9}`,
		models.StyleInsightful:  `{"comment":"i","image_prompt":"","confidence":0.5}`,
		models.StyleQuestion:    `{"comment":"q","image_prompt":"","confidence":0.1}`,
	}

	seq := generator.New(&styleClient{responses: responses}, config.GeneratorConfig{}).
		Generate(context.Background(), analysis, nil)
	par := generator.New(&styleClient{responses: responses}, config.GeneratorConfig{Parallel: true}).
		Generate(context.Background(), analysis, nil)

	assert.Equal(t, seq, par)
	assert.Equal(t, "w", par[0].Text)
	assert.Equal(t, "p", par[1].Text)
	assert.Equal(t, "i", par[2].Text)
}

func TestExemplar(t *testing.T) {
	refs := []models.DiscourseReference{
		{Text: "a", Style: models.StyleWitty},
		{Text: "b", Style: models.StyleProvocative},
		{Text: "c", Style: models.StyleWitty},
		{Text: "d", Style: models.StyleWitty},
	}
	assert.Equal(t, "a\nc", generator.Exemplar(refs, models.StyleWitty))
	assert.Equal(t, "b", generator.Exemplar(refs, models.StyleProvocative))
	assert.Equal(t, "", generator.Exemplar(refs, models.StyleQuestion))
}

func TestBuildPrompt(t *testing.T) {
	p := generator.BuildPrompt(analysis, nil, models.StyleQuestion)
	assert.Contains(t, p, "Core viewpoints: rates rise; savers win")
	assert.Contains(t, p, "Controversies and criticism: timing; late")
	assert.Contains(t, p, "Humor: the chart")
	assert.Contains(t, p, "thought-provoking question")
}
