package imagegen

import (
	"context"
	"fmt"
	"time"

	"news-comment/config"
	"news-comment/models"
)

const defaultTimeout = 120 * time.Second

const promptTemplate = `Create a meme-style image for the following comment.

Comment: "%s"
Comment style: %s
News background: "%s"
Scene idea: %s

If a celebrity portrait is needed, draw it in a cartoon style and name the celebrity explicitly.
Make the image visually striking and easy to share on social media, both fun and topical.
Avoid putting much text in the image; keep it simple.`

// Backend 는 프롬프트 하나로 이미지 한 장을 만들고 URL(또는 data URL)을 돌려준다.
type Backend interface {
	Name() string
	Synthesize(ctx context.Context, prompt string) (string, error)
}

// Generator 는 설정된 백엔드 하나로 이미지를 만들고, 실패하면 로컬 카드로 대신한다.
type Generator struct {
	backend Backend
	timeout time.Duration
	card    *CardRenderer
}

// New 는 backend 가 nil 이면 항상 로컬 카드만 만드는 Generator 를 돌려준다.
func New(backend Backend, cfg config.ImageConfig) *Generator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Generator{
		backend: backend,
		timeout: timeout,
		card:    NewCardRenderer(cfg.Width, cfg.Height),
	}
}

// BuildPrompt 는 댓글, 스타일, 기사 제목, 이미지 구상을 하나의 프롬프트로 합친다.
func BuildPrompt(comment models.GeneratedComment, newsTitle string) string {
	return fmt.Sprintf(promptTemplate, comment.Text, comment.Style, newsTitle, comment.ImagePromptSeed)
}

// Illustrate 는 이미지 위치를 돌려준다. 백엔드가 실패하면 로컬 카드로 대신하고,
// 카드도 만들 수 없을 때만 ("", false) 를 돌려준다.
func (g *Generator) Illustrate(ctx context.Context, comment models.GeneratedComment, newsTitle string) (string, bool) {
	if g.backend != nil {
		location, err := g.synthesize(ctx, BuildPrompt(comment, newsTitle))
		if err == nil && location != "" {
			return location, true
		}
		if err == nil {
			err = fmt.Errorf("empty image location")
		}
		config.WarnWithFields("image backend failed, using local card", config.Fields{
			"backend": g.backend.Name(),
			"style":   string(comment.Style),
			"error":   err.Error(),
		})
	}

	card, err := g.card.Render(comment)
	if err != nil {
		config.ErrorWithFields("local card rendering failed", config.Fields{
			"style": string(comment.Style),
			"error": err.Error(),
		})
		return "", false
	}
	return card, true
}

func (g *Generator) synthesize(ctx context.Context, prompt string) (location string, err error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image backend %s panicked: %v", g.backend.Name(), r)
		}
	}()
	return g.backend.Synthesize(ctx, prompt)
}
