package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"news-comment/config"
	"news-comment/quota"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrEmptyResponse = errors.New("llm: empty response")
	ErrQuotaExceeded = errors.New("llm: daily quota exceeded")
	ErrMalformedJSON = errors.New("llm: malformed json")
)

type Message struct {
	Role    Role
	Content string
}

// Request 는 공급자와 무관한 텍스트 생성 요청이다.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	// JSON 이 true 이면 공급자가 지원하는 경우 JSON 응답 모드를 켠다.
	JSON bool
}

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

type Response struct {
	Text         string
	Model        string
	ModelVersion string
	Usage        TokenUsage
}

// Client 는 텍스트 생성 서비스에 대한 단일 요청 인터페이스이다.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// New 는 설정된 공급자의 클라이언트를 만든다. limiter 가 nil 이 아니면 모든 호출에 한도를 적용한다.
func New(ctx context.Context, cfg config.LLMConfig, limiter *quota.Limiter) (Client, error) {
	var client Client
	switch cfg.Provider {
	case config.LLMProviderOpenAI:
		client = NewOpenAIClient(cfg)
	case config.LLMProviderGemini:
		gemini, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client = gemini
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if limiter != nil {
		client = NewLimitedClient(client, limiter)
	}
	return client, nil
}

// LLMRequestLog 는 호출 한 번의 지연 시간과 토큰 사용량 기록이다.
type LLMRequestLog struct {
	Provider     string     `json:"provider"`
	ModelName    string     `json:"model_name"`
	ModelVersion string     `json:"model_version"`
	LatencyMs    int64      `json:"latency_ms"`
	TokenUsage   TokenUsage `json:"token_usage"`
	GeneratedAt  time.Time  `json:"generated_at"`
}

func logRequest(provider string, resp Response, start time.Time) {
	entry := LLMRequestLog{
		Provider:     provider,
		ModelName:    resp.Model,
		ModelVersion: resp.ModelVersion,
		LatencyMs:    time.Since(start).Milliseconds(),
		TokenUsage:   resp.Usage,
		GeneratedAt:  time.Now(),
	}
	config.InfoWithFields("llm request completed", config.Fields{
		"provider":      entry.Provider,
		"model_name":    entry.ModelName,
		"model_version": entry.ModelVersion,
		"latency_ms":    entry.LatencyMs,
		"input_tokens":  entry.TokenUsage.InputTokens,
		"output_tokens": entry.TokenUsage.OutputTokens,
		"total_tokens":  entry.TokenUsage.TotalTokens,
	})
}
