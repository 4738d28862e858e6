package llm

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"news-comment/config"
)

// GeminiClient 는 genai SDK 로 Gemini 모델을 호출한다.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Complete 는 system 메시지를 SystemInstruction 으로, 나머지를 대화 내용으로 보낸다.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (Response, error) {
	startTime := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	modelName := req.Model
	if modelName == "" {
		modelName = c.model
	}

	var system []string
	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}

	temperature := float32(req.Temperature)
	genCfg := &genai.GenerateContentConfig{Temperature: &temperature}
	if len(system) > 0 {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}}
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	result, err := c.client.Models.GenerateContent(ctx, modelName, contents, genCfg)
	if err != nil {
		return Response{}, err
	}
	if result == nil || strings.TrimSpace(result.Text()) == "" {
		return Response{}, ErrEmptyResponse
	}

	resp := Response{
		Text:         result.Text(),
		Model:        modelName,
		ModelVersion: result.ModelVersion,
	}
	if result.UsageMetadata != nil {
		resp.Usage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}
	logRequest("gemini", resp, startTime)
	return resp, nil
}
