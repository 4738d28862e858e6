package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"news-comment/config"
	"news-comment/httpclient"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient 는 chat completions API 를 HTTP 로 호출한다.
type OpenAIClient struct {
	base   *httpclient.BaseClient
	apiKey string
	model  string
}

func NewOpenAIClient(cfg config.LLMConfig) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := httpclient.New(httpclient.Config{Timeout: timeout})
	return &OpenAIClient{
		base:   httpclient.NewBaseClientWithClient(httpClient, baseURL),
		apiKey: cfg.OpenAIAPIKey,
		model:  cfg.Model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}
	payload := chatRequest{Model: model, Temperature: req.Temperature}
	for _, m := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	if req.JSON {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return Response{}, err
	}

	httpReq, err := c.base.NewRequest(ctx, http.MethodPost, "/chat/completions", nil, bytes.NewReader(buf))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	body, err := c.base.DoJSON(httpReq, "openai")
	if err != nil {
		return Response{}, err
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Response{}, fmt.Errorf("openai response decode failed: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return Response{}, ErrEmptyResponse
	}

	resp := Response{
		Text:         out.Choices[0].Message.Content,
		Model:        model,
		ModelVersion: out.Model,
		Usage: TokenUsage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
			TotalTokens:  out.Usage.TotalTokens,
		},
	}
	logRequest("openai", resp, start)
	return resp, nil
}
