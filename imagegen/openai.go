package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"news-comment/httpclient"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIBackend 는 OpenAI images API 를 사용한다.
// gpt-image 계열은 base64 를 돌려주므로 data URL 로 바꾸고, dall-e 계열은 URL 을 그대로 쓴다.
type OpenAIBackend struct {
	name    string
	base    *httpclient.BaseClient
	apiKey  string
	model   string
	size    string
	quality string
	style   string
}

type OpenAIOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	Width   int
	Height  int
	// Quality, Style 은 dall-e-3 에서만 보낸다.
	Quality string
	Style   string
	Timeout time.Duration
}

func NewGPTImageBackend(opts OpenAIOptions) *OpenAIBackend {
	return newOpenAIBackend("gpt-image", opts)
}

func NewDallEBackend(opts OpenAIOptions) *OpenAIBackend {
	return newOpenAIBackend("dalle", opts)
}

func newOpenAIBackend(name string, opts OpenAIOptions) *OpenAIBackend {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	httpClient := httpclient.New(httpclient.Config{Timeout: opts.Timeout})
	return &OpenAIBackend{
		name:    name,
		base:    httpclient.NewBaseClientWithClient(httpClient, baseURL),
		apiKey:  opts.APIKey,
		model:   opts.Model,
		size:    fmt.Sprintf("%dx%d", orDefault(opts.Width), orDefault(opts.Height)),
		quality: opts.Quality,
		style:   opts.Style,
	}
}

func (b *OpenAIBackend) Name() string { return b.name }

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type openAIImageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (b *OpenAIBackend) Synthesize(ctx context.Context, prompt string) (string, error) {
	payload := openAIImageRequest{
		Model:  b.model,
		Prompt: prompt,
		N:      1,
		Size:   b.size,
	}
	if b.name == "dalle" {
		payload.Quality = b.quality
		payload.Style = b.style
		payload.ResponseFormat = "url"
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := b.base.NewRequest(ctx, http.MethodPost, "/images/generations", nil, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	body, err := b.base.DoJSON(req, "openai-images")
	if err != nil {
		return "", err
	}

	var out openAIImageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("openai-images response decode failed: %w", err)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("openai-images returned no image")
	}
	if out.Data[0].URL != "" {
		return out.Data[0].URL, nil
	}
	if out.Data[0].B64JSON != "" {
		return "data:image/png;base64," + out.Data[0].B64JSON, nil
	}
	return "", fmt.Errorf("openai-images returned an empty image")
}

func orDefault(v int) int {
	if v <= 0 {
		return defaultCardSize
	}
	return v
}
