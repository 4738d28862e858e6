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

// FireflyBackend 는 Adobe Firefly v3 이미지 생성 API 를 사용한다.
type FireflyBackend struct {
	base        *httpclient.BaseClient
	clientID    string
	accessToken string
	width       int
	height      int
}

type FireflyOptions struct {
	Endpoint    string
	ClientID    string
	AccessToken string
	Width       int
	Height      int
	Timeout     time.Duration
}

func NewFireflyBackend(opts FireflyOptions) *FireflyBackend {
	httpClient := httpclient.New(httpclient.Config{Timeout: opts.Timeout})
	return &FireflyBackend{
		base:        httpclient.NewBaseClientWithClient(httpClient, opts.Endpoint),
		clientID:    opts.ClientID,
		accessToken: opts.AccessToken,
		width:       orDefault(opts.Width),
		height:      orDefault(opts.Height),
	}
}

func (b *FireflyBackend) Name() string { return "firefly" }

type fireflyRequest struct {
	Prompt        string      `json:"prompt"`
	NumVariations int         `json:"numVariations"`
	Size          fireflySize `json:"size"`
}

type fireflySize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type fireflyResponse struct {
	Outputs []struct {
		Seed  int64 `json:"seed"`
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"outputs"`
}

func (b *FireflyBackend) Synthesize(ctx context.Context, prompt string) (string, error) {
	buf, err := json.Marshal(fireflyRequest{
		Prompt:        prompt,
		NumVariations: 1,
		Size:          fireflySize{Width: b.width, Height: b.height},
	})
	if err != nil {
		return "", err
	}

	req, err := b.base.NewRequest(ctx, http.MethodPost, "", nil, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.clientID)
	req.Header.Set("Authorization", "Bearer "+b.accessToken)

	body, err := b.base.DoJSON(req, "firefly")
	if err != nil {
		return "", err
	}

	var out fireflyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("firefly response decode failed: %w", err)
	}
	if len(out.Outputs) == 0 || out.Outputs[0].Image.URL == "" {
		return "", fmt.Errorf("firefly returned no image")
	}
	return out.Outputs[0].Image.URL, nil
}
