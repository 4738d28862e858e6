package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"news-comment/httpclient"
)

// FluxBackend 는 Black Forest Labs API 에 작업을 제출한 뒤 polling_url 을 조회해 결과를 받는다.
type FluxBackend struct {
	client       *http.Client
	endpoint     string
	apiKey       string
	width        int
	height       int
	pollInterval time.Duration
}

type FluxOptions struct {
	Endpoint     string
	APIKey       string
	Width        int
	Height       int
	PollInterval time.Duration
}

func NewFluxBackend(opts FluxOptions) *FluxBackend {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &FluxBackend{
		// 전체 제한 시간은 Generator 가 컨텍스트로 건다.
		client:       httpclient.New(httpclient.Config{Timeout: 30 * time.Second}),
		endpoint:     opts.Endpoint,
		apiKey:       opts.APIKey,
		width:        orDefault(opts.Width),
		height:       orDefault(opts.Height),
		pollInterval: interval,
	}
}

func (b *FluxBackend) Name() string { return "flux" }

type fluxSubmitResponse struct {
	ID         string `json:"id"`
	PollingURL string `json:"polling_url"`
}

type fluxResult struct {
	Status string `json:"status"`
	Result *struct {
		Sample string `json:"sample"`
	} `json:"result"`
}

func (b *FluxBackend) Synthesize(ctx context.Context, prompt string) (string, error) {
	buf, err := json.Marshal(map[string]any{
		"prompt": prompt,
		"width":  b.width,
		"height": b.height,
	})
	if err != nil {
		return "", err
	}

	var submitted fluxSubmitResponse
	if err := b.call(ctx, http.MethodPost, b.endpoint, buf, &submitted); err != nil {
		return "", err
	}
	if submitted.PollingURL == "" {
		return "", fmt.Errorf("flux: no polling_url for task %s", submitted.ID)
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		var res fluxResult
		if err := b.call(ctx, http.MethodGet, submitted.PollingURL, nil, &res); err != nil {
			return "", err
		}
		switch res.Status {
		case "Ready":
			if res.Result == nil || res.Result.Sample == "" {
				return "", fmt.Errorf("flux: task %s ready without sample", submitted.ID)
			}
			return res.Result.Sample, nil
		case "Pending", "Queued", "Processing":
		default:
			return "", fmt.Errorf("flux: task %s ended with status %q", submitted.ID, res.Status)
		}
	}
}

func (b *FluxBackend) call(ctx context.Context, method, rawURL string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("x-key", b.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := httpclient.ReadBody(resp, "flux")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("flux response decode failed: %w", err)
	}
	return nil
}
