package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-comment/config"
	"news-comment/llm"
	"news-comment/quota"
)

type countingClient struct {
	calls int
}

func (c *countingClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	c.calls++
	return llm.Response{Text: "ok"}, nil
}

func TestLimitedClientStopsAtDailyQuota(t *testing.T) {
	inner := &countingClient{}
	client := llm.NewLimitedClient(inner, quota.NewLimiter(config.QuotaConfig{RequestsPerDay: 1}))

	resp, err := client.Complete(context.Background(), llm.Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)

	_, err = client.Complete(context.Background(), llm.Request{})
	assert.ErrorIs(t, err, llm.ErrQuotaExceeded)
	assert.Equal(t, 1, inner.calls)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := llm.New(context.Background(), config.LLMConfig{Provider: "claude"}, nil)
	assert.Error(t, err)
}
