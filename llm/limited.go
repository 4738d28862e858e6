package llm

import (
	"context"

	"news-comment/quota"
)

// LimitedClient 는 호출 전에 quota.Limiter 로 한도를 확인한다.
type LimitedClient struct {
	inner   Client
	limiter *quota.Limiter
}

func NewLimitedClient(inner Client, limiter *quota.Limiter) *LimitedClient {
	return &LimitedClient{inner: inner, limiter: limiter}
}

func (c *LimitedClient) Complete(ctx context.Context, req Request) (Response, error) {
	ok, err := c.limiter.WaitAndReserve(ctx)
	if err != nil {
		return Response{}, err
	}
	if !ok {
		return Response{}, ErrQuotaExceeded
	}
	return c.inner.Complete(ctx, req)
}
