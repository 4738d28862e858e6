package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"news-comment/config"
	"news-comment/httpclient"
)

const (
	defaultBaseURL  = "https://oauth.reddit.com"
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	// morechildren 한 번에 보낼 수 있는 댓글 ID 수
	moreChildrenBatch = 100
)

// Client 는 Reddit OAuth API 클라이언트이다. 앱 전용(client credentials) 토큰을 사용한다.
type Client struct {
	base    *httpclient.BaseClient
	limiter *rate.Limiter
}

type clientOptions struct {
	baseURL  string
	tokenURL string
}

type Option func(*clientOptions)

// WithBaseURL 은 API 주소를 바꾼다. 테스트에서 사용한다.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithTokenURL 은 토큰 발급 주소를 바꾼다. 테스트에서 사용한다.
func WithTokenURL(u string) Option {
	return func(o *clientOptions) { o.tokenURL = u }
}

func NewClient(cfg config.RedditConfig, opts ...Option) *Client {
	o := clientOptions{baseURL: defaultBaseURL, tokenURL: defaultTokenURL}
	for _, opt := range opts {
		opt(&o)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	// 토큰 요청과 API 요청 모두 로깅 트랜스포트와 User-Agent 를 거치게 한다.
	plain := httpclient.New(httpclient.Config{Timeout: timeout, UserAgent: cfg.UserAgent})
	ccfg := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     o.tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	authed := ccfg.Client(context.WithValue(context.Background(), oauth2.HTTPClient, plain))
	authed.Timeout = timeout

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	return &Client{
		base:    httpclient.NewBaseClientWithClient(authed, o.baseURL),
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *Client) get(ctx context.Context, relPath string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := c.base.NewRequest(ctx, http.MethodGet, relPath, query, nil)
	if err != nil {
		return err
	}
	body, err := c.base.DoJSON(req, "reddit")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("reddit %s decode failed: %w", relPath, err)
	}
	return nil
}

// Search 는 subreddit 안에서 hot 순으로 게시물을 검색한다.
func (c *Client) Search(ctx context.Context, subreddit, query string, limit int) ([]Submission, error) {
	q := url.Values{
		"q":        {query},
		"sort":     {"hot"},
		"limit":    {strconv.Itoa(limit)},
		"type":     {"link"},
		"raw_json": {"1"},
	}
	if subreddit != "all" {
		q.Set("restrict_sr", "1")
	}

	var out listing
	if err := c.get(ctx, "/r/"+subreddit+"/search", q, &out); err != nil {
		return nil, err
	}

	subs := make([]Submission, 0, len(out.Data.Children))
	for _, child := range out.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var s Submission
		if err := json.Unmarshal(child.Data, &s); err != nil {
			return nil, fmt.Errorf("reddit submission decode failed: %w", err)
		}
		subs = append(subs, s)
	}
	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

// TopLevelComments 는 게시물의 최상위 댓글을 가져온다.
// 최상위 "more comments" 자리표시자는 morechildren 으로 모두 펼친다.
func (c *Client) TopLevelComments(ctx context.Context, sub Submission) ([]Comment, error) {
	var pages []listing
	q := url.Values{"raw_json": {"1"}, "depth": {"1"}}
	if err := c.get(ctx, "/r/"+sub.Subreddit+"/comments/"+sub.ID, q, &pages); err != nil {
		return nil, err
	}
	if len(pages) < 2 {
		return nil, fmt.Errorf("reddit comments for %s: unexpected response shape", sub.ID)
	}

	linkID := sub.Name
	if linkID == "" {
		linkID = "t3_" + sub.ID
	}

	comments, err := c.collect(ctx, linkID, pages[1].Data.Children)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].Subreddit == "" {
			comments[i].Subreddit = sub.Subreddit
		}
	}
	return comments, nil
}

// collect 는 things 를 순서대로 훑으며 최상위 댓글을 모으고, more 노드는 그 자리에서 펼친다.
func (c *Client) collect(ctx context.Context, linkID string, things []thing) ([]Comment, error) {
	var comments []Comment
	for _, t := range things {
		switch t.Kind {
		case "t1":
			var cm Comment
			if err := json.Unmarshal(t.Data, &cm); err != nil {
				return nil, fmt.Errorf("reddit comment decode failed: %w", err)
			}
			if cm.ParentID != "" && cm.ParentID != linkID {
				continue
			}
			comments = append(comments, cm)
		case "more":
			var m more
			if err := json.Unmarshal(t.Data, &m); err != nil {
				return nil, fmt.Errorf("reddit more decode failed: %w", err)
			}
			if m.ParentID != linkID || len(m.Children) == 0 {
				continue
			}
			expanded, err := c.expandMore(ctx, linkID, m.Children)
			if err != nil {
				return nil, err
			}
			comments = append(comments, expanded...)
		}
	}
	return comments, nil
}

func (c *Client) expandMore(ctx context.Context, linkID string, ids []string) ([]Comment, error) {
	var out []Comment
	for start := 0; start < len(ids); start += moreChildrenBatch {
		end := start + moreChildrenBatch
		if end > len(ids) {
			end = len(ids)
		}

		q := url.Values{
			"api_type": {"json"},
			"link_id":  {linkID},
			"children": {strings.Join(ids[start:end], ",")},
			"raw_json": {"1"},
		}
		var resp moreChildrenResponse
		if err := c.get(ctx, "/api/morechildren", q, &resp); err != nil {
			return nil, err
		}
		if len(resp.JSON.Errors) > 0 {
			return nil, fmt.Errorf("reddit morechildren: %v", resp.JSON.Errors)
		}

		// 응답의 more 노드는 다시 펼치지 않는다. 같은 ID 목록이 되풀이될 수 있다.
		for _, t := range resp.JSON.Data.Things {
			if t.Kind != "t1" {
				continue
			}
			var cm Comment
			if err := json.Unmarshal(t.Data, &cm); err != nil {
				return nil, fmt.Errorf("reddit comment decode failed: %w", err)
			}
			if cm.ParentID == linkID {
				out = append(out, cm)
			}
		}
	}
	return out, nil
}
