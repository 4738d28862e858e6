package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"news-comment/config"
	"news-comment/httpclient"
	"news-comment/models"
	"news-comment/renderer"
)

// FetchError 는 문서를 가져오지 못한 경우의 에러이며 실행을 중단시킨다.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RenderFunc 는 자바스크립트 렌더링이 필요한 페이지의 HTML 을 돌려준다.
type RenderFunc func(ctx context.Context, url string) (string, error)

// Fetcher 는 기사 URL 에서 ExtractedDocument 를 만든다.
type Fetcher struct {
	client   *http.Client
	strategy string
	timeout  time.Duration
	maxBody  int64
	render   RenderFunc
}

// NewFetcher 는 설정으로 Fetcher 를 만든다. render_js 가 켜져 있으면 chromedp 로 렌더링한다.
func NewFetcher(cfg config.FetcherConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 8 << 20
	}

	f := &Fetcher{
		client:   httpclient.New(httpclient.Config{Timeout: timeout, UserAgent: renderer.USER_AGENT}),
		strategy: cfg.Strategy,
		timeout:  timeout,
		maxBody:  maxBody,
	}
	if cfg.RenderJS {
		opts := renderer.Options{ChromePath: cfg.ChromePath}
		f.render = func(ctx context.Context, url string) (string, error) {
			return renderer.RenderHTML(ctx, url, opts)
		}
	}
	return f
}

// WithRenderer 는 JS 렌더링 함수를 교체한 사본을 반환한다. nil 이면 렌더링하지 않는다.
func (f *Fetcher) WithRenderer(render RenderFunc) *Fetcher {
	clone := *f
	clone.render = render
	return &clone
}

// Extract 는 URL 을 가져와 제목, 본문, 이미지 목록을 추출한다.
// 네트워크 오류, 타임아웃, 2xx 이외의 응답은 *FetchError 로 반환한다.
func (f *Fetcher) Extract(ctx context.Context, rawURL string) (*models.ExtractedDocument, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &FetchError{URL: rawURL, Err: errors.New("invalid url")}
	}

	htmlStr, err := f.fetchHTML(ctx, u.String())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("parse html: %w", err)}
	}
	extracted := extractDocument(doc, u.String())

	if err := f.applyStrategy(extracted, htmlStr, u); err != nil {
		config.Logger.Warnf("extraction strategy %s failed for %s, using heuristic: %v", f.strategy, rawURL, err)
	}

	config.Logger.Infof("extracted %s (title=%q, body=%d chars, images=%d)",
		rawURL, extracted.Title, len([]rune(extracted.Body)), len(extracted.ImageURLs))
	return extracted, nil
}

func (f *Fetcher) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	if f.render != nil {
		htmlStr, err := f.render(ctx, rawURL)
		if err == nil {
			return htmlStr, nil
		}
		config.Logger.Warnf("render %s failed, falling back to plain fetch: %v", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	reader, err := charset.NewReader(bytes.NewReader(data), resp.Header.Get("Content-Type"))
	if err != nil {
		// 인코딩을 판단하지 못하면 UTF-8 로 간주한다.
		return string(data), nil
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(data), nil
	}
	return string(decoded), nil
}

// applyStrategy 는 설정된 라이브러리로 본문을 다시 뽑는다.
// 결과가 비어 있거나 실패하면 휴리스틱 결과를 그대로 둔다.
func (f *Fetcher) applyStrategy(doc *models.ExtractedDocument, htmlStr string, pageURL *url.URL) error {
	parse, err := parserFor(f.strategy)
	if err != nil || parse == nil {
		return err
	}

	article, err := parse(htmlStr, pageURL)
	if err != nil {
		return err
	}

	body := CleanText(article.PlainTextContent)
	if body == "" {
		return errors.New("empty content")
	}
	doc.Body = body
	if doc.Title == TitleNotFound {
		if title := strings.TrimSpace(article.Title); title != "" {
			doc.Title = title
		}
	}
	return nil
}
