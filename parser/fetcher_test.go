package parser_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-comment/config"
	"news-comment/parser"
)

func newFetcher(strategy string) *parser.Fetcher {
	return parser.NewFetcher(config.FetcherConfig{Timeout: 2 * time.Second, Strategy: strategy})
}

func TestFetcherExtract(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body><h1>Test Headline</h1><p>%s</p><img src="/a.png"></body></html>`,
			strings.Repeat("text ", 50))
	}))
	defer srv.Close()

	doc, err := newFetcher(config.StrategyHeuristic).Extract(context.Background(), srv.URL+"/news/1")
	require.NoError(t, err)

	assert.Equal(t, "Test Headline", doc.Title)
	assert.Equal(t, []string{srv.URL + "/a.png"}, doc.ImageURLs)
	assert.Contains(t, gotUA, "Mozilla/5.0")
}

func TestFetcherDecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Café" in latin-1
		w.Write([]byte("<html><body><h1>Caf\xe9</h1></body></html>"))
	}))
	defer srv.Close()

	doc, err := newFetcher("").Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Café", doc.Title)
}

func TestFetcherNon2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newFetcher("").Extract(context.Background(), srv.URL)

	var fetchErr *parser.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetcherTimeoutIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := parser.NewFetcher(config.FetcherConfig{Timeout: 100 * time.Millisecond})
	_, err := f.Extract(context.Background(), srv.URL)

	var fetchErr *parser.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Unwrap())
}

func TestFetcherInvalidURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "ftp://example.com/x", "http://"} {
		_, err := newFetcher("").Extract(context.Background(), u)
		var fetchErr *parser.FetchError
		assert.True(t, errors.As(err, &fetchErr), u)
	}
}

func TestFetcherRendererFallsBackToPlainFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Plain</h1></body></html>`))
	}))
	defer srv.Close()

	f := newFetcher("").WithRenderer(func(ctx context.Context, url string) (string, error) {
		return "", errors.New("no chrome")
	})
	doc, err := f.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain", doc.Title)

	f = newFetcher("").WithRenderer(func(ctx context.Context, url string) (string, error) {
		return `<html><body><h1>Rendered</h1></body></html>`, nil
	})
	doc, err = f.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Rendered", doc.Title)
}

func TestFetcherReadabilityStrategy(t *testing.T) {
	var paragraphs strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&paragraphs, "<p>The council approved the harbour redevelopment plan after a long debate, paragraph %d, with residents raising concerns about traffic, noise and rising rents in the neighbourhood.</p>", i)
	}
	page := fmt.Sprintf(`<html><head><title>Harbour plan approved</title></head><body>
<nav><a href="/">Home</a></nav>
<article><h1>Harbour plan approved</h1>%s</article>
</body></html>`, paragraphs.String())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	doc, err := newFetcher(config.StrategyReadability).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Harbour plan approved", doc.Title)
	assert.Contains(t, doc.Body, "harbour redevelopment plan")
}
