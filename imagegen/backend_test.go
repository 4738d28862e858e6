package imagegen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-comment/imagegen"
)

func TestGPTImageBackendReturnsDataURL(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data":[{"b64_json":"aGVsbG8="}]}`))
	}))
	defer srv.Close()

	backend := imagegen.NewGPTImageBackend(imagegen.OpenAIOptions{
		BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-image-1", Width: 1024, Height: 1536,
	})
	location, err := backend.Synthesize(context.Background(), "draw")
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,aGVsbG8=", location)
	assert.Equal(t, "1024x1536", got["size"])
	assert.NotContains(t, got, "style")
	assert.NotContains(t, got, "response_format")
}

func TestDallEBackendSendsQualityAndStyle(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data":[{"url":"https://cdn.example.com/a.png"}]}`))
	}))
	defer srv.Close()

	backend := imagegen.NewDallEBackend(imagegen.OpenAIOptions{
		BaseURL: srv.URL, APIKey: "sk", Model: "dall-e-3", Quality: "hd", Style: "vivid",
	})
	location, err := backend.Synthesize(context.Background(), "draw")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/a.png", location)
	assert.Equal(t, "hd", got["quality"])
	assert.Equal(t, "vivid", got["style"])
	assert.Equal(t, "url", got["response_format"])
}

func TestOpenAIBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"content_policy_violation"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	backend := imagegen.NewDallEBackend(imagegen.OpenAIOptions{BaseURL: srv.URL, APIKey: "sk"})
	_, err := backend.Synthesize(context.Background(), "draw")
	assert.ErrorContains(t, err, "status=400")
}

func TestFluxBackendPollsUntilReady(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/v1/flux-pro-1.1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "flux-key", r.Header.Get("x-key"))
		w.Write([]byte(`{"id":"task-1","polling_url":"` + srvURL + `/v1/get_result?id=task-1"}`))
	})
	mux.HandleFunc("/v1/get_result", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			w.Write([]byte(`{"status":"Pending"}`))
			return
		}
		w.Write([]byte(`{"status":"Ready","result":{"sample":"https://bfl.example.com/img.jpg"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	backend := imagegen.NewFluxBackend(imagegen.FluxOptions{
		Endpoint: srv.URL + "/v1/flux-pro-1.1", APIKey: "flux-key", PollInterval: 5 * time.Millisecond,
	})
	location, err := backend.Synthesize(context.Background(), "draw")
	require.NoError(t, err)

	assert.Equal(t, "https://bfl.example.com/img.jpg", location)
	assert.Equal(t, int32(3), polls.Load())
}

func TestFluxBackendModerated(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"t","polling_url":"` + srvURL + `/result"}`))
	})
	mux.HandleFunc("/result", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"Content Moderated"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	backend := imagegen.NewFluxBackend(imagegen.FluxOptions{Endpoint: srv.URL + "/submit", PollInterval: time.Millisecond})
	_, err := backend.Synthesize(context.Background(), "draw")
	assert.ErrorContains(t, err, "Content Moderated")
}

func TestFireflyBackend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-id", r.Header.Get("x-api-key"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"outputs":[{"seed":1,"image":{"url":"https://firefly.example.com/x.png"}}]}`))
	}))
	defer srv.Close()

	backend := imagegen.NewFireflyBackend(imagegen.FireflyOptions{
		Endpoint: srv.URL + "/v3/images/generate", ClientID: "client-id", AccessToken: "token", Width: 512, Height: 512,
	})
	location, err := backend.Synthesize(context.Background(), "draw")
	require.NoError(t, err)

	assert.Equal(t, "https://firefly.example.com/x.png", location)
	assert.Equal(t, float64(1), got["numVariations"])
	assert.Equal(t, map[string]any{"width": float64(512), "height": float64(512)}, got["size"])
}
