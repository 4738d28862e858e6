package imagegen_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-comment/config"
	"news-comment/imagegen"
	"news-comment/models"
)

type stubBackend struct {
	location string
	err      error
	block    bool
	panics   bool
	prompts  []string
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Synthesize(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.panics {
		panic("boom")
	}
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.location, s.err
}

var witty = models.GeneratedComment{
	Text:            "The rate hike is the only thing rising faster than my rent.",
	Style:           models.StyleWitty,
	ImagePromptSeed: "a rocket labelled rent",
	ConfidenceScore: 0.8,
}

func TestBuildPrompt(t *testing.T) {
	prompt := imagegen.BuildPrompt(witty, "Central bank raises rates")

	assert.Contains(t, prompt, `Comment: "The rate hike`)
	assert.Contains(t, prompt, "Comment style: witty")
	assert.Contains(t, prompt, `News background: "Central bank raises rates"`)
	assert.Contains(t, prompt, "Scene idea: a rocket labelled rent")
}

func TestIllustrateUsesBackend(t *testing.T) {
	backend := &stubBackend{location: "https://img.example.com/1.png"}
	gen := imagegen.New(backend, config.ImageConfig{Timeout: time.Second})

	location, ok := gen.Illustrate(context.Background(), witty, "Rates")

	assert.True(t, ok)
	assert.Equal(t, "https://img.example.com/1.png", location)
	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "Rates")
}

func TestIllustrateFallsBackToCard(t *testing.T) {
	tests := []struct {
		name    string
		backend *stubBackend
	}{
		{"timeout", &stubBackend{block: true}},
		{"error", &stubBackend{err: errors.New("503")}},
		{"empty location", &stubBackend{}},
		{"panic", &stubBackend{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := imagegen.New(tt.backend, config.ImageConfig{Timeout: 20 * time.Millisecond})

			start := time.Now()
			location, ok := gen.Illustrate(context.Background(), witty, "Rates")

			assert.True(t, ok)
			assert.True(t, strings.HasPrefix(location, "data:image/svg+xml;base64,"))
			assert.Less(t, time.Since(start), 2*time.Second)
		})
	}
}

func TestIllustrateWithoutBackend(t *testing.T) {
	gen := imagegen.New(nil, config.ImageConfig{})

	location, ok := gen.Illustrate(context.Background(), witty, "Rates")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(location, "data:image/svg+xml;base64,"))
}

func TestIllustrateNothingWhenCardImpossible(t *testing.T) {
	gen := imagegen.New(&stubBackend{err: errors.New("down")}, config.ImageConfig{Timeout: time.Second})

	location, ok := gen.Illustrate(context.Background(), models.GeneratedComment{Style: models.StyleQuestion}, "Rates")
	assert.False(t, ok)
	assert.Empty(t, location)
}

func TestNewBackend(t *testing.T) {
	base := config.Default().Image

	tests := []struct {
		provider string
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{provider: config.ImageProviderGPTImage, wantName: "gpt-image"},
		{provider: config.ImageProviderDallE, wantName: "dalle"},
		{provider: config.ImageProviderFlux, wantName: "flux"},
		{provider: config.ImageProviderFirefly, wantName: "firefly"},
		{provider: config.ImageProviderLocal, wantNil: true},
		{provider: "sora", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := base
			cfg.Provider = tt.provider
			backend, err := imagegen.NewBackend(context.Background(), cfg, config.LLMConfig{OpenAIAPIKey: "sk"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, backend)
				return
			}
			require.NotNil(t, backend)
			assert.Equal(t, tt.wantName, backend.Name())
		})
	}
}
