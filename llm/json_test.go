package llm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-comment/llm"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  \n```json {\"a\":1} ```  \n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, llm.StripCodeFence(tt.in))
		})
	}
}

type sample struct {
	Points  []string `json:"points"`
	Summary string   `json:"summary"`
}

func TestDecodeJSON(t *testing.T) {
	var out sample
	require.NoError(t, llm.DecodeJSON("```json\n{\"points\":[\"x\"],\"summary\":\"s\"}\n```", &out))
	assert.Equal(t, sample{Points: []string{"x"}, Summary: "s"}, out)
}

func TestDecodeJSONRejects(t *testing.T) {
	tests := map[string]string{
		"not json":      "sorry, I cannot help",
		"wrong type":    `{"points":"x","summary":"s"}`,
		"unknown field": `{"points":[],"summary":"s","extra":1}`,
		"trailing data": `{"points":[],"summary":"s"} {"more":true}`,
		"null":          "null",
		"fenced null":   "```json\nnull\n```",
		"array":         `[{"points":["x"],"summary":"s"}]`,
		"string":        `"summary"`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			var out sample
			err := llm.DecodeJSON(raw, &out)
			assert.True(t, errors.Is(err, llm.ErrMalformedJSON), "%v", err)
		})
	}

	var out sample
	assert.ErrorIs(t, llm.DecodeJSON("```json\n```", &out), llm.ErrEmptyResponse)
}
