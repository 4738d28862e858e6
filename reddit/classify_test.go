package reddit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"news-comment/models"
	"news-comment/reddit"
)

func TestClassifyStyle(t *testing.T) {
	long := strings.Repeat("a", 201)

	tests := []struct {
		name string
		text string
		want models.Style
	}{
		{"provocative", "This is a STUPID policy", models.StyleProvocative},
		{"provocative beats witty", "lol this is ridiculous", models.StyleProvocative},
		{"witty", "haha, good one", models.StyleWitty},
		{"emoji", "took me a minute 😂", models.StyleWitty},
		{"witty beats question", "funny? really? why?", models.StyleWitty},
		{"question", "Who pays? And when?", models.StyleQuestion},
		{"single question mark", "Who pays?", models.StyleNeutral},
		{"question beats length", long + "??", models.StyleQuestion},
		{"insightful", long, models.StyleInsightful},
		{"exactly 200 is neutral", strings.Repeat("b", 200), models.StyleNeutral},
		{"neutral", "Interesting read.", models.StyleNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reddit.ClassifyStyle(tt.text))
		})
	}
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "a OR b OR c", reddit.BuildQuery([]string{"a", "b", "c", "d"}))
	assert.Equal(t, "a OR c", reddit.BuildQuery([]string{"a", " ", "c"}))
	assert.Equal(t, "", reddit.BuildQuery(nil))
}
