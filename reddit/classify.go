package reddit

import (
	"strings"
	"unicode/utf8"

	"news-comment/models"
)

var provocationLexicon = []string{"stupid", "wrong", "disagree", "ridiculous"}

var humorLexicon = []string{"lol", "funny", "joke", "haha", "😂"}

const insightfulMinRunes = 200

// ClassifyStyle 는 고정된 규칙을 순서대로 적용해 첫 번째로 맞는 스타일을 돌려준다.
func ClassifyStyle(text string) models.Style {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, provocationLexicon):
		return models.StyleProvocative
	case containsAny(lower, humorLexicon):
		return models.StyleWitty
	case strings.Count(text, "?") >= 2:
		return models.StyleQuestion
	case utf8.RuneCountInString(text) > insightfulMinRunes:
		return models.StyleInsightful
	default:
		return models.StyleNeutral
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
