package pipeline

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"news-comment/models"
)

// 검색어 후보에서 제외할 불용어.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {}, "for": {}, "is": {}, "on": {}, "with": {}, "as": {},
	"by": {}, "at": {}, "from": {}, "that": {}, "this": {}, "it": {}, "an": {}, "be": {}, "or": {}, "are": {}, "was": {},
	"will": {}, "has": {}, "have": {}, "had": {}, "but": {}, "not": {}, "your": {}, "you": {}, "we": {}, "our": {},
	"its": {}, "they": {}, "their": {}, "more": {}, "than": {}, "about": {}, "after": {}, "over": {}, "into": {},
}

// Keywords 는 Reddit 검색에 쓸 키워드를 만든다.
// 첫 항목은 기사 제목이고, 이어서 핵심 관점과 요약에서 자주 나온 단어가 온다.
// 분석이 저하된 경우에는 제목만 돌려준다.
func Keywords(title string, analysis models.AnalysisResult, n int) []string {
	var out []string
	if t := strings.TrimSpace(title); t != "" {
		out = append(out, t)
	}
	if analysis.IsDegraded() {
		return out
	}

	text := strings.Join(append(append([]string{}, analysis.CoreViewpoints...), analysis.Summary), " ")
	return append(out, TopTopics(text, n)...)
}

// TopTopics 는 불용어와 짧은 토큰을 뺀 단어를 빈도순으로 n 개 돌려준다. 동률이면 사전순이다.
func TopTopics(text string, n int) []string {
	freq := map[string]int{}
	token := func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }

	for _, w := range strings.FieldsFunc(strings.ToLower(text), token) {
		if utf8.RuneCountInString(w) < 3 && !hasHan(w) {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		freq[w]++
	}

	type kv struct {
		K string
		V int
	}
	list := make([]kv, 0, len(freq))
	for k, v := range freq {
		list = append(list, kv{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].V == list[j].V {
			return list[i].K < list[j].K
		}
		return list[i].V > list[j].V
	})
	if n > len(list) {
		n = len(list)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, list[i].K)
	}
	return out
}

// 한자 단어는 두 글자도 의미가 있으므로 길이 제한에서 뺀다.
func hasHan(w string) bool {
	for _, r := range w {
		if unicode.Is(unicode.Han, r) {
			return utf8.RuneCountInString(w) >= 2
		}
	}
	return false
}
