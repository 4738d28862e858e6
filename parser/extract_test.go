package parser_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-comment/parser"
)

func paragraph(n int, word string) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestExtractHeadlineAndParagraphs(t *testing.T) {
	// 세 문단 합계 300자 정도
	p := paragraph(20, "word")
	page := fmt.Sprintf(`<html><head><title>Site Name</title></head><body>
<h1>Test Headline</h1><p>%s</p><p>%s</p><p>%s</p></body></html>`, p, p, p)

	doc, err := parser.ExtractFromHTML(page, "https://news.example.com/a/1")
	require.NoError(t, err)

	assert.Equal(t, "Test Headline", doc.Title)
	assert.GreaterOrEqual(t, utf8.RuneCountInString(doc.Body), 200)
	assert.Equal(t, "https://news.example.com/a/1", doc.SourceURL)
	t.Log(doc.Body)
}

func TestExtractTitleSelectorOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"h1 wins", `<title>T</title><div class="title">C</div><h1>H</h1>`, "H"},
		{"empty h1 skipped", `<title>T</title><h1>  </h1><div class="title">C</div>`, "C"},
		{"id title", `<title>T</title><span id="title">I</span>`, "I"},
		{"class contains title", `<title>T</title><span class="news-title-main">M</span>`, "M"},
		{"page title", `<html><head><title> Page </title></head><body></body></html>`, "Page"},
		{"nothing", `<html><body><p>x</p></body></html>`, parser.TitleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parser.ExtractFromHTML(tt.html, "https://example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Title)
		})
	}
}

func TestExtractBodyPrefersContentSelector(t *testing.T) {
	long := paragraph(60, "story")
	page := fmt.Sprintf(`<html><body>
<nav>menu menu menu</nav>
<div class="article-content">%s<script>var x = 1;</script></div>
<p>sidebar paragraph</p>
<footer>copyright</footer>
</body></html>`, long)

	doc, err := parser.ExtractFromHTML(page, "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, long, doc.Body)
	assert.NotContains(t, doc.Body, "var x")
	assert.NotContains(t, doc.Body, "menu")
}

func TestExtractBodyShortContentFallsBackToParagraphs(t *testing.T) {
	page := `<html><body><div class="content">short</div><p>first para</p><p>second para</p></body></html>`

	doc, err := parser.ExtractFromHTML(page, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "first para second para", doc.Body)
}

func TestExtractBodyRawFallback(t *testing.T) {
	page := "<html><body><div>" + strings.Repeat("a", 2500) + "</div></body></html>"

	doc, err := parser.ExtractFromHTML(page, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, 2000, utf8.RuneCountInString(doc.Body))
}

func TestExtractImages(t *testing.T) {
	page := `<html><body>
<img src="/img/a.jpg">
<img data-src="b.PNG">
<img src="https://cdn.example.com/c.webp">
<img src="/icon.svg">
<img src="/track?id=1">
<img src="/img/a.jpg">
<img src="d.gif"><img src="e.jpeg"><img src="f.jpg"><img src="g.jpg">
</body></html>`

	doc, err := parser.ExtractFromHTML(page, "https://news.example.com/world/story.html")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://news.example.com/img/a.jpg",
		"https://news.example.com/world/b.PNG",
		"https://cdn.example.com/c.webp",
		"https://news.example.com/world/d.gif",
		"https://news.example.com/world/e.jpeg",
	}, doc.ImageURLs)
}

func TestExtractImagesResolution(t *testing.T) {
	page := `<html><body>
<img src="data:image/png;base64,iVBORw0KGgo=">
<img src="../up/a.png?w=640">
<img src="//static.example.net/b.jpg">
<img src="ftp://files.example.com/c.jpg">
<img src="/pic.jpg#frag">
<img src="   ">
</body></html>`

	doc, err := parser.ExtractFromHTML(page, "https://news.example.com/world/story.html")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://news.example.com/up/a.png?w=640",
		"https://static.example.net/b.jpg",
		"https://news.example.com/pic.jpg#frag",
	}, doc.ImageURLs)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello world!", parser.CleanText("  hello \n\t world! "))
	assert.Equal(t, "price 10", parser.CleanText("price $10"))
	assert.Equal(t, "中国经济，增长。", parser.CleanText("中国经济，增长。★"))
	assert.Equal(t, `"quoted" - yes`, parser.CleanText(`"quoted" - yes`))
}
