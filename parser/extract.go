package parser

import (
	"net/url"
	"path"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"news-comment/models"
)

// TitleNotFound 는 어떤 선택자로도 제목을 찾지 못했을 때의 값이다.
const TitleNotFound = "no title found"

const (
	minContentRunes  = 200
	rawFallbackRunes = 2000
	maxImages        = 5
)

var titleSelectors = []string{
	"h1",
	".title",
	"#title",
	`[class*="title"]`,
	"title",
}

var contentSelectors = []string{
	`[class*="content"]`,
	`[class*="article"]`,
	`[class*="story"]`,
	`[id*="content"]`,
	`[id*="article"]`,
	"main",
	".post-content",
}

const noiseSelector = "script,style,nav,header,footer,aside"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

var whitespaceRe = regexp.MustCompile(`\s+`)

// 허용 목록: 문자/숫자/밑줄, 공백, CJK 통합 한자, 기본 문장부호와 전각 문장부호
var disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\x{4e00}-\x{9fff}.,!?;:()"'“”‘’—\-，。！？；：（）、《》「」]`)

// CleanText 는 공백을 하나로 합치고 허용 목록 밖의 문자를 제거한다.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractFromHTML 은 이미 받아온 HTML 에서 제목/본문/이미지를 뽑는다.
func ExtractFromHTML(htmlStr string, pageURL string) (*models.ExtractedDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}
	return extractDocument(doc, pageURL), nil
}

func extractDocument(doc *goquery.Document, pageURL string) *models.ExtractedDocument {
	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil {
		base = u
	}

	// 이미지는 노이즈 태그를 지우기 전에 수집한다. (헤더 로고 등은 확장자 필터로 걸러지지 않는다.)
	images := extractImages(doc, base)
	title := extractTitle(doc)
	body := extractBody(doc)

	return &models.ExtractedDocument{
		Title:     title,
		Body:      body,
		ImageURLs: images,
		SourceURL: pageURL,
	}
}

func extractTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return whitespaceRe.ReplaceAllString(text, " ")
		}
	}
	return TitleNotFound
}

// extractBody 는 노이즈 태그를 제거한 뒤 본문 후보를 순서대로 시도한다.
// 문서를 변경하므로 제목/이미지 추출 이후에 호출해야 한다.
func extractBody(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	for _, sel := range contentSelectors {
		elems := doc.Find(sel)
		if elems.Length() == 0 {
			continue
		}
		texts := make([]string, 0, elems.Length())
		elems.Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, s.Text())
		})
		text := CleanText(strings.Join(texts, " "))
		if utf8.RuneCountInString(text) > minContentRunes {
			return text
		}
	}

	paragraphs := doc.Find("p")
	if paragraphs.Length() > 0 {
		texts := make([]string, 0, paragraphs.Length())
		paragraphs.Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, s.Text())
		})
		return CleanText(strings.Join(texts, " "))
	}

	return CleanText(truncateRunes(doc.Text(), rawFallbackRunes))
}

func extractImages(doc *goquery.Document, base *url.URL) []string {
	images := make([]string, 0, maxImages)
	seen := map[string]struct{}{}
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(s.AttrOr("data-src", ""))
		}

		abs, ok := imageURL(src, base)
		if !ok {
			return true
		}
		if _, dup := seen[abs]; dup {
			return true
		}
		seen[abs] = struct{}{}
		images = append(images, abs)
		return len(images) < maxImages
	})
	return images
}

// imageURL 은 src 를 페이지 기준 절대 http(s) URL 로 바꾼다.
// data: URI, 해석할 수 없는 값, 허용 확장자가 아닌 경로는 버린다.
func imageURL(src string, base *url.URL) (string, bool) {
	if src == "" || strings.HasPrefix(strings.ToLower(src), "data:") {
		return "", false
	}
	ref, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return "", false
	}
	if !slices.Contains(imageExtensions, strings.ToLower(path.Ext(ref.Path))) {
		return "", false
	}
	return ref.String(), true
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
