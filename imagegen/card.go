package imagegen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/mattn/go-runewidth"

	"news-comment/models"
)

const (
	cardWrapColumns = 28
	cardMaxLines    = 12
	defaultCardSize = 1024
)

var styleColors = map[models.Style][2]string{
	models.StyleProvocative: {"#3b0a0a", "#ff6b6b"},
	models.StyleWitty:       {"#1f2a44", "#ffd166"},
	models.StyleInsightful:  {"#0b3d3a", "#8ce3c7"},
	models.StyleQuestion:    {"#2d1b4e", "#c3a6ff"},
}

var errEmptyCard = errors.New("card: comment text is empty")

// CardRenderer 는 외부 서비스 없이 댓글 텍스트를 담은 SVG 카드를 만든다.
type CardRenderer struct {
	width  int
	height int
}

func NewCardRenderer(width, height int) *CardRenderer {
	if width <= 0 {
		width = defaultCardSize
	}
	if height <= 0 {
		height = defaultCardSize
	}
	return &CardRenderer{width: width, height: height}
}

// Render 는 카드를 data:image/svg+xml;base64 URL 로 돌려준다.
func (r *CardRenderer) Render(comment models.GeneratedComment) (string, error) {
	text := strings.TrimSpace(comment.Text)
	if text == "" {
		return "", errEmptyCard
	}

	colors, ok := styleColors[comment.Style]
	if !ok {
		colors = [2]string{"#222222", "#ffffff"}
	}

	lines := Wrap(text, cardWrapColumns)
	if len(lines) > cardMaxLines {
		lines = lines[:cardMaxLines]
		lines[cardMaxLines-1] = runewidth.Truncate(lines[cardMaxLines-1]+"…", cardWrapColumns, "…")
	}

	fontSize := r.width / 20
	lineHeight := fontSize * 3 / 2
	startY := (r.height - lineHeight*len(lines)) / 2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>`, colors[0])
	fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="sans-serif" font-size="%d" fill="%s">#%s</text>`,
		fontSize, fontSize*2, fontSize*3/4, colors[1], html.EscapeString(string(comment.Style)))
	for i, line := range lines {
		fmt.Fprintf(&sb, `<text x="50%%" y="%d" text-anchor="middle" font-family="'Noto Sans CJK SC','PingFang SC',sans-serif" font-size="%d" fill="#ffffff">%s</text>`,
			startY+lineHeight*(i+1), fontSize, html.EscapeString(line))
	}
	sb.WriteString(`</svg>`)

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(sb.String())), nil
}

// Wrap 은 표시 폭(CJK 는 2칸) 기준으로 텍스트를 줄바꿈한다.
// 공백이 있으면 공백에서, 없으면 글자 단위로 자른다.
func Wrap(text string, columns int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(strings.Join(strings.Fields(paragraph), " "), columns)...)
	}
	return lines
}

func wrapParagraph(text string, columns int) []string {
	if text == "" {
		return nil
	}

	var lines []string
	var line []rune
	width := 0
	lastSpace := -1

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if width+w > columns && len(line) > 0 {
			if r == ' ' {
				lines = append(lines, string(line))
				line, width, lastSpace = line[:0], 0, -1
				continue
			}
			if lastSpace >= 0 {
				rest := append([]rune{}, line[lastSpace+1:]...)
				lines = append(lines, string(line[:lastSpace]))
				line = rest
			} else {
				lines = append(lines, string(line))
				line = line[:0]
			}
			width = runewidth.StringWidth(string(line))
			lastSpace = -1
		}
		if r == ' ' && len(line) == 0 {
			continue
		}
		if r == ' ' {
			lastSpace = len(line)
		}
		line = append(line, r)
		width += w
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
