package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"news-comment/config"
)

// ParsedArticle 은 본문 추출 라이브러리의 결과를 공통 형태로 담는다.
type ParsedArticle struct {
	Title            string
	PlainTextContent string
}

// articleParser 는 strategy 이름에 대응하는 본문 추출기이다.
type articleParser func(htmlStr string, pageURL *url.URL) (*ParsedArticle, error)

func parserFor(strategy string) (articleParser, error) {
	switch strategy {
	case config.StrategyReadability:
		return ParseHtmlWithReadability, nil
	case config.StrategyTrafilatura:
		return ParseHtmlWithTrafilatura, nil
	case config.StrategyGoose:
		return ParseHtmlWithGoose, nil
	case config.StrategyHeuristic, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", strategy)
	}
}

func ParseHtmlWithReadability(htmlStr string, pageURL *url.URL) (*ParsedArticle, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	article, err := readability.FromDocument(doc, pageURL)
	if err != nil {
		return nil, err
	}
	return &ParsedArticle{
		Title:            article.Title,
		PlainTextContent: article.TextContent,
	}, nil
}

func ParseHtmlWithTrafilatura(htmlStr string, pageURL *url.URL) (*ParsedArticle, error) {
	opts := trafilatura.Options{
		OriginalURL: pageURL,
	}

	article, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return nil, err
	}

	return &ParsedArticle{
		Title:            article.Metadata.Title,
		PlainTextContent: article.ContentText,
	}, nil
}

func ParseHtmlWithGoose(htmlStr string, pageURL *url.URL) (*ParsedArticle, error) {
	rawURL := ""
	if pageURL != nil {
		rawURL = pageURL.String()
	}

	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, rawURL)
	if err != nil {
		return nil, err
	}
	return &ParsedArticle{
		Title:            article.Title,
		PlainTextContent: article.CleanedText,
	}, nil
}
