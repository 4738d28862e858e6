package reddit

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"news-comment/config"
	"news-comment/models"
)

const (
	searchScope       = "all"
	maxKeywords       = 3
	commentsPerPost   = 5
	minCommentRunes   = 50
	minCommentScore   = 10
	maxReferences     = 5
	DefaultQueryLimit = 10
)

// Searcher 는 Miner 가 사용하는 토론 검색 기능이다. *Client 가 구현한다.
type Searcher interface {
	Search(ctx context.Context, subreddit, query string, limit int) ([]Submission, error)
	TopLevelComments(ctx context.Context, sub Submission) ([]Comment, error)
}

// Miner 는 키워드로 인기 댓글을 찾아 참고 자료로 정리한다.
type Miner struct {
	searcher Searcher
}

// NewMiner 는 searcher 가 nil 이면 항상 빈 결과를 돌려주는 Miner 를 만든다.
func NewMiner(searcher Searcher) *Miner {
	return &Miner{searcher: searcher}
}

// NewMinerFromConfig 는 자격 증명이 있을 때만 Reddit 클라이언트를 붙인다.
func NewMinerFromConfig(cfg config.RedditConfig) *Miner {
	if !cfg.Enabled() {
		config.Logger.Warn("reddit credentials missing, reference mining disabled")
		return NewMiner(nil)
	}
	return NewMiner(NewClient(cfg))
}

// BuildQuery 는 앞의 비어 있지 않은 키워드 최대 3개를 " OR " 로 잇는다.
func BuildQuery(keywords []string) string {
	terms := make([]string, 0, maxKeywords)
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		terms = append(terms, k)
		if len(terms) == maxKeywords {
			break
		}
	}
	return strings.Join(terms, " OR ")
}

// FindReferences 는 검색 결과 게시물의 앞쪽 최상위 댓글 중 품질 기준을 넘는 것을 골라
// score + awards*10 순으로 최대 5개를 돌려준다. 검색 서비스가 실패하면 빈 결과를 돌려준다.
func (m *Miner) FindReferences(ctx context.Context, keywords []string, limit int) []models.DiscourseReference {
	if m.searcher == nil {
		return []models.DiscourseReference{}
	}
	query := BuildQuery(keywords)
	if query == "" {
		return []models.DiscourseReference{}
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	refs, err := m.collect(ctx, query, limit)
	if err != nil {
		config.WarnWithFields("reference mining degraded", config.Fields{
			"query": query,
			"error": err.Error(),
		})
		return []models.DiscourseReference{}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Rank() > refs[j].Rank()
	})
	if len(refs) > maxReferences {
		refs = refs[:maxReferences]
	}

	config.Logger.Infof("found %d references for query %q", len(refs), query)
	return refs
}

func (m *Miner) collect(ctx context.Context, query string, limit int) ([]models.DiscourseReference, error) {
	subs, err := m.searcher.Search(ctx, searchScope, query, limit)
	if err != nil {
		return nil, err
	}

	refs := []models.DiscourseReference{}
	for _, sub := range subs {
		comments, err := m.searcher.TopLevelComments(ctx, sub)
		if err != nil {
			return nil, err
		}
		if len(comments) > commentsPerPost {
			comments = comments[:commentsPerPost]
		}

		for _, c := range comments {
			if utf8.RuneCountInString(c.Body) <= minCommentRunes || c.Score <= minCommentScore {
				continue
			}
			community := c.Subreddit
			if community == "" {
				community = sub.Subreddit
			}
			refs = append(refs, models.DiscourseReference{
				Text:            truncateRunes(c.Body, models.ReferenceTextLimit),
				PopularityScore: c.Score,
				AwardCount:      c.AwardCount(),
				OriginCommunity: community,
				Style:           ClassifyStyle(c.Body),
			})
		}
	}
	return refs, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
