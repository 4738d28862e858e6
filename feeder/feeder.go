package feeder

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"news-comment/httpclient"
	"news-comment/renderer"
)

type RssFeedItem struct {
	Title       string
	Link        string
	PublishedAt time.Time
}

// FetchRssFeeds fetches RSS feeds from the given URL.
// If limit is greater than 0, it returns only the first limit items.
// Items without a link are skipped.
func FetchRssFeeds(ctx context.Context, rssUrl string, limit int) ([]RssFeedItem, error) {
	fp := gofeed.NewParser()
	fp.Client = httpclient.New(httpclient.Config{Timeout: 15 * time.Second})
	fp.UserAgent = renderer.USER_AGENT

	feed, err := fp.ParseURLWithContext(rssUrl, ctx)
	if err != nil {
		return nil, err
	}

	var items []RssFeedItem
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		items = append(items, RssFeedItem{
			Title:       item.Title,
			Link:        link,
			PublishedAt: published,
		})
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
