package finnhub

import (
	"context"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/format"
	"stockfetcher/internal/series"
	"stockfetcher/internal/stock"
)

const (
	// NewsWindow is how far back company news is requested.
	NewsWindow = 7 * 24 * time.Hour
	// NewsLimit caps the number of articles kept, in provider order.
	NewsLimit = 5
)

// NewsFetcher lists recent company news.
type NewsFetcher struct {
	client *Client
}

// NewNewsFetcher creates a company news fetcher
func NewNewsFetcher(client *Client) *NewsFetcher {
	return &NewsFetcher{client: client}
}

// Fetch returns up to NewsLimit articles published in the trailing NewsWindow.
// Failures are logged and yield an empty list.
func (n *NewsFetcher) Fetch(ctx context.Context, ticker string) []stock.Article {
	now := n.client.now()
	doc, err := n.client.list(ctx, "/company-news", ticker, map[string]string{
		"from": now.Add(-NewsWindow).Format(series.DateLayout),
		"to":   now.Format(series.DateLayout),
	})
	if err != nil {
		n.client.logger.Warn("news unavailable",
			"ticker", ticker,
			"error_type", fetcher.TypeOf(err),
			"error", err)
		return []stock.Article{}
	}

	articles := make([]stock.Article, 0, NewsLimit)
	doc.ForEach(func(_, item gjson.Result) bool {
		if len(articles) == NewsLimit {
			return false
		}
		if !item.IsObject() {
			return true
		}
		published := time.Unix(item.Get("datetime").Int(), 0).UTC()
		articles = append(articles, stock.Article{
			Title:       strings.TrimSpace(item.Get("headline").String()),
			URL:         item.Get("url").String(),
			Source:      item.Get("source").String(),
			PublishedAt: published,
			TimeAgo:     format.TimeAgo(now.Sub(published)),
		})
		return true
	})
	return articles
}
