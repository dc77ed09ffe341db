package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"TrendDeck/internal/domain"
	"TrendDeck/internal/scanner"
)

// RSSScanner reads trending entries from an RSS or Atom feed.
type RSSScanner struct {
	client *http.Client
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner wires an HTTP client; nil gets a client with a 15s timeout.
func NewRSSScanner(client *http.Client) *RSSScanner {
	return &RSSScanner{client: defaultClient(client)}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan parses the feed and keeps the first scanner.MaxArticles items.
// Feeds carry no emoji, so that field stays empty.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	resp, err := get(ctx, s.client, req.Endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, domain.NetworkError(fmt.Errorf("parse feed: %w", err))
	}

	articles := make([]domain.Article, 0, min(len(feed.Items), scanner.MaxArticles))
	for _, item := range feed.Items {
		if len(articles) == scanner.MaxArticles {
			break
		}
		if item == nil {
			continue
		}
		articles = append(articles, domain.Article{
			Title: strings.TrimSpace(item.Title),
			URL:   absolute(req.BaseURL, item.Link),
		})
	}

	return articles, nil
}
