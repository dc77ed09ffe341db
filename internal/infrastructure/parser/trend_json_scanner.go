package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"TrendDeck/internal/domain"
	"TrendDeck/internal/scanner"
)

// trendEntry mirrors one element of the trending-articles JSON array.
type trendEntry struct {
	Title string `json:"title"`
	Emoji string `json:"emoji"`
	Path  string `json:"path"`
}

// TrendJSONScanner reads a JSON array of {title, emoji, path} entries.
type TrendJSONScanner struct {
	client *http.Client
}

var _ scanner.Scanner = (*TrendJSONScanner)(nil)

// NewTrendJSONScanner wires an HTTP client; nil gets a client with a 15s timeout.
func NewTrendJSONScanner(client *http.Client) *TrendJSONScanner {
	return &TrendJSONScanner{client: defaultClient(client)}
}

// Name identifies the strategy inside the registry.
func (s *TrendJSONScanner) Name() string {
	return "json"
}

// Scan performs one GET and returns at most scanner.MaxArticles articles in feed order.
// The article URL is the base origin concatenated with the entry path.
func (s *TrendJSONScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	resp, err := get(ctx, s.client, req.Endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NetworkError(fmt.Errorf("read body: %w", err))
	}

	var entries []trendEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, domain.NetworkError(fmt.Errorf("decode feed: %w", err))
	}

	base := baseOrDefault(req.BaseURL)
	articles := make([]domain.Article, 0, min(len(entries), scanner.MaxArticles))
	for _, entry := range entries {
		if len(articles) == scanner.MaxArticles {
			break
		}
		articles = append(articles, domain.Article{
			Title: entry.Title,
			Emoji: entry.Emoji,
			URL:   base + entry.Path,
		})
	}

	return articles, nil
}
