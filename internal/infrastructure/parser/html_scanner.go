package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TrendDeck/internal/domain"
	"TrendDeck/internal/scanner"
)

// HTMLScanner scrapes a trending listing page using CSS selectors.
type HTMLScanner struct {
	client *http.Client
}

var _ scanner.Scanner = (*HTMLScanner)(nil)

// NewHTMLScanner wires an HTTP client; nil gets a client with a 15s timeout.
func NewHTMLScanner(client *http.Client) *HTMLScanner {
	return &HTMLScanner{client: defaultClient(client)}
}

// Name identifies the strategy inside the registry.
func (s *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches the page and extracts one article per req.Selectors.Item match.
func (s *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if req.Selectors.Item == "" {
		return nil, domain.NetworkError(errors.New("html scanner needs an item selector"))
	}

	resp, err := get(ctx, s.client, req.Endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, domain.NetworkError(fmt.Errorf("parse document: %w", err))
	}

	return extractArticles(doc, req), nil
}

func extractArticles(doc *goquery.Document, req scanner.Request) []domain.Article {
	var collected []domain.Article

	doc.Find(req.Selectors.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		article := parseItem(item, req.Selectors, req.BaseURL)
		if article.Title == "" && article.URL == "" {
			return true
		}
		collected = append(collected, article)
		return len(collected) < scanner.MaxArticles
	})

	return collected
}

func parseItem(item *goquery.Selection, sel scanner.Selectors, base string) domain.Article {
	title := item.Text()
	if sel.Title != "" {
		title = item.Find(sel.Title).First().Text()
	}

	var emoji string
	if sel.Emoji != "" {
		emoji = item.Find(sel.Emoji).First().Text()
	}

	link := item
	if sel.Link != "" {
		link = item.Find(sel.Link).First()
	}
	href, _ := link.Attr("href")

	return domain.Article{
		Title: strings.TrimSpace(title),
		Emoji: strings.TrimSpace(emoji),
		URL:   absolute(base, href),
	}
}
