package scanner

import (
	"context"
	"fmt"

	"TrendDeck/internal/domain"
)

// MaxArticles caps how many feed entries a scan keeps.
const MaxArticles = domain.DeckSize

// Selectors locate trending entries inside an HTML page.
type Selectors struct {
	Item  string
	Title string
	Emoji string
	Link  string
}

// Request carries all parameters required to execute a scan.
type Request struct {
	Endpoint  string
	BaseURL   string
	Selectors Selectors
}

// Scanner captures a single feed strategy implementation (JSON, RSS, HTML).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// Truncate keeps at most MaxArticles entries in feed order.
func Truncate(articles []domain.Article) []domain.Article {
	if len(articles) > MaxArticles {
		return articles[:MaxArticles]
	}
	return articles
}
