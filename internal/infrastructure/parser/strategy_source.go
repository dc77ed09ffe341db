package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"TrendDeck/internal/config"
	"TrendDeck/internal/domain"
	"TrendDeck/internal/ports"
	"TrendDeck/internal/scanner"
)

// StrategySource implements ArticleSource via the scanner registered for the feed kind.
type StrategySource struct {
	registry *scanner.Registry
	feed     config.FeedConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with the configured feed.
func NewStrategySource(reg *scanner.Registry, feed config.FeedConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		feed:     feed,
		logger:   log,
	}
}

// Fetch runs the configured scanner once. Every failure is a *domain.FetchError.
func (s *StrategySource) Fetch(ctx context.Context) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, domain.NetworkError(errors.New("scanner registry is not configured"))
	}

	strategy, err := s.registry.Resolve(s.feed.Kind)
	if err != nil {
		return nil, domain.NetworkError(fmt.Errorf("feed %s: %w", s.feed.Endpoint, err))
	}

	s.debug("fetch feed", "kind", s.feed.Kind, "endpoint", s.feed.Endpoint)

	articles, err := strategy.Scan(ctx, scanner.Request{
		Endpoint:  s.feed.Endpoint,
		BaseURL:   s.feed.BaseURL,
		Selectors: toScannerSelectors(s.feed.Selectors),
	})
	if err != nil {
		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			err = domain.NetworkError(err)
		}
		return nil, err
	}

	articles = scanner.Truncate(articles)
	s.debug("feed produced articles", "count", len(articles))
	return articles, nil
}

func toScannerSelectors(cfg config.SelectorConfig) scanner.Selectors {
	return scanner.Selectors{
		Item:  cfg.Item,
		Title: cfg.Title,
		Emoji: cfg.Emoji,
		Link:  cfg.Link,
	}
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
