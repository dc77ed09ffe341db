package ports

import (
	"context"

	"TrendDeck/internal/domain"
)

// ArticleSource pulls the trending article list from the configured feed.
// Failures are reported as *domain.FetchError.
type ArticleSource interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// ColorProvider sends one instruction plus content to a generative text endpoint.
type ColorProvider interface {
	Generate(ctx context.Context, instruction, content string) (string, error)
}

// DeckRepository keeps published decks for history.
type DeckRepository interface {
	SaveDeck(ctx context.Context, run domain.DeckRun) error
	LatestDeck(ctx context.Context) (domain.DeckRun, bool, error)
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// Notifier streams deck digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when refreshes execute.
type Scheduler interface {
	Start(ctx context.Context, job func(ctx context.Context)) error
	Stop(ctx context.Context) error
}
