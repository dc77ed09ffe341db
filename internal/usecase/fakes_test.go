package usecase

import (
	"context"
	"errors"
	"sync"

	"TrendDeck/internal/domain"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	failures int
	text     string
	contents []string
}

func (f *fakeProvider) Generate(_ context.Context, _ string, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.contents = append(f.contents, content)
	if f.failures < 0 || f.calls <= f.failures {
		return "", errors.New("provider unavailable")
	}
	return f.text, nil
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSource struct {
	articles []domain.Article
	err      error
	release  chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Fetch(ctx context.Context) ([]domain.Article, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, domain.NetworkError(ctx.Err())
		}
	}
	return f.articles, f.err
}

type countingAnnotator struct {
	mu     sync.Mutex
	calls  int
	urls   []string
	colors []string
	ok     bool
}

func (c *countingAnnotator) Annotate(_ context.Context, urls []string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.urls = urls
	return c.colors, c.ok
}

type recordingRepository struct {
	mu   sync.Mutex
	runs []domain.DeckRun
	err  error
}

func (r *recordingRepository) SaveDeck(_ context.Context, run domain.DeckRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return r.err
}

func (r *recordingRepository) LatestDeck(context.Context) (domain.DeckRun, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.runs) == 0 {
		return domain.DeckRun{}, false, nil
	}
	return r.runs[len(r.runs)-1], true, nil
}

func (r *recordingRepository) ListRuns(context.Context, int) ([]domain.RunSummary, error) {
	return nil, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	digests []string
}

func (n *recordingNotifier) PublishDigest(_ context.Context, digest string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.digests = append(n.digests, digest)
	return nil
}

func articlesN(n int) []domain.Article {
	out := make([]domain.Article, n)
	for i := range out {
		out[i] = domain.Article{
			Title: string(rune('A' + i%26)),
			Emoji: "🔥",
			URL:   "https://zenn.dev/" + string(rune('a'+i%26)),
		}
	}
	return out
}
