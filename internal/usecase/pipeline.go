package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"TrendDeck/internal/domain"
	"TrendDeck/internal/ports"
)

// AssembleFunc merges articles and raw colours into a deck.
type AssembleFunc func(articles []domain.Article, colors []string) domain.Deck

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.ArticleSource
	Annotator Annotator
	Assemble  AssembleFunc
	Logger    *slog.Logger
}

// Pipeline runs fetch, annotate and assemble once and owns the resulting state.
// A new run needs a new Pipeline.
type Pipeline struct {
	source    ports.ArticleSource
	annotator Annotator
	assemble  AssembleFunc
	logger    *slog.Logger

	once  sync.Once
	mu    sync.RWMutex
	state domain.PipelineState
}

// NewPipeline constructs the orchestration component in the Loading state.
func NewPipeline(deps PipelineDeps) *Pipeline {
	assemble := deps.Assemble
	if assemble == nil {
		assemble = Assemble
	}
	return &Pipeline{
		source:    deps.Source,
		annotator: deps.Annotator,
		assemble:  assemble,
		logger:    deps.Logger,
		state:     domain.Loading(),
	}
}

// Run executes the pipeline and returns its terminal state.
// Later calls do not re-run anything and return the same terminal state.
func (p *Pipeline) Run(ctx context.Context) domain.PipelineState {
	p.once.Do(func() {
		p.setState(p.execute(ctx))
	})
	return p.State()
}

// State returns the current state; safe for concurrent readers.
func (p *Pipeline) State() domain.PipelineState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Pipeline) execute(ctx context.Context) domain.PipelineState {
	if p.source == nil {
		return domain.Failed("article source is not configured")
	}

	articles, err := p.source.Fetch(ctx)
	if err != nil {
		return domain.Failed(failureMessage(err))
	}

	if len(articles) == 0 {
		p.logInfo("feed returned no articles")
		return domain.Ready(p.assemble(nil, nil))
	}

	var colors []string
	if p.annotator != nil {
		urls := make([]string, len(articles))
		for i, article := range articles {
			urls[i] = article.URL
		}
		if annotated, ok := p.annotator.Annotate(ctx, urls); ok {
			colors = annotated
		}
	}

	return domain.Ready(p.assemble(articles, colors))
}

func (p *Pipeline) setState(state domain.PipelineState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()

	switch state.Kind {
	case domain.StateFailed:
		p.logError("pipeline failed", "message", state.Message)
	case domain.StateReady:
		p.logInfo("pipeline ready", "cards", state.Deck.Filled())
	}
}

func failureMessage(err error) string {
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Error()
	}
	return err.Error()
}

func (p *Pipeline) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) logError(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Error(msg, args...)
	}
}
