package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"TrendDeck/internal/domain"
	"TrendDeck/internal/ports"
)

// RefresherDeps wires pipeline construction and publishing side effects.
type RefresherDeps struct {
	NewPipeline func() *Pipeline
	Driver      ports.Scheduler
	Repository  ports.DeckRepository
	Notifier    ports.Notifier
	Logger      *slog.Logger
	Now         func() time.Time
	NewID       func() string
}

// Refresher starts fresh pipeline runs and publishes only the most recently started one.
// Results of runs overtaken by a newer run are discarded.
type Refresher struct {
	newPipeline func() *Pipeline
	driver      ports.Scheduler
	repository  ports.DeckRepository
	notifier    ports.Notifier
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string

	mu         sync.RWMutex
	generation uint64
	published  domain.PipelineState
}

// NewRefresher returns a refresher whose published state starts at Loading.
func NewRefresher(deps RefresherDeps) *Refresher {
	r := &Refresher{
		newPipeline: deps.NewPipeline,
		driver:      deps.Driver,
		repository:  deps.Repository,
		notifier:    deps.Notifier,
		logger:      deps.Logger,
		now:         deps.Now,
		newID:       deps.NewID,
		published:   domain.Loading(),
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	return r
}

// Refresh runs a new pipeline to completion and returns its terminal state.
// The state is published only if no newer refresh started in the meantime.
func (r *Refresher) Refresh(ctx context.Context) domain.PipelineState {
	if r.newPipeline == nil {
		return domain.Failed("pipeline factory is not configured")
	}

	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	state := r.newPipeline().Run(ctx)

	r.mu.Lock()
	latest := gen == r.generation
	if latest {
		r.published = state
	}
	r.mu.Unlock()

	if !latest {
		r.debug("discarding stale run", "generation", gen)
		return state
	}

	r.afterPublish(ctx, state)
	return state
}

// State returns the last published state.
func (r *Refresher) State() domain.PipelineState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.published
}

// Start registers Refresh with the configured scheduler driver.
func (r *Refresher) Start(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}

	job := func(ctx context.Context) {
		_ = r.Refresh(ctx)
	}

	return r.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}

	return r.driver.Stop(ctx)
}

func (r *Refresher) afterPublish(ctx context.Context, state domain.PipelineState) {
	if state.Kind != domain.StateReady {
		return
	}

	if r.repository != nil {
		run := domain.DeckRun{ID: r.newID(), CreatedAt: r.now().UTC(), Deck: state.Deck}
		if err := r.repository.SaveDeck(ctx, run); err != nil {
			r.warn("persist deck", "error", err)
		}
	}

	if r.notifier == nil || state.Deck.Filled() == 0 {
		return
	}
	if err := r.notifier.PublishDigest(ctx, buildDigestMessage(state.Deck)); err != nil {
		r.warn("publish digest", "error", err)
	}
}

func buildDigestMessage(deck domain.Deck) string {
	var b strings.Builder
	for _, card := range deck {
		if card.Placeholder() {
			continue
		}
		fmt.Fprintf(&b, "%s %s [%s]\n%s\n\n", card.Emoji, card.Title, card.Color, card.URL)
	}
	return b.String()
}

func (r *Refresher) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Refresher) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
