package usecase

import (
	"context"
	"log/slog"
	"strings"

	"TrendDeck/internal/ports"
)

// DefaultMaxRetries is the total number of annotation attempts per run.
const DefaultMaxRetries = 3

// Annotator produces raw colour tokens for article URLs.
// A false second result means no colours are available.
type Annotator interface {
	Annotate(ctx context.Context, urls []string) ([]string, bool)
}

// ColorAnnotator asks a generative provider for one colour per URL in a single batched call.
type ColorAnnotator struct {
	provider    ports.ColorProvider
	instruction string
	maxRetries  int
	logger      *slog.Logger
}

var _ Annotator = (*ColorAnnotator)(nil)

// NewColorAnnotator wires the provider; maxRetries below 1 means a single attempt.
func NewColorAnnotator(provider ports.ColorProvider, instruction string, maxRetries int, logger *slog.Logger) *ColorAnnotator {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ColorAnnotator{
		provider:    provider,
		instruction: instruction,
		maxRetries:  maxRetries,
		logger:      logger,
	}
}

// Annotate submits all URLs newline-joined and returns the non-empty trimmed response lines.
// Failed attempts are retried immediately; after maxRetries failures it reports no result.
// Tokens are not validated here.
func (a *ColorAnnotator) Annotate(ctx context.Context, urls []string) ([]string, bool) {
	if a.provider == nil {
		a.debug("annotation skipped, no provider")
		return nil, false
	}

	content := strings.Join(urls, "\n")
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		text, err := a.provider.Generate(ctx, a.instruction, content)
		if err == nil {
			colors := parseColorLines(text)
			a.debug("annotation succeeded", "attempt", attempt, "lines", len(colors), "urls", len(urls))
			return colors, true
		}
		a.warn("annotation attempt failed", "attempt", attempt, "max", a.maxRetries, "error", err)
	}

	a.warn("annotation exhausted, continuing without colours", "attempts", a.maxRetries)
	return nil, false
}

func parseColorLines(text string) []string {
	lines := strings.Split(text, "\n")
	colors := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		colors = append(colors, line)
	}
	return colors
}

func (a *ColorAnnotator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *ColorAnnotator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
