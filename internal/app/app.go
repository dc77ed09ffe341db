package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"TrendDeck/internal/colour"
	"TrendDeck/internal/config"
	"TrendDeck/internal/domain"
	"TrendDeck/internal/infrastructure/llm"
	"TrendDeck/internal/infrastructure/parser"
	"TrendDeck/internal/infrastructure/scheduler"
	"TrendDeck/internal/infrastructure/storage"
	"TrendDeck/internal/infrastructure/telegram"
	"TrendDeck/internal/infrastructure/web"
	"TrendDeck/internal/logging"
	"TrendDeck/internal/ports"
	"TrendDeck/internal/scanner"
	"TrendDeck/internal/usecase"
)

const stopTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	refresher  *usecase.Refresher
	repository *storage.SQLiteRepository
	selector   colour.Selector
	server     *web.Server
}

// New builds the application graph. History storage is opened only when a DSN is configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	}

	feedClient := &http.Client{Timeout: cfg.Feed.Timeout}
	registry := scanner.NewRegistry()
	registry.Register(parser.NewTrendJSONScanner(feedClient))
	registry.Register(parser.NewRSSScanner(feedClient))
	registry.Register(parser.NewHTMLScanner(feedClient))

	source := parser.NewStrategySource(registry, cfg.Feed, baseLogger.With("component", "source"))

	provider := newColorProvider(ctx, cfg, baseLogger)
	annotator := usecase.NewColorAnnotator(
		provider,
		cfg.Annotator.SystemPrompt,
		cfg.Annotator.MaxRetries,
		baseLogger.With("component", "annotator"),
	)

	pipelineLogger := baseLogger.With("component", "pipeline")
	newPipeline := func() *usecase.Pipeline {
		return usecase.NewPipeline(usecase.PipelineDeps{
			Source:    source,
			Annotator: annotator,
			Assemble:  usecase.Assemble,
			Logger:    pipelineLogger,
		})
	}

	app := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		selector: colour.NewSelector(colour.LightnessModel(cfg.Contrast.Model)),
	}

	deps := usecase.RefresherDeps{
		NewPipeline: newPipeline,
		Driver:      scheduler.NewTickerScheduler(cfg.Scheduler.Interval),
		Logger:      baseLogger.With("component", "refresher"),
	}

	if cfg.Storage.DSN != "" {
		repo, err := storage.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open deck history: %w", err)
		}
		app.repository = repo
		deps.Repository = repo
	}

	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		deps.Notifier = telegram.NewNotifier(tg, nil)
	}

	app.refresher = usecase.NewRefresher(deps)
	app.server = web.NewServer(cfg.Server.Addr, app.refresher, app.selector, baseLogger.With("component", "http"))
	return app, nil
}

func newColorProvider(ctx context.Context, cfg config.Config, logger *slog.Logger) ports.ColorProvider {
	switch strings.ToLower(strings.TrimSpace(cfg.Annotator.Provider)) {
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			logger.Warn("gemini provider unavailable, colours will fall back", "error", err)
			return nil
		}
		return client
	case "chatgpt":
		if cfg.ChatGPT.APIKey == "" {
			logger.Warn("chatgpt provider has no api key, colours will fall back")
			return nil
		}
		return llm.NewChatGPTClient(cfg.ChatGPT)
	case "", "none":
		return nil
	default:
		logger.Warn("unknown annotator provider, colours will fall back", "provider", cfg.Annotator.Provider)
		return nil
	}
}

// RunOnce executes a single pipeline run and publishes its result.
func (a *Application) RunOnce(ctx context.Context) domain.PipelineState {
	return a.refresher.Refresh(ctx)
}

// State returns the last published pipeline state.
func (a *Application) State() domain.PipelineState {
	return a.refresher.State()
}

// Selector returns the configured contrast selector.
func (a *Application) Selector() colour.Selector {
	return a.selector
}

// Serve runs periodic refreshes and the HTTP boundary until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.refresher.Start(gctx); err != nil {
			return fmt.Errorf("start refresher: %w", err)
		}
		<-gctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := a.refresher.Stop(stopCtx); err != nil {
			return fmt.Errorf("stop refresher: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.server.ListenAndServe(gctx)
	})

	err := g.Wait()
	a.logger.Info("serve stopped", "error", err)
	return err
}

// History lists stored runs, newest first.
func (a *Application) History(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if a.repository == nil {
		return nil, fmt.Errorf("deck history is disabled: set storage.dsn or TRENDDECK_DB")
	}
	return a.repository.ListRuns(ctx, limit)
}

// LatestDeck returns the most recently stored deck, if any.
func (a *Application) LatestDeck(ctx context.Context) (domain.DeckRun, bool, error) {
	if a.repository == nil {
		return domain.DeckRun{}, false, nil
	}
	return a.repository.LatestDeck(ctx)
}

// Close releases storage handles.
func (a *Application) Close() error {
	if a.repository == nil {
		return nil
	}
	return a.repository.Close()
}
