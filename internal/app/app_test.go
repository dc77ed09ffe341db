package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrendDeck/internal/config"
	"TrendDeck/internal/domain"
	"TrendDeck/internal/logging"
)

func testConfig(t *testing.T, feed http.HandlerFunc) config.Config {
	t.Helper()

	server := httptest.NewServer(feed)
	t.Cleanup(server.Close)

	cfg := config.LoadFile("")
	cfg.Feed.Kind = "json"
	cfg.Feed.Endpoint = server.URL
	cfg.Feed.BaseURL = "https://zenn.dev"
	cfg.Annotator.Provider = "none"
	cfg.Storage.DSN = ":memory:"
	cfg.Notifications.Telegram = config.TelegramConfig{}
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func TestApplicationRunOnceStoresHistory(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"A","emoji":"🔥","path":"/a"},{"title":"B","emoji":"✨","path":"/b"}]`))
	})

	application, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	state := application.RunOnce(context.Background())
	if state.Kind != domain.StateReady || state.Deck.Filled() != 2 {
		t.Fatalf("unexpected state %s with %d cards", state.Kind, state.Deck.Filled())
	}
	for i, card := range state.Deck {
		if card.Color != domain.FallbackColor {
			t.Fatalf("card %d: expected fallback colour without provider, got %s", i, card.Color)
		}
	}
	if application.State().Kind != domain.StateReady {
		t.Fatalf("state should be published")
	}

	runs, err := application.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(runs) != 1 || runs[0].Filled != 2 {
		t.Fatalf("unexpected history %+v", runs)
	}

	latest, ok, err := application.LatestDeck(context.Background())
	if err != nil || !ok || latest.Deck != state.Deck {
		t.Fatalf("latest deck mismatch: ok=%v err=%v", ok, err)
	}
}

func TestApplicationRunOnceFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	cfg.Storage.DSN = ""

	application, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	state := application.RunOnce(context.Background())
	if state.Kind != domain.StateFailed || state.Message != "feed returned status 502" {
		t.Fatalf("unexpected state %+v", state)
	}
	if _, err := application.History(context.Background(), 5); err == nil {
		t.Fatalf("expected history to be disabled without a dsn")
	}
}

func TestApplicationServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	cfg.Scheduler.Interval = time.Hour

	application, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- application.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for application.State().Kind == domain.StateLoading {
		if time.Now().After(deadline) {
			t.Fatalf("initial refresh did not publish")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestColorProviderSelection(t *testing.T) {
	t.Parallel()

	logger := logging.Discard()
	cfg := config.LoadFile("")

	cfg.Annotator.Provider = "none"
	if p := newColorProvider(context.Background(), cfg, logger); p != nil {
		t.Fatalf("expected no provider for none")
	}

	cfg.Annotator.Provider = "chatgpt"
	cfg.ChatGPT.APIKey = ""
	if p := newColorProvider(context.Background(), cfg, logger); p != nil {
		t.Fatalf("expected no provider without chatgpt key")
	}

	cfg.ChatGPT.APIKey = "key"
	if p := newColorProvider(context.Background(), cfg, logger); p == nil {
		t.Fatalf("expected chatgpt provider")
	}

	cfg.Annotator.Provider = "gemini"
	cfg.Gemini.APIKey = ""
	cfg.Gemini.Backend = "gemini-api"
	if p := newColorProvider(context.Background(), cfg, logger); p != nil {
		t.Fatalf("expected no gemini provider without key")
	}

	cfg.Annotator.Provider = "mystery"
	if p := newColorProvider(context.Background(), cfg, logger); p != nil {
		t.Fatalf("expected no provider for unknown name")
	}
}
