package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg := LoadFile("")

	if cfg.Feed.Kind != "json" || cfg.Feed.Endpoint == "" || cfg.Feed.BaseURL != "https://zenn.dev" {
		t.Fatalf("unexpected feed defaults: %+v", cfg.Feed)
	}
	if cfg.Annotator.MaxRetries != 3 {
		t.Fatalf("expected 3 retries, got %d", cfg.Annotator.MaxRetries)
	}
	if cfg.Annotator.SystemPrompt != DefaultSystemPrompt {
		t.Fatalf("expected default system prompt")
	}
	if cfg.Storage.DSN != "" {
		t.Fatalf("history should be disabled by default, got %q", cfg.Storage.DSN)
	}
}

func TestLoadFileMergesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trenddeck.yaml")
	raw := []byte(`
logging:
  level: debug
feed:
  kind: rss
  endpoint: https://zenn.dev/feed
  timeout: 5s
annotator:
  provider: chatgpt
  maxRetries: 5
scheduler:
  interval: 10m
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadFile(path)

	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Feed.Kind != "rss" || cfg.Feed.Endpoint != "https://zenn.dev/feed" {
		t.Fatalf("unexpected feed: %+v", cfg.Feed)
	}
	if cfg.Feed.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.Feed.Timeout)
	}
	if cfg.Feed.BaseURL != "https://zenn.dev" {
		t.Fatalf("base url should keep its default, got %s", cfg.Feed.BaseURL)
	}
	if cfg.Annotator.Provider != "chatgpt" || cfg.Annotator.MaxRetries != 5 {
		t.Fatalf("unexpected annotator: %+v", cfg.Annotator)
	}
	if cfg.Scheduler.Interval != 10*time.Minute {
		t.Fatalf("expected 10m interval, got %s", cfg.Scheduler.Interval)
	}
}

func TestLoadFileFallsBackOnBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("feed: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadFile(path)
	if cfg.Feed.Kind != "json" {
		t.Fatalf("expected defaults, got %+v", cfg.Feed)
	}

	missing := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if missing.Feed.Kind != "json" {
		t.Fatalf("expected defaults for missing file, got %+v", missing.Feed)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(geminiAPIKeyEnv, "gemini-key")
	t.Setenv(chatGPTModelEnv, "gpt-test")
	t.Setenv(databaseDSNEnv, "file:history.db")
	t.Setenv(logLevelEnv, "warn")

	cfg := LoadFile("")

	if cfg.Gemini.APIKey != "gemini-key" {
		t.Fatalf("expected gemini key override, got %q", cfg.Gemini.APIKey)
	}
	if cfg.ChatGPT.Model != "gpt-test" {
		t.Fatalf("expected chatgpt model override, got %q", cfg.ChatGPT.Model)
	}
	if cfg.Storage.DSN != "file:history.db" {
		t.Fatalf("expected dsn override, got %q", cfg.Storage.DSN)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected warn level, got %q", cfg.Logging.Level)
	}
}
