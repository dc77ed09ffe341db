package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, endpoint, dsn string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trenddeck.yaml")
	body := fmt.Sprintf(`logging:
  level: error
feed:
  kind: json
  endpoint: %s
  baseUrl: https://zenn.dev
annotator:
  provider: none
storage:
  dsn: %s
`, endpoint, dsn)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunAndHistoryCommands(t *testing.T) {
	t.Parallel()

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"Trending Go","emoji":"🐹","path":"/articles/go"}]`))
	}))
	t.Cleanup(feed.Close)

	dsn := filepath.Join(t.TempDir(), "history.db")
	cfgPath := writeConfig(t, feed.URL, dsn)

	out, err := execute(t, "run", "--config", cfgPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"https://zenn.dev/articles/go", "Trending Go", "#FFFFFF", "1 of 20 cards filled"} {
		if !strings.Contains(out, want) {
			t.Fatalf("run output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "history", "--config", cfgPath, "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "1/20") {
		t.Fatalf("history output missing run summary:\n%s", out)
	}

	out, err = execute(t, "history", "--config", cfgPath, "--latest")
	if err != nil {
		t.Fatalf("history --latest: %v", err)
	}
	if !strings.Contains(out, "Trending Go") {
		t.Fatalf("latest output missing card:\n%s", out)
	}
}

func TestRunCommandFailure(t *testing.T) {
	t.Parallel()

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(feed.Close)

	cfgPath := writeConfig(t, feed.URL, "")

	out, err := execute(t, "run", "--config", cfgPath)
	if !errors.Is(err, errRunFailed) {
		t.Fatalf("expected run failure, got %v", err)
	}
	if !strings.Contains(out, "feed returned status 503") {
		t.Fatalf("failure message not printed:\n%s", out)
	}
}

func TestHistoryWithoutStorage(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "http://127.0.0.1:1", "")
	if _, err := execute(t, "history", "--config", cfgPath); err == nil {
		t.Fatalf("expected an error when history storage is disabled")
	}
}
