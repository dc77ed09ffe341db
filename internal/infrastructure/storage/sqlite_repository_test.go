package storage

import (
	"context"
	"testing"
	"time"

	"TrendDeck/internal/domain"
)

func openMemory(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func deckWith(titles ...string) domain.Deck {
	var deck domain.Deck
	for i := range deck {
		deck[i] = domain.Card{Color: domain.FallbackColor}
		if i < len(titles) {
			deck[i] = domain.Card{
				Title: titles[i],
				Emoji: "🔥",
				URL:   "https://zenn.dev/" + titles[i],
				Color: "#FF0000",
			}
		}
	}
	return deck
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := openMemory(t)
	ctx := context.Background()

	if _, ok, err := repo.LatestDeck(ctx); err != nil || ok {
		t.Fatalf("expected empty history, ok=%v err=%v", ok, err)
	}

	created := time.Date(2026, time.October, 19, 8, 30, 0, 0, time.UTC)
	run := domain.DeckRun{ID: "run-1", CreatedAt: created, Deck: deckWith("go", "rust")}
	if err := repo.SaveDeck(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := repo.LatestDeck(ctx)
	if err != nil || !ok {
		t.Fatalf("latest: ok=%v err=%v", ok, err)
	}
	if got.ID != "run-1" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected run header: %+v", got)
	}
	if got.Deck != run.Deck {
		t.Fatalf("deck mismatch:\n got %+v\nwant %+v", got.Deck, run.Deck)
	}
}

func TestSQLiteRepositoryListRuns(t *testing.T) {
	t.Parallel()

	repo := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	runs := []domain.DeckRun{
		{ID: "first", CreatedAt: base, Deck: deckWith("a")},
		{ID: "second", CreatedAt: base.Add(time.Hour), Deck: deckWith("a", "b", "c")},
		{ID: "third", CreatedAt: base.Add(2 * time.Hour), Deck: deckWith()},
	}
	for _, run := range runs {
		if err := repo.SaveDeck(ctx, run); err != nil {
			t.Fatalf("save %s: %v", run.ID, err)
		}
	}

	summaries, err := repo.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "third" || summaries[0].Filled != 0 {
		t.Fatalf("unexpected newest summary: %+v", summaries[0])
	}
	if summaries[1].ID != "second" || summaries[1].Filled != 3 {
		t.Fatalf("unexpected second summary: %+v", summaries[1])
	}

	all, err := repo.ListRuns(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all 3 runs, got %d (err=%v)", len(all), err)
	}

	latest, _, err := repo.LatestDeck(ctx)
	if err != nil || latest.ID != "third" {
		t.Fatalf("expected third as latest, got %s (err=%v)", latest.ID, err)
	}
}

func TestSQLiteRepositoryDuplicateRun(t *testing.T) {
	t.Parallel()

	repo := openMemory(t)
	ctx := context.Background()
	run := domain.DeckRun{ID: "dup", CreatedAt: time.Now(), Deck: deckWith("x")}

	if err := repo.SaveDeck(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveDeck(ctx, run); err == nil {
		t.Fatalf("expected duplicate run id to fail")
	}

	summaries, err := repo.ListRuns(ctx, 10)
	if err != nil || len(summaries) != 1 {
		t.Fatalf("failed save must roll back, got %d runs (err=%v)", len(summaries), err)
	}
}
