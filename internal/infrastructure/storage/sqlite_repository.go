package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"TrendDeck/internal/domain"
	"TrendDeck/internal/ports"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS deck_runs (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS deck_cards (
		run_id   TEXT NOT NULL REFERENCES deck_runs(run_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		title    TEXT NOT NULL,
		emoji    TEXT NOT NULL,
		url      TEXT NOT NULL,
		color    TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
}

// SQLiteRepository persists published decks into SQLite.
type SQLiteRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.DeckRepository = (*SQLiteRepository)(nil)

// Open connects to dsn with the pure-Go sqlite driver and applies the schema.
func Open(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases consistent and serialises writers.
	db.SetMaxOpenConns(1)

	repo := NewSQLiteRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteRepository wires a sql.DB implementation.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Migrate creates the history tables when missing.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveDeck stores the run and all of its cards in one transaction.
func (r *SQLiteRepository) SaveDeck(ctx context.Context, run domain.DeckRun) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := r.sb.Insert("deck_runs").
		Columns("run_id", "created_at").
		Values(run.ID, run.CreatedAt.UTC().UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	cards := r.sb.Insert("deck_cards").Columns("run_id", "position", "title", "emoji", "url", "color")
	for i, card := range run.Deck {
		cards = cards.Values(run.ID, i, card.Title, card.Emoji, card.URL, card.Color)
	}
	query, args, err = cards.ToSql()
	if err != nil {
		return fmt.Errorf("build card insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert cards: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deck: %w", err)
	}
	return nil
}

// LatestDeck returns the most recently stored run.
func (r *SQLiteRepository) LatestDeck(ctx context.Context) (domain.DeckRun, bool, error) {
	if r.db == nil {
		return domain.DeckRun{}, false, nil
	}

	query, args, err := r.sb.Select("run_id", "created_at").
		From("deck_runs").
		OrderBy("seq DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.DeckRun{}, false, fmt.Errorf("build latest query: %w", err)
	}

	var (
		run       domain.DeckRun
		createdAt int64
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&run.ID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DeckRun{}, false, nil
	}
	if err != nil {
		return domain.DeckRun{}, false, fmt.Errorf("query latest run: %w", err)
	}
	run.CreatedAt = time.UnixMilli(createdAt).UTC()

	if err := r.loadCards(ctx, &run); err != nil {
		return domain.DeckRun{}, false, err
	}
	return run, true, nil
}

func (r *SQLiteRepository) loadCards(ctx context.Context, run *domain.DeckRun) error {
	query, args, err := r.sb.Select("position", "title", "emoji", "url", "color").
		From("deck_cards").
		Where(sq.Eq{"run_id": run.ID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return fmt.Errorf("build cards query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position int
			card     domain.Card
		)
		if err := rows.Scan(&position, &card.Title, &card.Emoji, &card.URL, &card.Color); err != nil {
			return fmt.Errorf("scan card: %w", err)
		}
		if position < 0 || position >= domain.DeckSize {
			continue
		}
		run.Deck[position] = card
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("cards iteration: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first, with their filled card counts.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if r.db == nil {
		return nil, nil
	}

	builder := r.sb.Select(
		"r.run_id",
		"r.created_at",
		"COALESCE(SUM(CASE WHEN c.title <> '' OR c.emoji <> '' OR c.url <> '' THEN 1 ELSE 0 END), 0)",
	).
		From("deck_runs r").
		LeftJoin("deck_cards c ON c.run_id = r.run_id").
		GroupBy("r.seq", "r.run_id", "r.created_at").
		OrderBy("r.seq DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var summaries []domain.RunSummary
	for rows.Next() {
		var (
			summary   domain.RunSummary
			createdAt int64
		)
		if err := rows.Scan(&summary.ID, &createdAt, &summary.Filled); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summary.CreatedAt = time.UnixMilli(createdAt).UTC()
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs iteration: %w", err)
	}
	return summaries, nil
}
