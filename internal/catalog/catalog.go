// Package catalog keeps a local SQLite record of pipeline runs and the games
// they produced, for ad-hoc querying without re-parsing CSVs.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vk/bggflow/internal/dataset"
)

// Catalog wraps the SQLite database holding games and run history.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database and applies the schema.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	// WAL with NORMAL sync: crash-safe and much faster for batch upserts.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id        INTEGER PRIMARY KEY,
	name           TEXT NOT NULL,
	year_published INTEGER,
	users_rated    INTEGER,
	average_rating REAL,
	category       TEXT,
	mechanic       TEXT,
	publisher      TEXT,
	updated_at     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	pipeline     TEXT NOT NULL,
	started_at   TEXT NOT NULL,
	finished_at  TEXT NOT NULL,
	games        INTEGER NOT NULL,
	committed    INTEGER NOT NULL
);
`

// UpsertGames inserts or refreshes the given games in one transaction and
// returns the number of rows written.
func (c *Catalog) UpsertGames(ctx context.Context, table dataset.Table) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (game_id, name, year_published, users_rated, average_rating,
			category, mechanic, publisher, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			name = excluded.name,
			year_published = excluded.year_published,
			users_rated = excluded.users_rated,
			average_rating = excluded.average_rating,
			category = excluded.category,
			mechanic = excluded.mechanic,
			publisher = excluded.publisher,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	count := 0
	for i := range table {
		g := &table[i]
		if _, err := stmt.ExecContext(ctx,
			g.ID, g.Name, g.YearPublished, g.UsersRated, g.AverageRating,
			dataset.JoinList(g.Category), dataset.JoinList(g.Mechanic),
			dataset.JoinList(g.Publisher), now,
		); err != nil {
			return 0, fmt.Errorf("failed to upsert game %d: %w", g.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return count, nil
}

// Run describes one recorded pipeline run.
type Run struct {
	ID         int64
	Pipeline   string
	StartedAt  time.Time
	FinishedAt time.Time
	Games      int
	Committed  bool
}

// RecordRun appends a run record and returns its row ID.
func (c *Catalog) RecordRun(ctx context.Context, run Run) (int64, error) {
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (pipeline, started_at, finished_at, games, committed)
		VALUES (?, ?, ?, ?, ?)`,
		run.Pipeline,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Games,
		run.Committed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// GameCount returns the number of cataloged games.
func (c *Catalog) GameCount(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return n, nil
}

// LastRun returns the most recent run record, or nil when none exist.
func (c *Catalog) LastRun(ctx context.Context) (*Run, error) {
	var (
		run      Run
		started  string
		finished string
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, pipeline, started_at, finished_at, games, committed
		FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&run.ID, &run.Pipeline, &started, &finished, &run.Games, &run.Committed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last run: %w", err)
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, started)
	run.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	return &run, nil
}
