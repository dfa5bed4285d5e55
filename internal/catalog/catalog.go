// Package catalog persists completed run summaries to a local SQLite database.
//
// The catalog sits off the pipeline's critical path: callers record finished
// runs into it and list them back, and a catalog failure never fails the run
// that produced the data.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/patentdeck/patent-extractor/internal/domain"
)

// ErrNotFound is returned when a requested run is not in the catalog.
var ErrNotFound = errors.New("run not found")

const defaultListLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	output_dir  TEXT NOT NULL,
	pages       INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS run_pages (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	page       INTEGER NOT NULL,
	image_path TEXT NOT NULL,
	title      TEXT NOT NULL,
	number     TEXT NOT NULL,
	date       TEXT NOT NULL,
	inventors  TEXT NOT NULL,
	abstract   TEXT NOT NULL,
	PRIMARY KEY (run_id, page)
);
`

// Catalog records extraction runs in a SQLite database.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral catalog.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}
	// One connection: sqlite serializes writers anyway, and :memory:
	// databases exist per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// SaveRun records a completed run and its per-page metadata. The run and its
// pages are written in one transaction.
func (c *Catalog) SaveRun(ctx context.Context, result *domain.RunResult) error {
	if result == nil {
		return errors.New("nil run result")
	}

	createdAt := result.Stats.StartedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (id, source, output_dir, pages, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, query,
		result.RunID, result.SourcePath, result.OutputDir,
		result.Stats.ProcessedPages, result.Stats.Duration.Milliseconds(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", result.RunID, err)
	}

	pageQuery := `
		INSERT INTO run_pages (run_id, page, image_path, title, number, date, inventors, abstract)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, page := range result.Results {
		_, err = tx.ExecContext(ctx, pageQuery,
			result.RunID, page.PageNumber, page.ImagePath,
			page.Metadata.Title, page.Metadata.Number, page.Metadata.Date,
			page.Metadata.Inventors, page.Metadata.Abstract,
		)
		if err != nil {
			return fmt.Errorf("insert page %d of run %s: %w", page.PageNumber, result.RunID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a single run by ID.
func (c *Catalog) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	query := `
		SELECT id, source, output_dir, pages, duration_ms, created_at
		FROM runs WHERE id = $1
	`
	rec := &RunRecord{}
	var durationMS int64
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Source, &rec.OutputDir, &rec.Pages, &durationMS, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return rec, nil
}

// ListRuns lists the most recent runs, newest first. A non-positive limit
// falls back to a default page size.
func (c *Catalog) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, source, output_dir, pages, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec := &RunRecord{}
		var durationMS int64
		if err := rows.Scan(
			&rec.ID, &rec.Source, &rec.OutputDir, &rec.Pages, &durationMS, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PagesForRun retrieves the per-page metadata of a run in page order.
func (c *Catalog) PagesForRun(ctx context.Context, runID string) ([]*PageRecord, error) {
	query := `
		SELECT run_id, page, image_path, title, number, date, inventors, abstract
		FROM run_pages
		WHERE run_id = $1
		ORDER BY page
	`
	rows, err := c.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*PageRecord
	for rows.Next() {
		page := &PageRecord{}
		if err := rows.Scan(
			&page.RunID, &page.Page, &page.ImagePath,
			&page.Title, &page.Number, &page.Date, &page.Inventors, &page.Abstract,
		); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
