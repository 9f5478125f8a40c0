// Package storage provides the SQLite-backed content store.
// It implements the scrape.ContentStore interface with upsert-by-URL
// semantics and store-assigned timestamps.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/insightful/insightful/internal/scrape"
	// SQLite database driver (CGO-free)
	_ "modernc.org/sqlite"
)

// SQLiteStore implements scrape.ContentStore using SQLite
type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB

	// now supplies write timestamps; replaced in tests for a controllable clock
	now func() int64
}

var _ scrape.ContentStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store bound to the given database path.
// The store is not usable until Open is called.
func NewSQLiteStore(dbPath string) *SQLiteStore {
	return &SQLiteStore{
		path: dbPath,
		now:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Open establishes the database handle and initializes the schema.
// Calling Open on an already-open store is a no-op.
func (s *SQLiteStore) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", scrape.ErrStorageUnavailable, err)
	}

	// Single connection serializes all access, including the
	// lookup-then-write inside SaveContent transactions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return fmt.Errorf("%w: pragma %s: %v", scrape.ErrStorageUnavailable, pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: schema: %v", scrape.ErrStorageUnavailable, err)
	}

	s.db = db
	return nil
}

// Close releases the database handle. Safe to call when not open.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// handle returns the open database handle or scrape.ErrNotOpen.
func (s *SQLiteStore) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, scrape.ErrNotOpen
	}
	return s.db, nil
}

// SaveContent inserts the candidate or updates the existing record with the
// same URL. The lookup and write run in one transaction so that concurrent
// saves for the same URL cannot both insert. The timestamp is assigned here,
// never taken from the caller. Returns the record's id.
func (s *SQLiteStore) SaveContent(ctx context.Context, c *scrape.ScrapedContent) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	db, err := s.handle()
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now()

	var id int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM scraped_content WHERE url = ?", c.URL,
	).Scan(&id)

	switch {
	case err == nil:
		// Existing URL: update in place, keep the id.
		if _, err := tx.ExecContext(ctx, `
			UPDATE scraped_content SET title = ?, text = ?, timestamp = ?
			WHERE id = ?
		`, c.Title, c.Text, now, id); err != nil {
			return 0, fmt.Errorf("failed to update content for %s: %w", c.URL, err)
		}

	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx, `
			INSERT INTO scraped_content (url, title, text, timestamp)
			VALUES (?, ?, ?, ?)
		`, c.URL, c.Title, c.Text, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert content for %s: %w", c.URL, err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get last insert ID: %w", err)
		}

	default:
		return 0, fmt.Errorf("failed to look up content for %s: %w", c.URL, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit save for %s: %w", c.URL, err)
	}
	return id, nil
}

// GetContentByID returns the record with the given id, or nil when absent.
// Storage errors are logged and reported as absent.
func (s *SQLiteStore) GetContentByID(ctx context.Context, id int64) *scrape.ScrapedContent {
	db, err := s.handle()
	if err != nil {
		slog.Error("content lookup failed", "id", id, "error", err)
		return nil
	}

	c, err := scanContent(db.QueryRowContext(ctx, `
		SELECT id, url, title, text, timestamp
		FROM scraped_content WHERE id = ?
	`, id))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("content lookup failed", "id", id, "error", err)
		}
		return nil
	}
	return c
}

// GetContentByURL returns the record with the given URL, or nil when absent.
// Storage errors are logged and reported as absent.
func (s *SQLiteStore) GetContentByURL(ctx context.Context, url string) *scrape.ScrapedContent {
	db, err := s.handle()
	if err != nil {
		slog.Error("content lookup failed", "url", url, "error", err)
		return nil
	}

	c, err := scanContent(db.QueryRowContext(ctx, `
		SELECT id, url, title, text, timestamp
		FROM scraped_content WHERE url = ?
	`, url))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("content lookup failed", "url", url, "error", err)
		}
		return nil
	}
	return c
}

// GetRecentContent returns up to limit records ordered by timestamp
// descending, most recently written first. A limit of zero or less yields an
// empty result. Storage errors are logged and degrade to an empty result.
func (s *SQLiteStore) GetRecentContent(ctx context.Context, limit int) []*scrape.ScrapedContent {
	if limit <= 0 {
		return nil
	}

	db, err := s.handle()
	if err != nil {
		slog.Error("recent content query failed", "error", err)
		return nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, url, title, text, timestamp
		FROM scraped_content
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		slog.Error("recent content query failed", "error", err)
		return nil
	}

	items, err := collectContent(rows)
	if err != nil {
		slog.Error("recent content query failed", "error", err)
		return nil
	}
	return items
}

// SearchContent returns every record where each whitespace-separated term of
// query is a case-insensitive substring of the title or the text, ordered by
// timestamp ascending. An empty or whitespace-only query yields an empty
// result, as do storage errors (logged).
//
// This is a collection scan with a Go-side predicate rather than a SQL LIKE,
// so case folding covers the full Unicode range.
func (s *SQLiteStore) SearchContent(ctx context.Context, query string) []*scrape.ScrapedContent {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	db, err := s.handle()
	if err != nil {
		slog.Error("content search failed", "query", query, "error", err)
		return nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, url, title, text, timestamp
		FROM scraped_content
		ORDER BY timestamp ASC, id ASC
	`)
	if err != nil {
		slog.Error("content search failed", "query", query, "error", err)
		return nil
	}

	items, err := collectContent(rows)
	if err != nil {
		slog.Error("content search failed", "query", query, "error", err)
		return nil
	}

	var matched []*scrape.ScrapedContent
	for _, c := range items {
		if matchesTerms(c, terms) {
			matched = append(matched, c)
		}
	}
	return matched
}

// matchesTerms reports whether every term occurs in the record's title or
// text. Terms must already be lower-cased.
func matchesTerms(c *scrape.ScrapedContent, terms []string) bool {
	title := strings.ToLower(c.Title)
	text := strings.ToLower(c.Text)

	for _, term := range terms {
		if !strings.Contains(title, term) && !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

// DeleteContent removes the record with the given id. Deleting an id that
// does not exist is not an error.
func (s *SQLiteStore) DeleteContent(ctx context.Context, id int64) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		"DELETE FROM scraped_content WHERE id = ?", id,
	); err != nil {
		return fmt.Errorf("failed to delete content %d: %w", id, err)
	}
	return nil
}

// Clear removes all records.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM scraped_content"); err != nil {
		return fmt.Errorf("failed to clear content: %w", err)
	}
	return nil
}

// Stats reports the record count and the newest write timestamp.
func (s *SQLiteStore) Stats(ctx context.Context) (scrape.StoreStats, error) {
	db, err := s.handle()
	if err != nil {
		return scrape.StoreStats{}, err
	}

	var stats scrape.StoreStats
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(MAX(timestamp), 0) FROM scraped_content
	`).Scan(&stats.Records, &stats.NewestTimestamp)
	if err != nil {
		return scrape.StoreStats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return stats, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*scrape.ScrapedContent, error) {
	var c scrape.ScrapedContent
	if err := row.Scan(&c.ID, &c.URL, &c.Title, &c.Text, &c.Timestamp); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectContent(rows *sql.Rows) ([]*scrape.ScrapedContent, error) {
	defer func() { _ = rows.Close() }()

	var items []*scrape.ScrapedContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
