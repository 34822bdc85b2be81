package pubgen

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a manifest lookup matches no entry.
var ErrNotFound = sql.ErrNoRows

// Store is the SQLite build manifest: the entries of the last build.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the preview server read while a watch rebuild writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS entries (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    published TEXT NOT NULL,
    updated TEXT NOT NULL,
    built_at TEXT NOT NULL
);
`)
	return err
}

// ReplaceEntries swaps the manifest contents for entries in one transaction.
func (s *Store) ReplaceEntries(entries []BlogEntry, builtAt time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO entries (slug, title, url, published, updated, built_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	built := builtAt.UTC().Format(time.RFC3339)
	for _, e := range entries {
		if _, err := stmt.Exec(e.Slug, e.Title, e.URL,
			e.Published.Format(time.DateOnly), e.Updated.Format(time.DateOnly), built); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListEntries returns all entries ordered like the feed: newest first,
// then by URL.
func (s *Store) ListEntries() ([]BlogEntry, error) {
	rows, err := s.db.Query(`SELECT slug, title, url, published, updated FROM entries ORDER BY published DESC, url ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []BlogEntry
	for rows.Next() {
		var slug, title, url, published, updated string
		if err := rows.Scan(&slug, &title, &url, &published, &updated); err != nil {
			return nil, err
		}
		e, err := manifestEntry(slug, title, url, published, updated)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetEntry returns a single entry by slug.
func (s *Store) GetEntry(slug string) (BlogEntry, error) {
	var title, url, published, updated string
	err := s.db.QueryRow(`SELECT title, url, published, updated FROM entries WHERE slug = ?`, slug).
		Scan(&title, &url, &published, &updated)
	if err != nil {
		return BlogEntry{}, err
	}
	return manifestEntry(slug, title, url, published, updated)
}

// LastBuild returns the time of the build that wrote the manifest. It is
// the zero time when the manifest is empty.
func (s *Store) LastBuild() (time.Time, error) {
	var built sql.NullString
	if err := s.db.QueryRow(`SELECT MAX(built_at) FROM entries`).Scan(&built); err != nil {
		return time.Time{}, err
	}
	if !built.Valid {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, built.String)
}

func manifestEntry(slug, title, url, published, updated string) (BlogEntry, error) {
	pub, err := time.Parse(time.DateOnly, published)
	if err != nil {
		return BlogEntry{}, err
	}
	upd, err := time.Parse(time.DateOnly, updated)
	if err != nil {
		return BlogEntry{}, err
	}
	return BlogEntry{Slug: slug, Title: title, URL: url, Published: pub, Updated: upd}, nil
}
