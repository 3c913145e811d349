// Package store is the local draft cache: the last known section
// content and page document per (user, topic). The workflow falls back
// to it when a fetch fails, and it doubles as offline draft history.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/blogsmith/blogsmith/internal/api"
)

// ErrNoDraft is returned when the cache holds nothing for a key.
var ErrNoDraft = errors.New("no cached draft")

// Store wraps a SQLite database holding cached drafts.
type Store struct {
	db *sql.DB
}

// Open creates or opens the draft cache at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory cache (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory cache: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS sections (
    user_id TEXT NOT NULL,
    topic_id TEXT NOT NULL,
    section TEXT NOT NULL CHECK(section IN ('TITLE','INTRODUCTION','BODY')),
    content TEXT NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (user_id, topic_id, section)
);

CREATE TABLE IF NOT EXISTS pages (
    user_id TEXT NOT NULL,
    topic_id TEXT NOT NULL,
    html TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (user_id, topic_id)
);
`

// PutSection caches one section's content.
func (s *Store) PutSection(userID, topicID string, section api.Section, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO sections (user_id, topic_id, section, content, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(user_id, topic_id, section)
		DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		userID, topicID, string(section), content)
	if err != nil {
		return fmt.Errorf("caching section: %w", err)
	}
	return nil
}

// PutSections caches all three slots at once.
func (s *Store) PutSections(userID, topicID string, secs api.Sections) error {
	for _, sec := range api.AllSections {
		if err := s.PutSection(userID, topicID, sec, secs.Get(sec)); err != nil {
			return err
		}
	}
	return nil
}

// GetSections returns the cached sections for a topic. Missing slots are
// empty strings; ErrNoDraft when nothing is cached at all.
func (s *Store) GetSections(userID, topicID string) (api.Sections, error) {
	rows, err := s.db.Query(`
		SELECT section, content FROM sections
		WHERE user_id = ? AND topic_id = ?`,
		userID, topicID)
	if err != nil {
		return api.Sections{}, fmt.Errorf("reading cached sections: %w", err)
	}
	defer rows.Close()

	var secs api.Sections
	found := false
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return api.Sections{}, fmt.Errorf("scanning cached section: %w", err)
		}
		secs.Set(api.Section(name), content)
		found = true
	}
	if err := rows.Err(); err != nil {
		return api.Sections{}, fmt.Errorf("reading cached sections: %w", err)
	}
	if !found {
		return api.Sections{}, ErrNoDraft
	}
	return secs, nil
}

// PutPage caches the assembled page document for a topic.
func (s *Store) PutPage(userID, topicID, html string) error {
	_, err := s.db.Exec(`
		INSERT INTO pages (user_id, topic_id, html, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(user_id, topic_id)
		DO UPDATE SET html = excluded.html, updated_at = excluded.updated_at`,
		userID, topicID, html)
	if err != nil {
		return fmt.Errorf("caching page: %w", err)
	}
	return nil
}

// GetPage returns the cached page document, or ErrNoDraft.
func (s *Store) GetPage(userID, topicID string) (string, error) {
	var html string
	err := s.db.QueryRow(`
		SELECT html FROM pages WHERE user_id = ? AND topic_id = ?`,
		userID, topicID).Scan(&html)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoDraft
	}
	if err != nil {
		return "", fmt.Errorf("reading cached page: %w", err)
	}
	return html, nil
}
