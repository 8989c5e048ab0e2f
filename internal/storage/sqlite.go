package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps all four ledgers in one database so related updates
// (read flag + log entry) commit together.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and initializes the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Projects() (map[string][]string, error) {
	rows, err := s.db.Query("SELECT name FROM projects")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make(map[string][]string)
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, name := range names {
		urls, err := s.projectFeeds(name)
		if err != nil {
			return nil, err
		}
		projects[name] = urls
	}
	return projects, nil
}

func (s *SQLiteStore) projectFeeds(name string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT url FROM project_feeds WHERE project = ? ORDER BY position", name)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds for %q: %w", name, err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

func (s *SQLiteStore) ProjectFeeds(name string) ([]string, error) {
	if !s.projectExists(name) {
		return nil, fmt.Errorf("project %q does not exist", name)
	}
	return s.projectFeeds(name)
}

func (s *SQLiteStore) projectExists(name string) bool {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM projects WHERE name = ?", name).Scan(&one)
	return err == nil
}

func (s *SQLiteStore) CreateProject(name string) error {
	res, err := s.db.Exec(
		"INSERT INTO projects (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return fmt.Errorf("failed to create project %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %q already exists", name)
	}
	return nil
}

func (s *SQLiteStore) DeleteProject(name string) error {
	res, err := s.db.Exec("DELETE FROM projects WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete project %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %q does not exist", name)
	}
	return nil
}

func (s *SQLiteStore) AddFeed(project, url string) error {
	if !s.projectExists(project) {
		return fmt.Errorf("project %q does not exist", project)
	}
	res, err := s.db.Exec(`
		INSERT INTO project_feeds (project, url, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position)+1, 0) FROM project_feeds WHERE project = ?))
		ON CONFLICT(project, url) DO NOTHING`,
		project, url, project)
	if err != nil {
		return fmt.Errorf("failed to add feed %s: %w", url, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("feed %s already in project %q", url, project)
	}
	return nil
}

func (s *SQLiteStore) RemoveFeed(project, url string) error {
	res, err := s.db.Exec(
		"DELETE FROM project_feeds WHERE project = ? AND url = ?", project, url)
	if err != nil {
		return fmt.Errorf("failed to remove feed %s: %w", url, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("feed %s not in project %q", url, project)
	}
	return nil
}

func (s *SQLiteStore) ReadFlag(id string) (bool, error) {
	var read bool
	err := s.db.QueryRow("SELECT read FROM read_state WHERE article_id = ?", id).Scan(&read)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read flag for %s: %w", id, err)
	}
	return read, nil
}

func (s *SQLiteStore) ReadFlags() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT article_id, read FROM read_state")
	if err != nil {
		return nil, fmt.Errorf("failed to load read flags: %w", err)
	}
	defer rows.Close()

	flags := make(map[string]bool)
	for rows.Next() {
		var id string
		var read bool
		if err := rows.Scan(&id, &read); err != nil {
			return nil, err
		}
		flags[id] = read
	}
	return flags, rows.Err()
}

// MarkRead sets the read flag and overwrites the log entry in one
// transaction.
func (s *SQLiteStore) MarkRead(id string, entry LogEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin mark-read: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO read_state (article_id, read) VALUES (?, 1)
		ON CONFLICT(article_id) DO UPDATE SET read = 1`, id); err != nil {
		return fmt.Errorf("failed to set read flag for %s: %w", id, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO read_log (article_id, project, feed_url, title, link, read_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(article_id) DO UPDATE SET
			project = excluded.project,
			feed_url = excluded.feed_url,
			title = excluded.title,
			link = excluded.link,
			read_at = excluded.read_at`,
		id, entry.Project, entry.FeedURL, entry.Title, entry.Link, entry.ReadAt); err != nil {
		return fmt.Errorf("failed to log read for %s: %w", id, err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) ReadLog() (map[string]LogEntry, error) {
	rows, err := s.db.Query(
		"SELECT article_id, project, feed_url, title, link, read_at FROM read_log")
	if err != nil {
		return nil, fmt.Errorf("failed to load read log: %w", err)
	}
	defer rows.Close()

	log := make(map[string]LogEntry)
	for rows.Next() {
		var id string
		var e LogEntry
		if err := rows.Scan(&id, &e.Project, &e.FeedURL, &e.Title, &e.Link, &e.ReadAt); err != nil {
			return nil, err
		}
		log[id] = e
	}
	return log, rows.Err()
}

func (s *SQLiteStore) Watermark(feedURL string) (time.Time, error) {
	var raw string
	err := s.db.QueryRow("SELECT ts FROM watermarks WHERE feed_url = ?", feedURL).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Epoch, nil
	}
	if err != nil {
		return Epoch, fmt.Errorf("failed to load watermark for %s: %w", feedURL, err)
	}
	return ParseWatermark(raw), nil
}

func (s *SQLiteStore) SetWatermark(feedURL string, t time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO watermarks (feed_url, ts) VALUES (?, ?)
		ON CONFLICT(feed_url) DO UPDATE SET ts = excluded.ts`,
		feedURL, FormatWatermark(t))
	if err != nil {
		return fmt.Errorf("failed to set watermark for %s: %w", feedURL, err)
	}
	return nil
}
