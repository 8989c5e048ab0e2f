package storage

// Schema is the SQLite backend's schema. It mirrors the four JSON ledgers:
// projects/project_feeds (registry), read_state (read ledger), read_log
// (audit trail), watermarks (seen timestamps).
const Schema = `
CREATE TABLE IF NOT EXISTS projects (
	name TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS project_feeds (
	project TEXT NOT NULL,
	url TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (project, url),
	FOREIGN KEY (project) REFERENCES projects(name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS read_state (
	article_id TEXT PRIMARY KEY,
	read BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS read_log (
	article_id TEXT PRIMARY KEY,
	project TEXT NOT NULL,
	feed_url TEXT NOT NULL,
	title TEXT NOT NULL,
	link TEXT NOT NULL,
	read_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS watermarks (
	feed_url TEXT PRIMARY KEY,
	ts TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_project_feeds_position ON project_feeds(project, position);
`
