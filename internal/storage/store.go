// Package storage persists FeedDeck's four state ledgers: the project
// registry, the per-article read flags, the read-event log, and the
// per-feed watermarks. Two backends implement the same Store interface:
// LedgerStore keeps the original four JSON files, SQLiteStore consolidates
// them into one transactional database.
package storage

import (
	"strings"
	"time"
)

// Epoch is the default watermark for a feed never ingested before, so the
// first run treats every current entry as new.
var Epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// watermarkLayout is the ISO-8601 UTC-naive form the seen ledger has always
// used (datetime.isoformat of the original files).
const watermarkLayout = "2006-01-02T15:04:05"

// LogEntry is one read-log record. Field names are a compatibility surface
// with existing read_log.json files.
type LogEntry struct {
	Project string `json:"project"`
	FeedURL string `json:"feed_url"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	ReadAt  string `json:"read_at"`
}

// Store is the persistence boundary. Single-process, single-writer;
// concurrent external writers are not supported.
type Store interface {
	// Project registry: name -> ordered feed URLs, no duplicates per project.
	Projects() (map[string][]string, error)
	ProjectFeeds(name string) ([]string, error)
	CreateProject(name string) error
	DeleteProject(name string) error
	AddFeed(project, url string) error
	RemoveFeed(project, url string) error

	// Read ledger and log. MarkRead sets the flag and overwrites the log
	// entry together; calling it twice leaves the same state.
	ReadFlag(id string) (bool, error)
	ReadFlags() (map[string]bool, error)
	MarkRead(id string, entry LogEntry) error
	ReadLog() (map[string]LogEntry, error)

	// Watermarks. An absent feed reads as Epoch.
	Watermark(feedURL string) (time.Time, error)
	SetWatermark(feedURL string, t time.Time) error

	Close() error
}

// FormatWatermark renders a watermark in the persisted ledger form.
func FormatWatermark(t time.Time) string {
	return t.UTC().Format(watermarkLayout)
}

// ParseWatermark parses a persisted watermark. Unparseable or empty values
// degrade to Epoch rather than failing the cycle; a trailing Z from older
// writers is tolerated.
func ParseWatermark(s string) time.Time {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if s == "" {
		return Epoch
	}
	// Some writers include fractional seconds.
	for _, layout := range []string{watermarkLayout, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return Epoch
}
