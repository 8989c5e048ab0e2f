package feeddeck

import "time"

// EngineConfig configures the FeedDeck engine.
type EngineConfig struct {
	Backend     string        // storage backend: "json" (ledger files) or "sqlite"
	DataDir     string        // directory for the JSON ledgers
	DBPath      string        // path to the SQLite database
	HTTPTimeout time.Duration // timeout for feed, enrichment, and webhook requests
	UserAgent   string
	MaxItems    int // default articles per feed when the caller passes 0
}

// Article is a single feed entry ready for display.
type Article struct {
	ID          string     `json:"id"`
	FeedURL     string     `json:"feed_url"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Published   string     `json:"published"` // raw published string from the feed
	PublishedAt *time.Time `json:"published_at,omitempty"`
	IsNew       bool       `json:"is_new"`
	Read        bool       `json:"read"`
}

// FeedView is the per-feed slice of a refresh pass. Err is set when the
// whole feed failed; Skipped carries per-entry soft warnings.
type FeedView struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Articles []Article `json:"articles,omitempty"`
	Skipped  []string  `json:"skipped,omitempty"`
	Err      string    `json:"error,omitempty"`
}

// RefreshResult summarizes one refresh pass over a project's feeds.
// NewArticles counts every entry past the watermark, including entries the
// text filter later hid from the view.
type RefreshResult struct {
	Project      string     `json:"project"`
	Feeds        []FeedView `json:"feeds"`
	FeedsTotal   int        `json:"feeds_total"`
	FeedsErrored int        `json:"feeds_errored"`
	NewArticles  int        `json:"new_articles"`
}
