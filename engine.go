// Package feeddeck is the public API for the FeedDeck aggregation engine:
// project-grouped feed subscriptions, watermark-based novelty detection,
// a per-article read ledger, preview enrichment, and webhook forwarding.
package feeddeck

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/feeddeck/feeddeck/internal/enrich"
	"github.com/feeddeck/feeddeck/internal/feeds"
	"github.com/feeddeck/feeddeck/internal/ingest"
	"github.com/feeddeck/feeddeck/internal/notify"
	"github.com/feeddeck/feeddeck/internal/storage"
)

// Engine wraps the store, the feed fetcher, the ingestor, the enrichment
// fetcher, and the webhook notifier behind one facade.
type Engine struct {
	store    storage.Store
	ingestor *ingest.Ingestor
	enricher *enrich.Fetcher
	notifier *notify.Notifier
	cfg      EngineConfig
}

// NewEngine creates a FeedDeck engine with the given configuration.
// Zero-valued fields fall back to defaults.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Backend == "" {
		cfg.Backend = "json"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./feeddeck.db"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 5 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "FeedDeck/1.0"
	}
	if cfg.MaxItems == 0 {
		cfg.MaxItems = 5
	}

	var store storage.Store
	var err error
	switch cfg.Backend {
	case "json":
		store, err = storage.NewLedgerStore(cfg.DataDir)
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	fetcher := feeds.NewFetcher(cfg.HTTPTimeout, cfg.UserAgent)

	return &Engine{
		store:    store,
		ingestor: ingest.New(fetcher),
		enricher: enrich.NewFetcher(cfg.HTTPTimeout, ""),
		notifier: notify.NewNotifier(cfg.HTTPTimeout),
		cfg:      cfg,
	}, nil
}

func (e *Engine) Close() error { return e.store.Close() }

// --- Project registry ---

// ProjectNames returns all project names, sorted.
func (e *Engine) ProjectNames() ([]string, error) {
	projects, err := e.store.Projects()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *Engine) ProjectFeeds(name string) ([]string, error) {
	return e.store.ProjectFeeds(name)
}

func (e *Engine) CreateProject(name string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	return e.store.CreateProject(name)
}

// DeleteProject removes a project wholesale. Read-ledger entries for its
// articles are left in place; they are keyed by article identity and may be
// shared with other projects.
func (e *Engine) DeleteProject(name string) error { return e.store.DeleteProject(name) }

func (e *Engine) AddFeed(project, url string) error    { return e.store.AddFeed(project, url) }
func (e *Engine) RemoveFeed(project, url string) error { return e.store.RemoveFeed(project, url) }

// --- Ingestion ---

// RefreshFeed ingests one feed against its stored watermark and advances
// the watermark to the newest observed publish time. On a feed-level error
// the watermark is left untouched.
func (e *Engine) RefreshFeed(ctx context.Context, feedURL string, maxItems int) (*ingest.Result, error) {
	if maxItems <= 0 {
		maxItems = e.cfg.MaxItems
	}
	prior, err := e.store.Watermark(feedURL)
	if err != nil {
		return nil, err
	}
	res, err := e.ingestor.Ingest(ctx, feedURL, prior, maxItems)
	if err != nil {
		return nil, err
	}
	if res.Watermark.After(prior) {
		if err := e.store.SetWatermark(feedURL, res.Watermark); err != nil {
			return nil, fmt.Errorf("persist watermark for %s: %w", feedURL, err)
		}
	}
	return res, nil
}

// RefreshProject runs one full pass over a project's feeds, in order. A
// failing feed contributes an inline error and never aborts the pass. The
// title filter is applied after novelty and watermark computation, so
// hidden entries still count toward NewArticles.
func (e *Engine) RefreshProject(ctx context.Context, project, filter string, maxItems int) (*RefreshResult, error) {
	urls, err := e.store.ProjectFeeds(project)
	if err != nil {
		return nil, err
	}
	flags, err := e.store.ReadFlags()
	if err != nil {
		return nil, err
	}

	out := &RefreshResult{Project: project, FeedsTotal: len(urls)}
	for _, url := range urls {
		view := FeedView{URL: url}
		res, err := e.RefreshFeed(ctx, url, maxItems)
		if err != nil {
			view.Err = err.Error()
			out.FeedsErrored++
			out.Feeds = append(out.Feeds, view)
			continue
		}

		view.Title = res.FeedTitle
		if view.Title == "" {
			view.Title = "No Title"
		}
		out.NewArticles += res.NewCount

		for _, o := range res.Outcomes {
			if o.Skipped {
				view.Skipped = append(view.Skipped, o.SkipReason)
				continue
			}
			if !ingest.MatchesFilter(o.Title, filter) {
				continue
			}
			published := o.Published
			view.Articles = append(view.Articles, Article{
				ID:          o.ID,
				FeedURL:     url,
				Title:       o.Title,
				Link:        o.Link,
				Published:   o.PublishedRaw,
				PublishedAt: &published,
				IsNew:       o.IsNew,
				Read:        flags[o.ID],
			})
		}
		out.Feeds = append(out.Feeds, view)
	}
	return out, nil
}

// --- User actions ---

// MarkRead flags an article read and records the audit entry. Idempotent:
// a second call overwrites the log entry rather than duplicating it.
func (e *Engine) MarkRead(project string, a Article) error {
	return e.store.MarkRead(a.ID, storage.LogEntry{
		Project: project,
		FeedURL: a.FeedURL,
		Title:   a.Title,
		Link:    a.Link,
		ReadAt:  utcTimestamp(),
	})
}

// IsRead reports the ledger state for one article identity.
func (e *Engine) IsRead(id string) (bool, error) { return e.store.ReadFlag(id) }

// ReadLog returns the append-only audit trail of mark-read actions.
func (e *Engine) ReadLog() (map[string]storage.LogEntry, error) { return e.store.ReadLog() }

// SendToWebhook posts the article to the automation endpoint. The read
// ledger is not touched by this action.
func (e *Engine) SendToWebhook(ctx context.Context, endpoint, project string, a Article) error {
	return e.notifier.Notify(ctx, endpoint, notify.Payload{
		Project:   project,
		FeedURL:   a.FeedURL,
		Title:     a.Title,
		Link:      a.Link,
		Timestamp: utcTimestamp(),
	})
}

// Preview fetches best-effort enrichment for an article link. Absent
// values come back empty, never as an error.
func (e *Engine) Preview(ctx context.Context, link string) (image, description string) {
	image, _ = e.enricher.PreviewImage(ctx, link)
	description, _ = e.enricher.PreviewDescription(ctx, link)
	return image, description
}

// utcTimestamp matches the ledger's historical timestamp form.
func utcTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05") + "Z"
}
