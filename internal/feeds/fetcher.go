package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

const defaultUserAgent = "FeedDeck/1.0"

// Entry is a normalized feed item. PublishedParsed is nil when neither the
// feed nor a best-effort parse of the raw string yields a usable time.
type Entry struct {
	Title           string
	Link            string
	Published       string // raw published string, kept for display
	PublishedParsed *time.Time
}

// ParsedFeed is the adapter's view of one fetched feed.
type ParsedFeed struct {
	Title   string
	Entries []Entry
}

// cached holds the validators and body of the last successful fetch so a
// 304 response can still serve entries.
type cached struct {
	etag         string
	lastModified string
	feed         *ParsedFeed
}

// Fetcher fetches and parses RSS/Atom feeds. One outbound request per call,
// except when the server honors the conditional headers from a prior fetch.
type Fetcher struct {
	parser    *gofeed.Parser
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*cached
}

// NewFetcher creates a feed fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &Fetcher{
		parser:    parser,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		cache:     make(map[string]*cached),
	}
}

// Fetch retrieves and parses a single feed. A network failure, non-200
// status, or parse failure surfaces as one error for the whole feed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*ParsedFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.mu.Lock()
	prev := f.cache[url]
	f.mu.Unlock()
	if prev != nil {
		if prev.etag != "" {
			req.Header.Set("If-None-Match", prev.etag)
		}
		if prev.lastModified != "" {
			req.Header.Set("If-Modified-Since", prev.lastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && prev != nil {
		return prev.feed, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed %s: %w", url, err)
	}

	parsed, err := f.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", url, err)
	}

	feed := normalize(parsed)

	etag := resp.Header.Get("ETag")
	lastModified := resp.Header.Get("Last-Modified")
	if etag != "" || lastModified != "" {
		f.mu.Lock()
		f.cache[url] = &cached{etag: etag, lastModified: lastModified, feed: feed}
		f.mu.Unlock()
	}

	return feed, nil
}

func normalize(feed *gofeed.Feed) *ParsedFeed {
	out := &ParsedFeed{Title: feed.Title}
	for _, item := range feed.Items {
		out.Entries = append(out.Entries, normalizeItem(item))
	}
	return out
}

// normalizeItem maps a gofeed item to an Entry. Publish time preference:
// the feed's structured published time, then updated time, then a
// best-effort parse of the raw published string.
func normalizeItem(item *gofeed.Item) Entry {
	title := item.Title
	if title == "" {
		title = "(no title)"
	}

	var ts *time.Time
	switch {
	case item.PublishedParsed != nil:
		ts = item.PublishedParsed
	case item.UpdatedParsed != nil:
		ts = item.UpdatedParsed
	case item.Published != "":
		if t, err := dateparse.ParseAny(item.Published); err == nil {
			ts = &t
		}
	}

	return Entry{
		Title:           title,
		Link:            item.Link,
		Published:       item.Published,
		PublishedParsed: ts,
	}
}
