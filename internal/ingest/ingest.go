// Package ingest computes per-entry novelty against a per-feed watermark.
//
// The watermark is the publish time of the newest entry observed across all
// prior runs for a feed. It only moves forward, it is advanced over every
// fetched entry with a usable publish time (not just entries that survive
// later filtering), and entries at exactly the watermark are not new.
package ingest

import (
	"context"
	"time"

	"github.com/feeddeck/feeddeck/internal/feeds"
)

// Outcome is the per-entry result of an ingestion pass. Either Skipped is
// true and SkipReason explains why, or the remaining fields are populated.
type Outcome struct {
	Title        string
	Link         string
	Published    time.Time
	PublishedRaw string
	IsNew        bool
	ID           string
	Skipped      bool
	SkipReason   string
}

// Result is the outcome of ingesting one feed.
type Result struct {
	FeedTitle string
	Outcomes  []Outcome
	Watermark time.Time // max publish time over all valid entries, never before the prior watermark
	NewCount  int       // entries strictly past the prior watermark, counted before filtering
}

// Ingestor runs the ingestion pass for single feeds.
type Ingestor struct {
	fetcher *feeds.Fetcher
}

func New(fetcher *feeds.Fetcher) *Ingestor {
	return &Ingestor{fetcher: fetcher}
}

// Ingest fetches feedURL and classifies up to maxItems entries against the
// prior watermark. A feed-level failure (network, status, parse) returns a
// single error and the caller must leave the stored watermark untouched. A
// malformed entry yields one Skipped outcome and never aborts its siblings.
func (in *Ingestor) Ingest(ctx context.Context, feedURL string, prior time.Time, maxItems int) (*Result, error) {
	parsed, err := in.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	entries := parsed.Entries
	if maxItems > 0 && len(entries) > maxItems {
		entries = entries[:maxItems]
	}

	res := &Result{FeedTitle: parsed.Title, Watermark: prior}
	for _, e := range entries {
		switch {
		case e.Link == "":
			res.Outcomes = append(res.Outcomes, Outcome{
				Title:      e.Title,
				Skipped:    true,
				SkipReason: "missing link",
			})
			continue
		case e.PublishedParsed == nil:
			res.Outcomes = append(res.Outcomes, Outcome{
				Title:      e.Title,
				Link:       e.Link,
				Skipped:    true,
				SkipReason: "unparseable publish date",
			})
			continue
		}

		// Watermarks persist at second precision, so publish times are
		// compared at second precision too. Without this an entry with a
		// fractional-second timestamp stays strictly past its own stored
		// watermark forever.
		t := e.PublishedParsed.Truncate(time.Second)
		isNew := t.After(prior)
		if isNew {
			res.NewCount++
		}
		if t.After(res.Watermark) {
			res.Watermark = t
		}

		res.Outcomes = append(res.Outcomes, Outcome{
			Title:        e.Title,
			Link:         e.Link,
			Published:    t,
			PublishedRaw: e.Published,
			IsNew:        isNew,
			ID:           Identity(feedURL, e.Link),
		})
	}

	return res, nil
}
