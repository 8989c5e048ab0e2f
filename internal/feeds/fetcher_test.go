package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Test Article</title>
      <link>https://example.com/1</link>
      <pubDate>Tue, 10 Jun 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <link>https://example.com/2</link>
    </item>
  </channel>
</rss>`

func TestFetchParsesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, testRSS)
	}))
	defer srv.Close()

	f := NewFetcher(2*time.Second, "")
	feed, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if feed.Title != "Test Feed" {
		t.Errorf("feed title: got %q", feed.Title)
	}
	if len(feed.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed.Entries))
	}

	first := feed.Entries[0]
	if first.Title != "Test Article" {
		t.Errorf("entry title: got %q", first.Title)
	}
	if first.PublishedParsed == nil {
		t.Fatal("expected structured publish time")
	}
	want := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	if !first.PublishedParsed.Equal(want) {
		t.Errorf("publish time: got %v, want %v", first.PublishedParsed, want)
	}

	// Entries without a title get the placeholder.
	if feed.Entries[1].Title != "(no title)" {
		t.Errorf("placeholder title: got %q", feed.Entries[1].Title)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(2*time.Second, "")
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 status")
	}
}

func TestFetchUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	}))
	defer srv.Close()

	f := NewFetcher(2*time.Second, "")
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFetchConditional304ServesCachedEntries(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) > 1 {
			if r.Header.Get("If-None-Match") != `"v1"` {
				t.Errorf("expected If-None-Match on repeat fetch, got %q", r.Header.Get("If-None-Match"))
			}
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, testRSS)
	}))
	defer srv.Close()

	f := NewFetcher(2*time.Second, "")

	first, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	second, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}

	if len(second.Entries) != len(first.Entries) {
		t.Errorf("304 should serve cached entries: got %d, want %d", len(second.Entries), len(first.Entries))
	}
	if requests.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", requests.Load())
	}
}

func TestNormalizeItemTimePreference(t *testing.T) {
	published := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)

	e := normalizeItem(&gofeed.Item{Link: "x", PublishedParsed: &published, UpdatedParsed: &updated})
	if e.PublishedParsed == nil || !e.PublishedParsed.Equal(published) {
		t.Errorf("expected published time to win, got %v", e.PublishedParsed)
	}

	e = normalizeItem(&gofeed.Item{Link: "x", UpdatedParsed: &updated})
	if e.PublishedParsed == nil || !e.PublishedParsed.Equal(updated) {
		t.Errorf("expected updated-time fallback, got %v", e.PublishedParsed)
	}
}

func TestNormalizeItemDateparseFallback(t *testing.T) {
	// A raw string gofeed leaves unparsed still yields a structured time.
	e := normalizeItem(&gofeed.Item{Link: "x", Published: "May 8, 2009 5:57:51 PM"})
	if e.PublishedParsed == nil {
		t.Fatal("expected dateparse fallback to produce a time")
	}
	if e.PublishedParsed.Year() != 2009 {
		t.Errorf("fallback parsed wrong year: %d", e.PublishedParsed.Year())
	}

	e = normalizeItem(&gofeed.Item{Link: "x", Published: "definitely not a date"})
	if e.PublishedParsed != nil {
		t.Errorf("expected nil time for garbage, got %v", e.PublishedParsed)
	}
}
