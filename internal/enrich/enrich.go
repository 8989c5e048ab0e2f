// Package enrich fetches best-effort preview metadata (image, description)
// for an article's linked page. Every failure mode degrades to "absent";
// nothing here ever returns an error to the caller.
package enrich

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
)

// maxBodyBytes caps how much of an article page is read for metadata.
const maxBodyBytes = 1 << 20

type preview struct {
	image       string
	description string
}

// Fetcher scrapes og:/twitter:/meta tags from article pages. Successful
// lookups are cached so a dashboard refresh does not re-scrape every card.
type Fetcher struct {
	client    *http.Client
	userAgent string
	cache     *lru.Cache[string, preview]
}

// NewFetcher creates an enrichment fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	cache, _ := lru.New[string, preview](512)
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		cache:     cache,
	}
}

// PreviewImage returns the page's preview image URL, or ok=false when the
// page is unreachable or carries no usable tag.
func (f *Fetcher) PreviewImage(ctx context.Context, link string) (string, bool) {
	p, ok := f.lookup(ctx, link)
	if !ok || p.image == "" {
		return "", false
	}
	return p.image, true
}

// PreviewDescription returns the page's meta description, or ok=false.
func (f *Fetcher) PreviewDescription(ctx context.Context, link string) (string, bool) {
	p, ok := f.lookup(ctx, link)
	if !ok || p.description == "" {
		return "", false
	}
	return p.description, true
}

func (f *Fetcher) lookup(ctx context.Context, link string) (preview, bool) {
	if p, ok := f.cache.Get(link); ok {
		return p, true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return preview{}, false
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return preview{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return preview{}, false
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return preview{}, false
	}

	p := preview{
		image:       extractImage(doc),
		description: extractDescription(doc),
	}
	f.cache.Add(link, p)
	return p, true
}

// extractImage prefers og:image, then twitter:image, then the first <img>.
func extractImage(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find("img").First().Attr("src"); ok {
		return v
	}
	return ""
}

// extractDescription prefers og:description, then the plain meta description.
func extractDescription(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && v != "" {
		return v
	}
	return ""
}
