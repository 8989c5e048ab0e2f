package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	feeddeck "github.com/feeddeck/feeddeck"
	"github.com/feeddeck/feeddeck/internal/storage"
)

func newTestApp(t *testing.T) (http.Handler, *feeddeck.Engine, *session) {
	t.Helper()
	engine, err := feeddeck.NewEngine(feeddeck.EngineConfig{
		Backend: "json",
		DataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	sess := newSession(storage.DefaultConfig())
	return newRouter(engine, sess), engine, sess
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST %s: got status %d, want %d", path, rec.Code, http.StatusSeeOther)
	}
	return rec
}

func TestDashboardEmpty(t *testing.T) {
	router, _, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "FeedDeck") {
		t.Error("dashboard body missing app title")
	}
}

func TestProjectCreateAndDelete(t *testing.T) {
	router, engine, sess := newTestApp(t)

	postForm(t, router, "/projects", url.Values{"name": {"news"}})

	names, err := engine.ProjectNames()
	if err != nil {
		t.Fatalf("ProjectNames: %v", err)
	}
	if len(names) != 1 || names[0] != "news" {
		t.Errorf("projects after create: %v", names)
	}
	if sess.snapshot().Project != "news" {
		t.Error("created project should become the selection")
	}

	postForm(t, router, "/projects/delete", url.Values{"name": {"news"}})
	names, _ = engine.ProjectNames()
	if len(names) != 0 {
		t.Errorf("projects after delete: %v", names)
	}
	if sess.snapshot().Project != "" {
		t.Error("deleting the selected project should clear the selection")
	}
}

func TestFeedAddRequiresProject(t *testing.T) {
	router, engine, _ := newTestApp(t)

	// No project selected: the add is a no-op, not an error page.
	postForm(t, router, "/feeds", url.Values{"url": {"https://a.example/feed"}})

	postForm(t, router, "/projects", url.Values{"name": {"news"}})
	postForm(t, router, "/feeds", url.Values{"url": {"https://a.example/feed"}})

	feeds, err := engine.ProjectFeeds("news")
	if err != nil {
		t.Fatalf("ProjectFeeds: %v", err)
	}
	if len(feeds) != 1 || feeds[0] != "https://a.example/feed" {
		t.Errorf("feeds: %v", feeds)
	}
}

func TestSettingsValidation(t *testing.T) {
	router, _, sess := newTestApp(t)

	postForm(t, router, "/settings", url.Values{
		"lang":    {"Deutsch"},
		"filter":  {"golang"},
		"items":   {"10"},
		"refresh": {"120"},
		"webhook": {"https://hooks.example/n8n"},
	})

	st := sess.snapshot()
	if st.Lang != "Deutsch" || st.Filter != "golang" || st.Items != 10 || st.RefreshSeconds != 120 {
		t.Errorf("settings not applied: %+v", st)
	}
	if st.Webhook != "https://hooks.example/n8n" {
		t.Errorf("webhook: got %q", st.Webhook)
	}

	// Out-of-range values and unknown languages are ignored.
	postForm(t, router, "/settings", url.Values{
		"lang":    {"Klingon"},
		"items":   {"99"},
		"refresh": {"-5"},
	})
	st = sess.snapshot()
	if st.Lang != "Deutsch" || st.Items != 10 || st.RefreshSeconds != 120 {
		t.Errorf("invalid settings should be ignored: %+v", st)
	}
}

func TestMarkReadThroughForm(t *testing.T) {
	router, engine, _ := newTestApp(t)

	postForm(t, router, "/projects", url.Values{"name": {"news"}})
	postForm(t, router, "/articles/read", url.Values{
		"id":       {"id-1"},
		"feed_url": {"https://a.example/feed"},
		"title":    {"Hello"},
		"link":     {"https://a.example/1"},
	})

	read, err := engine.IsRead("id-1")
	if err != nil {
		t.Fatalf("IsRead: %v", err)
	}
	if !read {
		t.Error("expected article marked read")
	}
}

func TestSendWebhookFlashesError(t *testing.T) {
	router, _, sess := newTestApp(t)

	// No webhook configured: the send fails and surfaces as a flash.
	postForm(t, router, "/articles/send", url.Values{
		"id": {"id-1"}, "feed_url": {"f"}, "title": {"t"}, "link": {"l"},
	})

	st := sess.snapshot()
	if st.Flash == "" || !st.FlashError {
		t.Errorf("expected error flash, got %+v", st)
	}
	if sess.snapshot().Flash != "" {
		t.Error("flash should clear after one snapshot")
	}
}

func TestStaticAssets(t *testing.T) {
	router, _, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /static/style.css: got status %d", rec.Code)
	}
}
