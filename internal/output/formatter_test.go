package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	feeddeck "github.com/feeddeck/feeddeck"
)

func testResult() *feeddeck.RefreshResult {
	return &feeddeck.RefreshResult{
		Project:      "news",
		FeedsTotal:   2,
		FeedsErrored: 1,
		NewArticles:  1,
		Feeds: []feeddeck.FeedView{
			{
				URL:   "https://a.example/feed",
				Title: "Feed A",
				Articles: []feeddeck.Article{
					{ID: "aaaabbbbccccddddeeeeffff", Title: "Hello", Link: "https://a.example/1", IsNew: true},
					{ID: "0123456789abcdef01234567", Title: "World", Link: "https://a.example/2", Read: true},
				},
				Skipped: []string{"missing link"},
			},
			{URL: "https://b.example/feed", Err: "feed returned status 500"},
		},
	}
}

func TestOutputRefreshResultJSON(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatterWithWriters(FormatJSON, &out, &bytes.Buffer{})

	if err := f.OutputRefreshResult(testResult()); err != nil {
		t.Fatalf("OutputRefreshResult: %v", err)
	}

	var decoded feeddeck.RefreshResult
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Project != "news" || decoded.NewArticles != 1 {
		t.Errorf("decoded result: %+v", decoded)
	}
}

func TestOutputRefreshResultText(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatterWithWriters(FormatText, &out, &bytes.Buffer{})

	if err := f.OutputRefreshResult(testResult()); err != nil {
		t.Fatalf("OutputRefreshResult: %v", err)
	}

	for _, want := range []string{"project=news", "feeds_total=2", "feeds_errored=1", "new_articles=1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, out.String())
		}
	}
}

func TestOutputRefreshResultHuman(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, &out, &bytes.Buffer{})

	if err := f.OutputRefreshResult(testResult()); err != nil {
		t.Fatalf("OutputRefreshResult: %v", err)
	}

	s := out.String()
	if !strings.Contains(s, "Project news: 2 feeds, 1 new articles") {
		t.Errorf("missing summary line:\n%s", s)
	}
	if !strings.Contains(s, "Feed A") || !strings.Contains(s, "1 skipped") {
		t.Errorf("missing feed detail:\n%s", s)
	}
	if !strings.Contains(s, "feed returned status 500") {
		t.Errorf("missing inline feed error:\n%s", s)
	}
}

func TestOutputArticleListText(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatterWithWriters(FormatText, &out, &bytes.Buffer{})

	articles := []feeddeck.Article{
		{ID: "aaaabbbbccccddddeeeeffff", Title: "Hello", Link: "https://a.example/1"},
		{ID: "short", Title: "Tiny", Link: "https://a.example/2"},
	}
	if err := f.OutputArticleList(articles); err != nil {
		t.Fatalf("OutputArticleList: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "aaaabbbbcccc\t") {
		t.Errorf("long ids should be truncated: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "short\t") {
		t.Errorf("short ids pass through untouched: %q", lines[1])
	}
}

func TestOutputArticleListHuman(t *testing.T) {
	var out bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, &out, &bytes.Buffer{})

	articles := []feeddeck.Article{
		{ID: "a", Title: "Hello", Link: "https://a.example/1", Read: true},
	}
	if err := f.OutputArticleList(articles); err != nil {
		t.Fatalf("OutputArticleList: %v", err)
	}
	if !strings.Contains(out.String(), "Hello ✓") {
		t.Errorf("read marker missing:\n%s", out.String())
	}
}

func TestUnknownFormat(t *testing.T) {
	f := NewFormatterWithWriters(Format("yaml"), &bytes.Buffer{}, &bytes.Buffer{})
	if err := f.OutputRefreshResult(testResult()); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := f.OutputArticleList(nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWarningGoesToErrWriter(t *testing.T) {
	var out, errW bytes.Buffer
	f := NewFormatterWithWriters(FormatHuman, &out, &errW)

	f.Warning("refresh %q: %v", "news", "timeout")

	if out.Len() != 0 {
		t.Errorf("warning leaked to stdout: %q", out.String())
	}
	if !strings.Contains(errW.String(), `Warning: refresh "news": timeout`) {
		t.Errorf("warning output: %q", errW.String())
	}
}
