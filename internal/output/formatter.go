package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	feeddeck "github.com/feeddeck/feeddeck"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatHuman Format = "human"
)

type Formatter struct {
	format Format
	out    io.Writer
	err    io.Writer
}

// NewFormatter creates a new output formatter
func NewFormatter(format Format) *Formatter {
	return &Formatter{
		format: format,
		out:    os.Stdout,
		err:    os.Stderr,
	}
}

// NewFormatterWithWriters creates a formatter with custom output writers for testability
func NewFormatterWithWriters(format Format, out, errW io.Writer) *Formatter {
	return &Formatter{
		format: format,
		out:    out,
		err:    errW,
	}
}

// OutputRefreshResult outputs a project refresh summary in the configured format.
func (f *Formatter) OutputRefreshResult(result *feeddeck.RefreshResult) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(result)
	case FormatText:
		fmt.Fprintf(f.out, "project=%s\n", result.Project)
		fmt.Fprintf(f.out, "feeds_total=%d\n", result.FeedsTotal)
		fmt.Fprintf(f.out, "feeds_errored=%d\n", result.FeedsErrored)
		fmt.Fprintf(f.out, "new_articles=%d\n", result.NewArticles)
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Project %s: %d feeds, %d new articles\n",
			result.Project, result.FeedsTotal, result.NewArticles)
		for _, feed := range result.Feeds {
			if feed.Err != "" {
				fmt.Fprintf(f.out, "  ✗ %s: %s\n", feed.URL, feed.Err)
				continue
			}
			fmt.Fprintf(f.out, "  %s (%d shown", feed.Title, len(feed.Articles))
			if len(feed.Skipped) > 0 {
				fmt.Fprintf(f.out, ", %d skipped", len(feed.Skipped))
			}
			fmt.Fprintln(f.out, ")")
			for _, a := range feed.Articles {
				marker := " "
				if a.IsNew {
					marker = "🆕"
				}
				read := ""
				if a.Read {
					read = " ✓"
				}
				fmt.Fprintf(f.out, "    %s %s%s\n      %s\n", marker, a.Title, read, a.Link)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputArticleList outputs a flat list of articles.
func (f *Formatter) OutputArticleList(articles []feeddeck.Article) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(articles)
	case FormatText:
		for _, a := range articles {
			id := a.ID
			if len(id) > 12 {
				id = id[:12]
			}
			fmt.Fprintf(f.out, "%s\t%s\t%s\n", id, a.Title, a.Link)
		}
		return nil
	case FormatHuman:
		for _, a := range articles {
			read := ""
			if a.Read {
				read = " ✓"
			}
			fmt.Fprintf(f.out, "%s%s\n  %s\n", a.Title, read, a.Link)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// Warning prints a warning to the error writer regardless of format.
func (f *Formatter) Warning(format string, args ...any) {
	fmt.Fprintf(f.err, "Warning: "+format+"\n", args...)
}
