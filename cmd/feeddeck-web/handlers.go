package main

import (
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"slices"
	"strconv"
	"sync"

	feeddeck "github.com/feeddeck/feeddeck"
	"github.com/microcosm-cc/bluemonday"
)

// handlers holds dependencies for all HTTP handler methods.
type handlers struct {
	engine *feeddeck.Engine
	sess   *session

	initOnce sync.Once
	tmpl     *template.Template
	policy   *bluemonday.Policy
}

func (h *handlers) init() {
	h.initOnce.Do(func() {
		funcMap := template.FuncMap{
			"safeHTML": func(s string) template.HTML {
				return template.HTML(s) //nolint:gosec // already sanitized by bluemonday
			},
		}
		tmplFS, _ := fs.Sub(embedded, "templates")
		h.tmpl = template.Must(template.New("").Funcs(funcMap).ParseFS(tmplFS, "dashboard.html"))
		h.policy = bluemonday.StrictPolicy()
	})
}

// --- Template data types ---

type dashboardData struct {
	T              map[string]string
	Langs          []string
	Lang           string
	Projects       []string
	Project        string
	FeedURLs       []string
	Filter         string
	Items          int
	RefreshSeconds int
	Webhook        string
	Flash          string
	FlashError     bool
	Columns        []feedColumn
	NewArticles    int
}

type feedColumn struct {
	URL      string
	Title    string
	Err      string
	Skipped  []string
	Articles []articleCard
}

type articleCard struct {
	ID          string
	FeedURL     string
	Title       string
	Link        string
	Published   string
	IsNew       bool
	Read        bool
	Image       string
	Description string
}

// handleDashboard renders the full multi-column view for the selected
// project: one refresh pass over its feeds, read/new state per card, and
// best-effort preview enrichment.
func (h *handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.init()
	st := h.sess.snapshot()

	projects, err := h.engine.ProjectNames()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Fall back to the first project when none is selected or the
	// selected one was deleted.
	if st.Project == "" || !slices.Contains(projects, st.Project) {
		st.Project = ""
		if len(projects) > 0 {
			st.Project = projects[0]
		}
		h.sess.update(func(s *sessionState) { s.Project = st.Project })
	}

	data := dashboardData{
		T:              translations[st.Lang],
		Langs:          []string{"English", "Deutsch"},
		Lang:           st.Lang,
		Projects:       projects,
		Project:        st.Project,
		Filter:         st.Filter,
		Items:          st.Items,
		RefreshSeconds: st.RefreshSeconds,
		Webhook:        st.Webhook,
		Flash:          st.Flash,
		FlashError:     st.FlashError,
	}

	if st.Project != "" {
		result, err := h.engine.RefreshProject(r.Context(), st.Project, st.Filter, st.Items)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data.NewArticles = result.NewArticles
		for _, view := range result.Feeds {
			data.FeedURLs = append(data.FeedURLs, view.URL)
			col := feedColumn{URL: view.URL, Title: view.Title, Err: view.Err, Skipped: view.Skipped}
			for _, a := range view.Articles {
				image, description := h.engine.Preview(r.Context(), a.Link)
				col.Articles = append(col.Articles, articleCard{
					ID:          a.ID,
					FeedURL:     a.FeedURL,
					Title:       a.Title,
					Link:        a.Link,
					Published:   a.Published,
					IsNew:       a.IsNew,
					Read:        a.Read,
					Image:       image,
					Description: h.policy.Sanitize(description),
				})
			}
			data.Columns = append(data.Columns, col)
		}
	}

	if err := h.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.Printf("feeddeck-web: render: %v", err)
	}
}

func (h *handlers) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if name != "" {
		if err := h.engine.CreateProject(name); err != nil {
			h.sess.flash(err.Error(), true)
		} else {
			h.sess.update(func(s *sessionState) { s.Project = name })
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	if err := h.engine.DeleteProject(name); err != nil {
		h.sess.flash(err.Error(), true)
	} else {
		h.sess.update(func(s *sessionState) {
			if s.Project == name {
				s.Project = ""
			}
		})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleFeedAdd(w http.ResponseWriter, r *http.Request) {
	st := h.sess.snapshot()
	url := r.FormValue("url")
	if url != "" && st.Project != "" {
		if err := h.engine.AddFeed(st.Project, url); err != nil {
			h.sess.flash(err.Error(), true)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleFeedDelete(w http.ResponseWriter, r *http.Request) {
	st := h.sess.snapshot()
	url := r.FormValue("url")
	if url != "" && st.Project != "" {
		if err := h.engine.RemoveFeed(st.Project, url); err != nil {
			h.sess.flash(err.Error(), true)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleSettings(w http.ResponseWriter, r *http.Request) {
	h.sess.update(func(s *sessionState) {
		if lang := r.FormValue("lang"); lang != "" {
			if _, ok := translations[lang]; ok {
				s.Lang = lang
			}
		}
		if project := r.FormValue("project"); project != "" {
			s.Project = project
		}
		s.Filter = r.FormValue("filter")
		if items, err := strconv.Atoi(r.FormValue("items")); err == nil && items >= 3 && items <= 20 {
			s.Items = items
		}
		if secs, err := strconv.Atoi(r.FormValue("refresh")); err == nil && secs >= 0 && secs <= 3600 {
			s.RefreshSeconds = secs
		}
		s.Webhook = r.FormValue("webhook")
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	st := h.sess.snapshot()
	a := articleFromForm(r)
	if a.ID != "" {
		if err := h.engine.MarkRead(st.Project, a); err != nil {
			h.sess.flash(err.Error(), true)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleSendWebhook(w http.ResponseWriter, r *http.Request) {
	st := h.sess.snapshot()
	a := articleFromForm(r)
	t := translations[st.Lang]
	if err := h.engine.SendToWebhook(r.Context(), st.Webhook, st.Project, a); err != nil {
		h.sess.flash(t["sent_fail"]+": "+err.Error(), true)
	} else {
		h.sess.flash(t["sent_ok"], false)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// articleFromForm rebuilds the article an action button referred to. The
// form carries the fields the read log and webhook payload need.
func articleFromForm(r *http.Request) feeddeck.Article {
	return feeddeck.Article{
		ID:      r.FormValue("id"),
		FeedURL: r.FormValue("feed_url"),
		Title:   r.FormValue("title"),
		Link:    r.FormValue("link"),
	}
}
