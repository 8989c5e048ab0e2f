package main

import (
	"sync"

	"github.com/feeddeck/feeddeck/internal/storage"
)

// sessionState is a point-in-time copy of the interactive session: the
// selected project, filter text, display options, and webhook endpoint.
// It replaces the original tool's ambient globals so handlers work from an
// explicit snapshot.
type sessionState struct {
	Lang           string
	Project        string
	Filter         string
	Items          int
	RefreshSeconds int
	Webhook        string
	Flash          string
	FlashError     bool
}

// session is the single-user mutable state behind the dashboard.
type session struct {
	mu    sync.Mutex
	state sessionState
}

func newSession(cfg *storage.Config) *session {
	lang := cfg.UI.Language
	if _, ok := translations[lang]; !ok {
		lang = "English"
	}
	return &session{state: sessionState{
		Lang:           lang,
		Items:          cfg.Fetch.MaxItems,
		RefreshSeconds: cfg.UI.RefreshSeconds,
		Webhook:        cfg.Webhook.Endpoint,
	}}
}

// snapshot returns a copy of the current state and clears any pending
// flash message (flashes render exactly once).
func (s *session) snapshot() sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	s.state.Flash = ""
	s.state.FlashError = false
	return state
}

func (s *session) update(fn func(*sessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *session) flash(msg string, isErr bool) {
	s.update(func(st *sessionState) {
		st.Flash = msg
		st.FlashError = isErr
	})
}
