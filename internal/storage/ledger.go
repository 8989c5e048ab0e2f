package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// Ledger file names, unchanged from the original data layout.
const (
	projectsFile = "projects.json"
	readFile     = "read.json"
	readLogFile  = "read_log.json"
	seenFile     = "seen.json"
)

// LedgerStore persists each ledger as its own JSON file in dir. A missing
// or unreadable file reads as an empty ledger; every mutation rewrites the
// whole file through a temp-file rename. The read flag and the log entry
// live in separate files, so a crash between the two writes can leave them
// inconsistent — a known property of this backend, kept for compatibility
// with existing data.
type LedgerStore struct {
	dir string
	mu  sync.Mutex
}

// NewLedgerStore opens (creating if needed) a ledger directory.
func NewLedgerStore(dir string) (*LedgerStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger dir %s: %w", dir, err)
	}
	return &LedgerStore{dir: dir}, nil
}

func (s *LedgerStore) Close() error { return nil }

// loadJSON reads one ledger file into v. Absent or malformed files leave v
// untouched (callers pass a pointer to an initialized empty map).
func (s *LedgerStore) loadJSON(name string, v any) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, v)
}

// saveJSON rewrites one ledger file atomically enough for a single writer.
func (s *LedgerStore) saveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (s *LedgerStore) loadProjects() map[string][]string {
	m := make(map[string][]string)
	s.loadJSON(projectsFile, &m)
	return m
}

func (s *LedgerStore) Projects() (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProjects(), nil
}

func (s *LedgerStore) ProjectFeeds(name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.loadProjects()
	urls, ok := projects[name]
	if !ok {
		return nil, fmt.Errorf("project %q does not exist", name)
	}
	return urls, nil
}

func (s *LedgerStore) CreateProject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.loadProjects()
	if _, ok := projects[name]; ok {
		return fmt.Errorf("project %q already exists", name)
	}
	projects[name] = []string{}
	return s.saveJSON(projectsFile, projects)
}

func (s *LedgerStore) DeleteProject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.loadProjects()
	if _, ok := projects[name]; !ok {
		return fmt.Errorf("project %q does not exist", name)
	}
	delete(projects, name)
	return s.saveJSON(projectsFile, projects)
}

func (s *LedgerStore) AddFeed(project, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.loadProjects()
	urls, ok := projects[project]
	if !ok {
		return fmt.Errorf("project %q does not exist", project)
	}
	if slices.Contains(urls, url) {
		return fmt.Errorf("feed %s already in project %q", url, project)
	}
	projects[project] = append(urls, url)
	return s.saveJSON(projectsFile, projects)
}

func (s *LedgerStore) RemoveFeed(project, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.loadProjects()
	urls, ok := projects[project]
	if !ok {
		return fmt.Errorf("project %q does not exist", project)
	}
	idx := slices.Index(urls, url)
	if idx < 0 {
		return fmt.Errorf("feed %s not in project %q", url, project)
	}
	projects[project] = slices.Delete(urls, idx, idx+1)
	return s.saveJSON(projectsFile, projects)
}

func (s *LedgerStore) ReadFlag(id string) (bool, error) {
	flags, err := s.ReadFlags()
	if err != nil {
		return false, err
	}
	return flags[id], nil
}

func (s *LedgerStore) ReadFlags() (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]bool)
	s.loadJSON(readFile, &m)
	return m, nil
}

func (s *LedgerStore) MarkRead(id string, entry LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags := make(map[string]bool)
	s.loadJSON(readFile, &flags)
	flags[id] = true
	if err := s.saveJSON(readFile, flags); err != nil {
		return err
	}

	log := make(map[string]LogEntry)
	s.loadJSON(readLogFile, &log)
	log[id] = entry
	return s.saveJSON(readLogFile, log)
}

func (s *LedgerStore) ReadLog() (map[string]LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]LogEntry)
	s.loadJSON(readLogFile, &m)
	return m, nil
}

func (s *LedgerStore) Watermark(feedURL string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]string)
	s.loadJSON(seenFile, &seen)
	raw, ok := seen[feedURL]
	if !ok {
		return Epoch, nil
	}
	return ParseWatermark(raw), nil
}

func (s *LedgerStore) SetWatermark(feedURL string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]string)
	s.loadJSON(seenFile, &seen)
	seen[feedURL] = FormatWatermark(t)
	return s.saveJSON(seenFile, seen)
}
