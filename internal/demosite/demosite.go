// Package demosite serves a small sample site whose AI-readability can be
// switched between maturity levels at runtime, for demonstrating how audit
// scores respond to fixes.
package demosite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
)

// Site is a demo HTTP server with switchable page maturity levels.
type Site struct {
	cfg   Config
	pages map[string]PageDefinition
	mu    sync.RWMutex
	level int
}

// New creates a demo site at cfg.InitialLevel.
func New(cfg Config) *Site {
	pages := make(map[string]PageDefinition)
	for _, p := range AllPages() {
		pages[p.Path] = p
	}

	level := cfg.InitialLevel
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}

	return &Site{cfg: cfg, pages: pages, level: level}
}

// Level returns the current maturity level.
func (s *Site) Level() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// SetLevel switches every page to the given maturity level.
func (s *Site) SetLevel(level int) error {
	if level < 1 || level > MaxLevel {
		return fmt.Errorf("level must be between 1 and %d", MaxLevel)
	}
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
	return nil
}

// Handler returns the site's routes, including the /demo/* control endpoints.
func (s *Site) Handler() http.Handler {
	mux := http.NewServeMux()

	for path := range s.pages {
		mux.HandleFunc(path, s.pageHandler(path))
	}

	mux.HandleFunc("/demo/set-level", s.setLevelHandler)
	mux.HandleFunc("/demo/get-level", s.getLevelHandler)

	return mux
}

// Start starts the demo site and blocks.
func (s *Site) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo site on http://localhost%s (level %d of %d)\n", addr, s.Level(), MaxLevel)
	fmt.Printf("Switch levels with http://localhost%s/demo/set-level?level=N\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Site) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if path == "/" && r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		s.mu.RLock()
		page := s.pages[path]
		level := s.level
		s.mu.RUnlock()

		// Fall back to the closest lower level; a page with no version at
		// or below the current level does not exist yet.
		for l := level; l >= 1; l-- {
			if v, ok := page.Levels[l]; ok {
				w.Header().Set("Content-Type", v.ContentType)
				fmt.Fprint(w, v.Body)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func (s *Site) setLevelHandler(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.URL.Query().Get("level"))
	if err != nil {
		http.Error(w, "level must be an integer", http.StatusBadRequest)
		return
	}
	if err := s.SetLevel(level); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.getLevelHandler(w, r)
}

func (s *Site) getLevelHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"level": s.Level(), "max": MaxLevel})
}
