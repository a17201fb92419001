// ABOUTME: Remembers recent catalog searches for the TUI
// ABOUTME: Stores the list as JSON in the user's config directory

package recent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxSearches is the maximum number of searches to keep
const MaxSearches = 5

// FileName is the JSON file holding the list
const FileName = "recent.json"

// Searches manages the list of recent catalog searches
type Searches struct {
	configDir string
	terms     []string
}

type recentData struct {
	Searches []string `json:"searches"`
}

// New creates a new Searches manager with the given config directory
func New(configDir string) *Searches {
	return &Searches{configDir: configDir}
}

func (s *Searches) configFile() string {
	return filepath.Join(s.configDir, FileName)
}

// Load reads the list from disk. A missing or unreadable file yields an empty list.
func (s *Searches) Load() ([]string, error) {
	if s.configDir == "" {
		s.terms = []string{}
		return s.terms, nil
	}
	data, err := os.ReadFile(s.configFile())
	if os.IsNotExist(err) {
		s.terms = []string{}
		return s.terms, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		s.terms = []string{}
		return s.terms, nil
	}

	s.terms = make([]string, 0, len(recent.Searches))
	for _, term := range recent.Searches {
		if term = strings.TrimSpace(term); term != "" {
			s.terms = append(s.terms, term)
		}
	}
	if len(s.terms) > MaxSearches {
		s.terms = s.terms[:MaxSearches]
	}
	return s.terms, nil
}

// Save writes the list to disk, keeping at most MaxSearches entries
func (s *Searches) Save(terms []string) error {
	if len(terms) > MaxSearches {
		terms = terms[:MaxSearches]
	}
	s.terms = terms
	if s.configDir == "" {
		return nil
	}

	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(recentData{Searches: terms}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.configFile(), data, 0600)
}

// Add moves term to the front of the list. Blank terms are ignored and
// duplicates are matched case-insensitively.
func (s *Searches) Add(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	if s.terms == nil {
		if _, err := s.Load(); err != nil {
			s.terms = []string{}
		}
	}

	terms := make([]string, 0, len(s.terms)+1)
	terms = append(terms, term)
	for _, t := range s.terms {
		if !strings.EqualFold(t, term) {
			terms = append(terms, t)
		}
	}
	return s.Save(terms)
}

// List returns the current list
func (s *Searches) List() []string {
	if s.terms == nil {
		s.Load()
	}
	return s.terms
}
