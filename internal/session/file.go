// ABOUTME: File-backed session store persisted under the XDG config directory
// ABOUTME: A missing or unreadable session file means signed out

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ptit-library/libctl/internal/client"
)

const sessionFile = "session.json"

// FileStore keeps the session in <dir>/session.json with owner-only permissions
type FileStore struct {
	mu     sync.Mutex
	dir    string
	loaded bool
	data   data
}

// NewFileStore creates a store rooted at dir. Nothing is read until first use.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the session file location
func (f *FileStore) Path() string {
	return filepath.Join(f.dir, sessionFile)
}

// Token returns the stored access token, or "" when signed out
func (f *FileStore) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	return f.data.Token
}

// User returns the stored user, or nil when signed out
func (f *FileStore) User() *client.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	if f.data.User == nil {
		return nil
	}
	u := *f.data.User
	return &u
}

// Set replaces the session and writes it to disk
func (f *FileStore) Set(token string, user *client.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	next := data{Token: token}
	if user != nil {
		u := *user
		next.User = &u
	}
	raw, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	// Write then rename so a crash never leaves a half-written session
	tmp := f.Path() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, f.Path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save session: %w", err)
	}

	f.data = next
	f.loaded = true
	return nil
}

// Clear removes the session file
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.data = data{}
	f.loaded = true
	if err := os.Remove(f.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// load reads the file once. Callers hold mu.
func (f *FileStore) load() {
	if f.loaded {
		return
	}
	f.loaded = true

	raw, err := os.ReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		slog.Warn("Cannot read session file", "path", f.Path(), "error", err)
		return
	}

	var d data
	if err := json.Unmarshal(raw, &d); err != nil {
		// Corrupt file, treat as signed out
		slog.Warn("Ignoring invalid session file", "path", f.Path(), "error", err)
		return
	}
	f.data = d
}
