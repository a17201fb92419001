// ABOUTME: Session store abstraction holding the access token and signed-in user
// ABOUTME: Stores satisfy client.TokenSource; only sign-in flows write to them

package session

import (
	"os"
	"path/filepath"

	"github.com/ptit-library/libctl/internal/client"
)

// AppName names the per-user config directory
const AppName = "libctl"

// Store holds the active session. Implementations must be safe for concurrent use.
type Store interface {
	Token() string
	User() *client.User
	Set(token string, user *client.User) error
	Clear() error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// data is the persisted form of a session
type data struct {
	Token string       `json:"token"`
	User  *client.User `json:"user,omitempty"`
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// IsLoggedIn reports whether the store holds a token
func IsLoggedIn(s Store) bool {
	return s != nil && s.Token() != ""
}

// IsAdmin reports whether the signed-in user has the admin role
func IsAdmin(s Store) bool {
	if !IsLoggedIn(s) {
		return false
	}
	return s.User().IsAdmin()
}
