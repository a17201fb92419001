// ABOUTME: In-memory session store for ephemeral runs and tests
// ABOUTME: Entries expire with the access token's exp claim

package session

import (
	"time"

	"github.com/ptit-library/libctl/internal/cache"
	"github.com/ptit-library/libctl/internal/client"
)

const memoryKey = "session"

// MemoryStore keeps the session in a TTL cache. Nothing survives the process.
type MemoryStore struct {
	cache *cache.Cache[data]
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return newMemoryStore(time.Now)
}

// newMemoryStore creates a store whose expiry runs on now, for both the TTL
// taken from the token and the cache lookups.
func newMemoryStore(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		cache: cache.New[data](0).WithClock(now),
		now:   now,
	}
}

// Token returns the access token, or "" when signed out or expired
func (m *MemoryStore) Token() string {
	d, _ := m.cache.Get(memoryKey)
	return d.Token
}

// User returns the signed-in user, or nil
func (m *MemoryStore) User() *client.User {
	d, ok := m.cache.Get(memoryKey)
	if !ok || d.User == nil {
		return nil
	}
	u := *d.User
	return &u
}

// Set stores the session until the token expires. Tokens without an exp claim
// are kept until Clear.
func (m *MemoryStore) Set(token string, user *client.User) error {
	d := data{Token: token}
	if user != nil {
		u := *user
		d.User = &u
	}
	m.cache.SetWithTTL(memoryKey, d, tokenTTL(token, m.now()))
	return nil
}

// Clear removes the session
func (m *MemoryStore) Clear() error {
	m.cache.Clear(memoryKey)
	return nil
}

// Close stops the backing cache's cleanup goroutine
func (m *MemoryStore) Close() {
	m.cache.Close()
}

// tokenTTL returns the remaining lifetime of token, zero when unknown.
// An already expired token gets a minimal TTL so it disappears at once.
func tokenTTL(token string, now time.Time) time.Duration {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	ttl := claims.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return time.Nanosecond
	}
	return ttl
}
