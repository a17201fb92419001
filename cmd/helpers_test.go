package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/config"
	"github.com/ptit-library/libctl/internal/session"
)

// newTestEnv serves handler and returns an env talking to it with an in-memory session
func newTestEnv(t *testing.T, handler http.Handler) *env {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	t.Cleanup(store.Close)

	cfg := config.DefaultConfig()
	cfg.APIURL = server.URL
	return &env{cfg: cfg, store: store, api: newClient(cfg, store)}
}

// signIn puts a session for user into e's store
func signIn(t *testing.T, e *env, role client.Role) {
	t.Helper()
	user := &client.User{ID: 7, Username: "an", FullName: "Nguyễn Văn An", Role: role}
	if err := e.store.Set("tok", user); err != nil {
		t.Fatalf("Set: %v", err)
	}
}

// reply writes a fixed JSON body with status
func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// readBody drains a request body for assertions
func readBody(t *testing.T, r *http.Request) string {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
	}
	return strings.TrimSpace(string(data))
}
