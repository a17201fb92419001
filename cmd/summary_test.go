// ABOUTME: Tests for the summary command
// ABOUTME: Checks the concurrent fetch, admin-only counts and failure handling

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ptit-library/libctl/internal/client"
)

// summaryBackend serves the dashboard endpoints. usersBody is the /api/users answer.
func summaryBackend(t *testing.T, adminCalls *atomic.Int32, usersBody string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", reply(http.StatusOK, `{"id":1,"username":"admin","role":"admin"}`))
	mux.HandleFunc("GET /api/wishlist", reply(http.StatusOK, `{"items":[],"total_items":3}`))
	mux.HandleFunc("GET /api/borrows", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status_filter") == "pending" {
			adminCalls.Add(1)
			reply(http.StatusOK, `{"items":[],"total":4,"page":1,"page_size":1}`)(w, r)
			return
		}
		reply(http.StatusOK, borrowPage)(w, r)
	})
	mux.HandleFunc("GET /api/books", func(w http.ResponseWriter, r *http.Request) {
		adminCalls.Add(1)
		reply(http.StatusOK, `{"items":[],"total":120,"page":1,"page_size":1}`)(w, r)
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		adminCalls.Add(1)
		reply(http.StatusOK, usersBody)(w, r)
	})
	return mux
}

func TestRunSummary_Admin(t *testing.T) {
	var adminCalls atomic.Int32
	e := newTestEnv(t, summaryBackend(t, &adminCalls, `{"items":[],"total":35,"page":1,"page_size":1}`))
	signIn(t, e, client.RoleAdmin)

	var buf bytes.Buffer
	if err := runSummary(context.Background(), e.api, &buf, true, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.WishlistItems != 3 || s.Borrows != 2 || len(s.Recent) != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
	if deref(s.Pending) != 4 || deref(s.Books) != 120 || deref(s.Users) != 35 {
		t.Errorf("unexpected admin counts %v %v %v", s.Pending, s.Books, s.Users)
	}
	if adminCalls.Load() != 3 {
		t.Errorf("expected 3 admin calls, got %d", adminCalls.Load())
	}
}

func TestRunSummary_BareUserListHasNoCount(t *testing.T) {
	var adminCalls atomic.Int32
	e := newTestEnv(t, summaryBackend(t, &adminCalls, `[{"id":2,"username":"an","role":"user"}]`))
	signIn(t, e, client.RoleAdmin)

	var buf bytes.Buffer
	if err := runSummary(context.Background(), e.api, &buf, true, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.Users != nil {
		t.Errorf("users count must be unknown for a bare list, got %d", *s.Users)
	}
	if deref(s.Books) != 120 || deref(s.Pending) != 4 {
		t.Errorf("unexpected admin counts %v %v", s.Books, s.Pending)
	}

	buf.Reset()
	if err := runSummary(context.Background(), e.api, &buf, true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "Users") {
		t.Errorf("users block should be left out:\n%s", buf.String())
	}
}

func TestRunSummary_UserSkipsAdminCalls(t *testing.T) {
	var adminCalls atomic.Int32
	e := newTestEnv(t, summaryBackend(t, &adminCalls, `[]`))
	signIn(t, e, client.RoleUser)

	var buf bytes.Buffer
	if err := runSummary(context.Background(), e.api, &buf, false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adminCalls.Load() != 0 {
		t.Errorf("expected no admin calls, got %d", adminCalls.Load())
	}
	if !strings.Contains(buf.String(), "Recent requests") {
		t.Errorf("expected recent requests in output:\n%s", buf.String())
	}
}

func TestRunSummary_FailureFailsAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", reply(http.StatusUnauthorized, `{"detail":"Token hết hạn"}`))
	mux.HandleFunc("GET /api/wishlist", reply(http.StatusOK, `{"items":[],"total_items":0}`))
	mux.HandleFunc("GET /api/borrows", reply(http.StatusOK, `{"items":[],"total":0,"page":1,"page_size":5}`))
	e := newTestEnv(t, mux)
	signIn(t, e, client.RoleUser)

	err := runSummary(context.Background(), e.api, &bytes.Buffer{}, false, false)
	if err == nil || err.Error() != "Token hết hạn" {
		t.Fatalf("unexpected error: %v", err)
	}
}
