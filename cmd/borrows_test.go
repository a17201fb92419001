// ABOUTME: Tests for the borrow request commands
// ABOUTME: Verifies payloads sent to the backend and the rendered status labels

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/ptit-library/libctl/internal/client"
)

const borrowPage = `{"items":[
	{"id":11,"user_id":7,"status":"pending","created_at":"2026-03-01T08:30:00","due_date":"2026-03-15",
	 "items":[{"book_id":1,"quantity":2},{"book_id":2,"quantity":1}],"user":{"id":7,"username":"an","full_name":"Nguyễn Văn An","role":"user"}},
	{"id":12,"user_id":8,"status":"need_edit","items":[]}
],"total":2,"page":1,"page_size":10}`

func TestRunBorrowsList(t *testing.T) {
	var gotQuery string
	e := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		reply(http.StatusOK, borrowPage)(w, r)
	}))
	signIn(t, e, client.RoleAdmin)

	var buf bytes.Buffer
	q := client.BorrowQuery{Status: client.StatusPending, PageSize: 10}
	if err := runBorrowsList(context.Background(), e.api, &buf, q, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "page=1&page_size=10&status_filter=pending" {
		t.Errorf("unexpected query %q", gotQuery)
	}

	out := buf.String()
	for _, want := range []string{"Nguyễn Văn An", "#8", "Chờ duyệt", "Cần chỉnh sửa", "01/03/2026 08:30", "15/03/2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRunBorrowCreate_FromWishlist(t *testing.T) {
	var body string
	e := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = readBody(t, r)
		reply(http.StatusCreated, `{"id":20,"user_id":7,"status":"pending","items":[{"book_id":1,"quantity":1}]}`)(w, r)
	}))
	signIn(t, e, client.RoleUser)

	var buf bytes.Buffer
	if err := runBorrowCreate(context.Background(), e.api, &buf, "", nil, nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != `{"note":""}` {
		t.Errorf("unexpected body %s", body)
	}
	if !strings.Contains(buf.String(), "Created #20: Chờ duyệt") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunBorrowCreate_WithItems(t *testing.T) {
	var body string
	e := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = readBody(t, r)
		reply(http.StatusCreated, `{"id":21,"status":"pending","items":[]}`)(w, r)
	}))
	signIn(t, e, client.RoleUser)

	items, err := parseItems([]string{"3", "5:2"})
	if err != nil {
		t.Fatalf("parseItems: %v", err)
	}
	due, err := parseDue("2026-04-01")
	if err != nil {
		t.Fatalf("parseDue: %v", err)
	}
	if err := runBorrowCreate(context.Background(), e.api, &bytes.Buffer{}, "gấp", items, due, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"note":"gấp","items":[{"book_id":3,"quantity":1},{"book_id":5,"quantity":2}],"due_date":"2026-04-01"}`
	if body != want {
		t.Errorf("got  %s\nwant %s", body, want)
	}
}

func TestRunBorrowTransition(t *testing.T) {
	tests := []struct {
		action      string
		requireEdit bool
		wantPath    string
		wantBody    string
		reply       string
		wantOut     string
	}{
		{"approve", false, "/api/borrows/5/approve", `{"admin_note":"ok"}`, `{"id":5,"status":"approved","items":[]}`, "Đã duyệt"},
		{"reject", false, "/api/borrows/5/reject", `{"admin_note":"ok","require_edit":false}`, `{"id":5,"status":"rejected","items":[]}`, "Từ chối"},
		{"reject", true, "/api/borrows/5/reject", `{"admin_note":"ok","require_edit":true}`, `{"id":5,"status":"need_edit","items":[]}`, "Cần chỉnh sửa"},
		{"return", false, "/api/borrows/5/return", ``, `{"id":5,"status":"returned","items":[]}`, "Đã trả"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			var path, body string
			e := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("expected PUT, got %s", r.Method)
				}
				path = r.URL.Path
				body = readBody(t, r)
				reply(http.StatusOK, tt.reply)(w, r)
			}))
			signIn(t, e, client.RoleAdmin)

			var buf bytes.Buffer
			if err := runBorrowTransition(context.Background(), e.api, &buf, 5, tt.action, "ok", tt.requireEdit, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if path != tt.wantPath {
				t.Errorf("path = %s, want %s", path, tt.wantPath)
			}
			if body != tt.wantBody {
				t.Errorf("body = %s, want %s", body, tt.wantBody)
			}
			if !strings.Contains(buf.String(), tt.wantOut) {
				t.Errorf("expected %q in %q", tt.wantOut, buf.String())
			}
		})
	}
}

func TestRunBorrowGet_English(t *testing.T) {
	e := newTestEnv(t, reply(http.StatusOK, `{"id":9,"user_id":7,"status":"returned","note":"thanks",
		"returned_at":"2026-03-20T10:00:00Z","items":[{"book_id":1,"quantity":1,"book":{"id":1,"title":"Go"}}]}`))
	e.api = client.New(e.cfg.APIURL, e.store, client.WithMessages(client.English))
	signIn(t, e, client.RoleUser)

	var buf bytes.Buffer
	if err := runBorrowGet(context.Background(), e.api, &buf, 9, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Request #9", "Returned", "20/03/2026 10:00", "thanks", "Go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestParseItems_Invalid(t *testing.T) {
	for _, spec := range []string{"", "x", "0", "3:", "3:0", "3:-1", "-2:1"} {
		if _, err := parseItems([]string{spec}); err == nil {
			t.Errorf("expected error for %q", spec)
		}
	}
}
