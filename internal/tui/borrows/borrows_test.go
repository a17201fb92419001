// ABOUTME: Tests for the borrow requests component
// ABOUTME: Validates status filter cycling, paging and action gating

package borrows

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ptit-library/libctl/internal/client"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(b *Borrows, k string) tea.Msg {
	_, cmd := b.Update(key(k))
	if cmd == nil {
		return nil
	}
	return cmd()
}

func samplePage(statuses ...client.BorrowStatus) *client.Page[client.BorrowRequest] {
	page := &client.Page[client.BorrowRequest]{Page: 1, PageSize: 10, Total: len(statuses), TotalPages: 1}
	for i, s := range statuses {
		page.Items = append(page.Items, client.BorrowRequest{
			ID:     int64(i + 1),
			Status: s,
			Items:  []client.BorrowItem{{BookID: 3, Quantity: 2, Book: &client.Book{Title: "Lập trình Go"}}},
			User:   &client.User{Username: "an", FullName: "Nguyễn Văn An"},
		})
	}
	return page
}

func TestInitRequestsFirstPage(t *testing.T) {
	b := New(nil, false, 100)
	msg := b.Init()()
	if q, ok := msg.(QueryMsg); !ok || q.Page != 1 || q.Status != "" {
		t.Errorf("expected QueryMsg for page 1, got %#v", msg)
	}
	if !strings.Contains(b.View(), "Loading") {
		t.Error("expected loading message")
	}
}

func TestStatusFilterCycles(t *testing.T) {
	b := New(nil, false, 100)
	b.SetPage("", samplePage(client.StatusPending))

	seen := []client.BorrowStatus{}
	for range len(client.BorrowStatuses) + 1 {
		q, ok := press(b, "f").(QueryMsg)
		if !ok {
			t.Fatal("expected QueryMsg from filter key")
		}
		if q.Page != 1 {
			t.Errorf("filter change should reset to page 1, got %d", q.Page)
		}
		seen = append(seen, q.Status)
		b.SetPage(q.Status, samplePage(client.StatusPending))
	}

	for i, s := range client.BorrowStatuses {
		if seen[i] != s {
			t.Errorf("step %d: got %q, want %q", i, seen[i], s)
		}
	}
	if last := seen[len(seen)-1]; last != "" {
		t.Errorf("filter should wrap back to all, got %q", last)
	}
}

func TestPaging(t *testing.T) {
	b := New(nil, false, 100)
	page := samplePage(client.StatusPending)
	page.Page, page.TotalPages = 2, 3
	b.SetPage(client.StatusPending, page)

	if q := press(b, "n").(QueryMsg); q.Page != 3 || q.Status != client.StatusPending {
		t.Errorf("next page: got %+v", q)
	}
	if q := press(b, "p").(QueryMsg); q.Page != 1 {
		t.Errorf("previous page: got %+v", q)
	}

	page.Page = 3
	b.SetPage(client.StatusPending, page)
	if msg := press(b, "n"); msg != nil {
		t.Errorf("no next page after the last, got %#v", msg)
	}
}

func TestAdminActionsFollowStatus(t *testing.T) {
	tests := []struct {
		status client.BorrowStatus
		key    string
		want   Action
	}{
		{client.StatusPending, "a", ActionApprove},
		{client.StatusPending, "x", ActionReject},
		{client.StatusPending, "e", ActionNeedEdit},
		{client.StatusApproved, "t", ActionReturn},
		{client.StatusRejected, "d", ActionDelete},
	}
	for _, tt := range tests {
		b := New(nil, true, 100)
		b.SetPage("", samplePage(tt.status))
		msg := press(b, tt.key)
		if msg != (ActionMsg{ID: 1, Action: tt.want}) {
			t.Errorf("%s + %q: got %#v", tt.status, tt.key, msg)
		}
	}
}

func TestDisallowedActionsIgnored(t *testing.T) {
	tests := []struct {
		admin  bool
		status client.BorrowStatus
		key    string
	}{
		{true, client.StatusApproved, "a"},
		{true, client.StatusReturned, "t"},
		{true, client.StatusApproved, "d"},
		{true, client.StatusPending, "t"},
		{false, client.StatusPending, "a"},
		{false, client.StatusApproved, "t"},
	}
	for _, tt := range tests {
		b := New(nil, tt.admin, 100)
		b.SetPage("", samplePage(tt.status))
		if msg := press(b, tt.key); msg != nil {
			t.Errorf("admin=%v %s + %q: expected no action, got %#v", tt.admin, tt.status, tt.key, msg)
		}
	}
}

func TestUserCanDeletePending(t *testing.T) {
	b := New(nil, false, 100)
	b.SetPage("", samplePage(client.StatusApproved, client.StatusPending))
	press(b, "down")
	if msg := press(b, "d"); msg != (ActionMsg{ID: 2, Action: ActionDelete}) {
		t.Errorf("expected delete of request 2, got %#v", msg)
	}
}

func TestView(t *testing.T) {
	b := New(client.English, true, 120)
	b.SetPage("", samplePage(client.StatusPending))
	view := b.View()
	for _, want := range []string{"Borrow requests", "#1", "Pending", "Nguyễn Văn An", "Lập trình Go", "x2", "approve"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\nView:\n%s", want, view)
		}
	}

	empty := New(nil, false, 100)
	empty.SetPage("", &client.Page[client.BorrowRequest]{Page: 1})
	if !strings.Contains(empty.View(), "No borrow requests") {
		t.Error("expected empty message")
	}
}

func TestEscCancels(t *testing.T) {
	b := New(nil, false, 100)
	if msg := press(b, "esc"); msg != (CancelledMsg{}) {
		t.Errorf("expected CancelledMsg, got %#v", msg)
	}
}
