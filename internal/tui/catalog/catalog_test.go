// ABOUTME: Tests for the catalog browser component
// ABOUTME: Validates paging, search input and book selection

package catalog

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ptit-library/libctl/internal/client"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func queryIn(msgs []tea.Msg) (QueryMsg, bool) {
	for _, m := range msgs {
		if q, ok := m.(QueryMsg); ok {
			return q, true
		}
	}
	return QueryMsg{}, false
}

func samplePage(page, pages int) *client.Page[client.Book] {
	return &client.Page[client.Book]{
		Items: []client.Book{
			{ID: 1, Title: "Lập trình Go", Author: "Trần Bình", Quantity: 5, AvailableQuantity: 2},
			{ID: 2, Title: "Cấu trúc dữ liệu", Quantity: 1, AvailableQuantity: 0},
		},
		Total:      pages * 2,
		Page:       page,
		PageSize:   2,
		TotalPages: pages,
	}
}

func TestInitRequestsFirstPage(t *testing.T) {
	c := New(nil)
	q, ok := queryIn(collect(c.Init()))
	if !ok {
		t.Fatal("expected QueryMsg from Init")
	}
	if q.Page != 1 || q.Search != "" {
		t.Errorf("unexpected query %+v", q)
	}
	if !strings.Contains(c.View(), "Loading books") {
		t.Error("expected loading indicator")
	}
}

func TestSetPageRendersRows(t *testing.T) {
	c := New(nil)
	c.SetPage("", samplePage(1, 3))

	view := c.View()
	for _, want := range []string{"Lập trình Go", "2/5", "0/1", "6 books"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestPaging(t *testing.T) {
	c := New(nil)
	c.SetPage("go", samplePage(2, 3))

	_, cmd := c.Update(keyMsg("n"))
	q, ok := queryIn(collect(cmd))
	if !ok || q.Page != 3 || q.Search != "go" {
		t.Errorf("expected next page query, got %+v", q)
	}

	_, cmd = c.Update(keyMsg("p"))
	q, ok = queryIn(collect(cmd))
	if !ok || q.Page != 1 {
		t.Errorf("expected previous page query, got %+v", q)
	}
}

func TestPagingStopsAtEdges(t *testing.T) {
	c := New(nil)
	c.SetPage("", samplePage(1, 1))

	for _, key := range []string{"n", "p"} {
		_, cmd := c.Update(keyMsg(key))
		if _, ok := queryIn(collect(cmd)); ok {
			t.Errorf("%s: expected no query on a single page", key)
		}
	}
}

func TestSearch(t *testing.T) {
	c := New(nil)
	c.SetPage("", samplePage(2, 3))

	c.Update(keyMsg("/"))
	if !c.Searching() {
		t.Fatal("expected search mode")
	}
	c.Update(keyMsg("golang"))
	_, cmd := c.Update(keyMsg("enter"))

	q, ok := queryIn(collect(cmd))
	if !ok {
		t.Fatal("expected query after search")
	}
	if q.Search != "golang" || q.Page != 1 {
		t.Errorf("expected search from page 1, got %+v", q)
	}
	if c.Searching() {
		t.Error("expected search mode to end")
	}
}

func TestSearchRecentCycle(t *testing.T) {
	c := New([]string{"go", "sql"})
	c.Update(keyMsg("/"))
	c.Update(keyMsg("tab"))
	c.Update(keyMsg("tab"))
	_, cmd := c.Update(keyMsg("enter"))

	q, _ := queryIn(collect(cmd))
	if q.Search != "sql" {
		t.Errorf("expected second recent search, got %q", q.Search)
	}
}

func TestSelectBook(t *testing.T) {
	c := New(nil)
	c.SetPage("", samplePage(1, 1))

	c.Update(keyMsg("down"))
	_, cmd := c.Update(keyMsg("enter"))
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	sel, ok := msgs[0].(BookSelectedMsg)
	if !ok || sel.Book.ID != 2 {
		t.Errorf("expected book 2 selected, got %#v", msgs[0])
	}
}

func TestCancel(t *testing.T) {
	c := New(nil)
	_, cmd := c.Update(keyMsg("b"))
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestEmptyAndError(t *testing.T) {
	c := New(nil)
	c.SetPage("zzz", &client.Page[client.Book]{Items: []client.Book{}, Page: 1, PageSize: 10})
	if !strings.Contains(c.View(), "No books found") {
		t.Error("expected empty message")
	}

	c.SetError("Lỗi máy chủ. Vui lòng thử lại sau.")
	if !strings.Contains(c.View(), "Lỗi máy chủ") {
		t.Error("expected error message in view")
	}
}
