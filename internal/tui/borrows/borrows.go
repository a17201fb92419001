// ABOUTME: Borrow requests TUI component with status filter and request details
// ABOUTME: Offers admin transitions only when the request's status allows them

package borrows

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
	"github.com/ptit-library/libctl/internal/tui/widgets"
)

// Action is a transition requested from the borrows view
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionNeedEdit Action = "need_edit"
	ActionReturn   Action = "return"
	ActionDelete   Action = "delete"
)

// QueryMsg asks the app to load a page of borrow requests
type QueryMsg struct {
	Status client.BorrowStatus
	Page   int
}

// ActionMsg asks the app to apply an action to a request
type ActionMsg struct {
	ID     int64
	Action Action
}

// CancelledMsg is sent when the user leaves the view
type CancelledMsg struct{}

// Borrows displays borrow requests. Admins see every user's requests.
type Borrows struct {
	page     *client.Page[client.BorrowRequest]
	messages *client.Messages
	admin    bool
	status   client.BorrowStatus
	pageNum  int
	cursor   int
	loading  bool
	width    int
}

// New creates a borrows view
func New(m *client.Messages, admin bool, width int) *Borrows {
	if m == nil {
		m = client.Vietnamese
	}
	return &Borrows{
		messages: m,
		admin:    admin,
		pageNum:  client.DefaultPage,
		width:    width,
	}
}

// Init implements tea.Model by requesting the first page
func (b *Borrows) Init() tea.Cmd {
	return b.query(b.status, client.DefaultPage)
}

func (b *Borrows) query(status client.BorrowStatus, page int) tea.Cmd {
	b.loading = true
	return func() tea.Msg { return QueryMsg{Status: status, Page: page} }
}

// SetPage shows a loaded page
func (b *Borrows) SetPage(status client.BorrowStatus, page *client.Page[client.BorrowRequest]) {
	b.loading = false
	b.status = status
	b.page = page
	b.pageNum = max(page.Page, client.DefaultPage)
	b.cursor = min(b.cursor, max(0, len(page.Items)-1))
}

// StopLoading clears the loading state after a failed query
func (b *Borrows) StopLoading() {
	b.loading = false
}

// Status returns the active status filter; empty means all
func (b *Borrows) Status() client.BorrowStatus {
	return b.status
}

// SetWidth sets the render width
func (b *Borrows) SetWidth(width int) {
	b.width = width
}

// Selected returns the request under the cursor
func (b *Borrows) Selected() (client.BorrowRequest, bool) {
	if b.page == nil || b.cursor < 0 || b.cursor >= len(b.page.Items) {
		return client.BorrowRequest{}, false
	}
	return b.page.Items[b.cursor], true
}

// Actions lists what the current user may do with req, keyed by shortcut
func (b *Borrows) Actions(req client.BorrowRequest) []KeyAction {
	var out []KeyAction
	if b.admin {
		if req.Status.CanApprove() {
			out = append(out, KeyAction{"a", "approve", ActionApprove})
		}
		if req.Status.CanReject() {
			out = append(out, KeyAction{"x", "reject", ActionReject})
			out = append(out, KeyAction{"e", "needs edit", ActionNeedEdit})
		}
		if req.Status.CanReturn() {
			out = append(out, KeyAction{"t", "returned", ActionReturn})
		}
	}
	if req.Status.CanDelete() {
		out = append(out, KeyAction{"d", "delete", ActionDelete})
	}
	return out
}

// KeyAction binds a shortcut to an action
type KeyAction struct {
	Key    string
	Label  string
	Action Action
}

// nextStatus cycles the filter through all statuses and back to none
func nextStatus(s client.BorrowStatus) client.BorrowStatus {
	if s == "" {
		return client.BorrowStatuses[0]
	}
	for i, known := range client.BorrowStatuses {
		if known == s && i+1 < len(client.BorrowStatuses) {
			return client.BorrowStatuses[i+1]
		}
	}
	return ""
}

// Update implements tea.Model
func (b *Borrows) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		return b, nil
	case tea.KeyMsg:
		return b.handleKey(msg)
	}
	return b, nil
}

func (b *Borrows) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		return b, func() tea.Msg { return CancelledMsg{} }
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
		return b, nil
	case "down", "j":
		if b.page != nil && b.cursor < len(b.page.Items)-1 {
			b.cursor++
		}
		return b, nil
	case "f":
		b.cursor = 0
		return b, b.query(nextStatus(b.status), client.DefaultPage)
	case "n", "right":
		if b.page != nil && widgets.HasNext(b.pageNum, b.page.Pages()) {
			b.cursor = 0
			return b, b.query(b.status, b.pageNum+1)
		}
		return b, nil
	case "p", "left":
		if widgets.HasPrev(b.pageNum) {
			b.cursor = 0
			return b, b.query(b.status, b.pageNum-1)
		}
		return b, nil
	case "r":
		return b, b.query(b.status, b.pageNum)
	}

	req, ok := b.Selected()
	if !ok {
		return b, nil
	}
	for _, ka := range b.Actions(req) {
		if ka.Key == key {
			action := ActionMsg{ID: req.ID, Action: ka.Action}
			return b, func() tea.Msg { return action }
		}
	}
	return b, nil
}

// View implements tea.Model
func (b *Borrows) View() string {
	var sb strings.Builder

	title := icons.Borrow.String() + " My borrow requests"
	if b.admin {
		title = icons.Borrow.String() + " Borrow requests"
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")

	filter := "all"
	if b.status != "" {
		filter = b.messages.StatusLabel(b.status)
	}
	sb.WriteString(styles.Subtitle.Render("Filter: " + filter))
	sb.WriteString("\n")

	switch {
	case b.page == nil:
		sb.WriteString("Loading borrow requests...")
		return sb.String()
	case len(b.page.Items) == 0:
		sb.WriteString(styles.Disabled.Render("No borrow requests"))
		return sb.String()
	}

	listWidth := max(40, b.width/2-2)
	list := b.renderList(listWidth)
	detail := ""
	if req, ok := b.Selected(); ok {
		detail = b.renderDetail(req, max(30, b.width-listWidth-4))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail))
	sb.WriteString("\n")

	footer := fmt.Sprintf("%d requests  %s", b.page.Total, widgets.Pager(b.pageNum, b.page.Pages()))
	if b.loading {
		footer = "Loading... " + footer
	}
	sb.WriteString(styles.Help.Render(footer))
	return sb.String()
}

func (b *Borrows) renderList(width int) string {
	var sb strings.Builder
	for i, req := range b.page.Items {
		who := ""
		if b.admin && req.User != nil {
			who = " " + req.User.DisplayName()
		}
		line := fmt.Sprintf("%s #%-4d %-12s%s", widgets.BorrowIcon(req.Status), req.ID, b.messages.StatusLabel(req.Status), who)
		sb.WriteString(styles.Row(line, i == b.cursor))
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(width).Render(sb.String())
}

func (b *Borrows) renderDetail(req client.BorrowRequest, width int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Request #%d  %s\n", req.ID, widgets.BorrowBadge(req.Status, b.messages)))

	if req.User != nil {
		sb.WriteString(fmt.Sprintf("%s %s\n", icons.User.String(), req.User.DisplayName()))
	}
	if req.CreatedAt != nil {
		sb.WriteString(fmt.Sprintf("%s Requested %s\n", icons.Calendar.String(), req.CreatedAt.Format("02/01/2006 15:04")))
	}
	if req.DueDate != nil {
		sb.WriteString(fmt.Sprintf("%s Due %s\n", icons.Calendar.String(), req.DueDate.Format("02/01/2006")))
	}
	if req.ReturnedAt != nil {
		sb.WriteString(fmt.Sprintf("%s Returned %s\n", icons.CheckOK.String(), req.ReturnedAt.Format("02/01/2006 15:04")))
	}

	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Books (%d)", req.TotalBooks())))
	sb.WriteString("\n")
	for _, item := range req.Items {
		title := fmt.Sprintf("Book #%d", item.BookID)
		if item.Book != nil {
			title = item.Book.Title
		}
		sb.WriteString(fmt.Sprintf("  %s x%d\n", title, item.Quantity))
	}

	if req.Note != "" {
		sb.WriteString(fmt.Sprintf("\nNote: %s\n", req.Note))
	}
	if req.AdminNote != "" {
		sb.WriteString(styles.StatusWarning.Render("Librarian: "+req.AdminNote) + "\n")
	}

	if actions := b.Actions(req); len(actions) > 0 {
		var keys []string
		for _, ka := range actions {
			keys = append(keys, styles.Shortcut(ka.Key, ka.Label))
		}
		sb.WriteString("\n" + strings.Join(keys, "  "))
	}

	return styles.Panel.Width(width).Render(sb.String())
}
