// ABOUTME: Wishlist TUI component listing the books queued for borrowing
// ABOUTME: Emits messages for quantity changes, removal and borrow requests

package wishlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
)

// QuantityMsg asks the app to set the quantity of a wishlist entry
type QuantityMsg struct {
	BookID   int64
	Quantity int
}

// RemoveMsg asks the app to remove a book from the wishlist
type RemoveMsg struct {
	BookID int64
}

// ClearMsg asks the app to empty the wishlist
type ClearMsg struct{}

// RequestBorrowMsg asks the app to start a borrow request for the wishlist
type RequestBorrowMsg struct{}

// RefreshMsg asks the app to reload the wishlist
type RefreshMsg struct{}

// CancelledMsg is sent when the user leaves the wishlist
type CancelledMsg struct{}

// View displays the wishlist
type View struct {
	list         *client.Wishlist
	cursor       int
	confirmClear bool
	width        int
}

// New creates a wishlist view. list may be nil while loading.
func New(list *client.Wishlist) *View {
	return &View{list: list}
}

// SetWishlist replaces the entries, keeping the cursor in range
func (v *View) SetWishlist(list *client.Wishlist) {
	v.list = list
	v.cursor = min(v.cursor, max(0, v.count()-1))
}

// Wishlist returns the entries shown
func (v *View) Wishlist() *client.Wishlist {
	return v.list
}

// SetWidth sets the render width
func (v *View) SetWidth(width int) {
	v.width = width
}

func (v *View) count() int {
	if v.list == nil {
		return 0
	}
	return len(v.list.Items)
}

// Selected returns the entry under the cursor
func (v *View) Selected() (client.WishlistItem, bool) {
	if v.cursor < 0 || v.cursor >= v.count() {
		return client.WishlistItem{}, false
	}
	return v.list.Items[v.cursor], true
}

// Init implements tea.Model
func (v *View) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		return v, nil
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if v.confirmClear {
		v.confirmClear = false
		if key == "y" {
			return v, emit(ClearMsg{})
		}
		return v, nil
	}

	switch key {
	case "esc", "b":
		return v, emit(CancelledMsg{})
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < v.count()-1 {
			v.cursor++
		}
	case "+", "=":
		if item, ok := v.Selected(); ok {
			return v, emit(QuantityMsg{BookID: item.BookID, Quantity: item.Quantity + 1})
		}
	case "-":
		if item, ok := v.Selected(); ok {
			if item.Quantity <= 1 {
				return v, emit(RemoveMsg{BookID: item.BookID})
			}
			return v, emit(QuantityMsg{BookID: item.BookID, Quantity: item.Quantity - 1})
		}
	case "d", "delete":
		if item, ok := v.Selected(); ok {
			return v, emit(RemoveMsg{BookID: item.BookID})
		}
	case "c":
		if v.count() > 0 {
			v.confirmClear = true
		}
	case "R":
		return v, emit(RefreshMsg{})
	case "r", "enter":
		if v.count() > 0 {
			return v, emit(RequestBorrowMsg{})
		}
	}
	return v, nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (v *View) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Wishlist.String() + " Wishlist"))
	sb.WriteString("\n")

	if v.list == nil {
		sb.WriteString("Loading wishlist...")
		return sb.String()
	}
	if len(v.list.Items) == 0 {
		sb.WriteString(styles.Disabled.Render("Your wishlist is empty. Add books from the catalog."))
		return sb.String()
	}

	for i, item := range v.list.Items {
		title := fmt.Sprintf("Book #%d", item.BookID)
		stock := ""
		if item.Book != nil {
			title = item.Book.Title
			stock = fmt.Sprintf("  (%d available)", item.Book.AvailableQuantity)
		}
		line := fmt.Sprintf("%-40s x%d", truncate(title, 40), item.Quantity)
		sb.WriteString(styles.Row(line, i == v.cursor))
		sb.WriteString(styles.Disabled.Render(stock))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total: %s books", styles.ValueStyle.Render(fmt.Sprint(v.list.TotalItems))))
	sb.WriteString("\n")

	if v.confirmClear {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render("Clear the whole wishlist? (y/n)"))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
