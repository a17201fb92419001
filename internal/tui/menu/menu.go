// ABOUTME: Main menu shown when the TUI starts
// ABOUTME: Lists the screens available to the signed-in user

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
)

// Choice is a menu entry
type Choice int

const (
	ChoiceCatalog Choice = iota
	ChoiceWishlist
	ChoiceBorrows
	ChoiceQuit
)

// SelectedMsg is sent when an enabled entry is chosen
type SelectedMsg struct {
	Choice Choice
}

// CancelledMsg is sent when the user leaves the menu
type CancelledMsg struct{}

type option struct {
	label   string
	icon    icons.Icon
	value   Choice
	enabled bool
}

// Menu is the main menu model
type Menu struct {
	options []option
	cursor  int
	hint    string
}

// New creates the menu. Wishlist and borrows need a session; admins manage
// every user's requests from the borrows screen.
func New(signedIn, admin bool) *Menu {
	borrows := "My borrow requests"
	if admin {
		borrows = "Borrow requests (all users)"
	}
	return &Menu{
		options: []option{
			{label: "Browse catalog", icon: icons.Book, value: ChoiceCatalog, enabled: true},
			{label: "My wishlist", icon: icons.Wishlist, value: ChoiceWishlist, enabled: signedIn},
			{label: borrows, icon: icons.Borrow, value: ChoiceBorrows, enabled: signedIn},
			{label: "Quit", icon: icons.Quit, value: ChoiceQuit, enabled: true},
		},
	}
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.hint = ""

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		opt := m.options[m.cursor]
		if !opt.enabled {
			m.hint = "Sign in with `libctl login` to use this screen"
			return m, nil
		}
		if opt.value == ChoiceQuit {
			return m, func() tea.Msg { return CancelledMsg{} }
		}
		return m, func() tea.Msg { return SelectedMsg{Choice: opt.value} }
	case "q", "esc":
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	return m, nil
}

// Selected returns the entry under the cursor
func (m *Menu) Selected() Choice {
	return m.options[m.cursor].value
}

// View implements tea.Model
func (m *Menu) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Library"))
	b.WriteString("\n")
	for i, opt := range m.options {
		label := opt.icon.String() + " " + opt.label
		if !opt.enabled {
			b.WriteString(styles.Cursor(i == m.cursor) + styles.Disabled.Render(label+" (sign in required)") + "\n")
			continue
		}
		b.WriteString(styles.Row(label, i == m.cursor) + "\n")
	}
	if m.hint != "" {
		b.WriteString("\n" + styles.StatusWarning.Render(m.hint))
	}
	return b.String()
}

// String returns the screen name of a Choice
func (c Choice) String() string {
	switch c {
	case ChoiceCatalog:
		return "catalog"
	case ChoiceWishlist:
		return "wishlist"
	case ChoiceBorrows:
		return "borrows"
	case ChoiceQuit:
		return "quit"
	default:
		return "unknown"
	}
}
