// ABOUTME: Book detail component for the TUI
// ABOUTME: Shows catalog fields and copy availability in the left pane

package bookview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
	"github.com/ptit-library/libctl/internal/tui/widgets"
)

// BookView displays one book
type BookView struct {
	book   *client.Book
	width  int
	height int
}

// New creates a book view
func New(book *client.Book, width, height int) *BookView {
	return &BookView{
		book:   book,
		width:  width,
		height: height,
	}
}

// Update replaces the book shown
func (v *BookView) Update(book *client.Book) {
	v.book = book
}

// Book returns the book shown
func (v *BookView) Book() *client.Book {
	return v.book
}

// SetSize updates the view dimensions
func (v *BookView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the book
func (v *BookView) View() string {
	if v.book == nil {
		return styles.Panel.Width(v.width).Render("Loading book...")
	}
	b := v.book

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(b.Title))
	sb.WriteString("\n")
	if b.Author != "" {
		sb.WriteString(styles.Subtitle.Render(b.Author))
		sb.WriteString("\n")
	}

	field := func(icon icons.Icon, label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("%s %-9s %s\n", icon.String(), label, styles.ValueStyle.Render(value)))
	}
	field(icons.Info, "ID", fmt.Sprintf("#%d", b.ID))
	field(icons.Category, "Category", b.Category)
	field(icons.Book, "ISBN", b.ISBN)
	sb.WriteString("\n")

	sb.WriteString("Availability\n")
	cfg := widgets.DefaultAvailabilityConfig()
	if v.width > 0 {
		cfg.Width = min(30, max(10, v.width-24))
	}
	sb.WriteString(widgets.AvailabilityWithLabel(b.AvailableQuantity, b.Quantity, cfg))
	sb.WriteString("\n")
	if b.AvailableQuantity <= 0 {
		sb.WriteString(widgets.StatusText("All copies are borrowed", widgets.StatusCritical))
		sb.WriteString("\n")
	}

	if b.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Width(max(20, v.width-4)).Render(b.Description))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(v.width).
		Height(v.height).
		Render(sb.String())
}
