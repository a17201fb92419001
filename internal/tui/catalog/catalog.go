// ABOUTME: Catalog browser TUI component with search and pagination
// ABOUTME: Shows one page of books in a table and asks the app to load pages

package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
	"github.com/ptit-library/libctl/internal/tui/widgets"
)

type state int

const (
	stateList state = iota
	stateSearch
)

// QueryMsg asks the app to load a page of the catalog
type QueryMsg struct {
	Search string
	Page   int
}

// BookSelectedMsg is sent when a book is opened
type BookSelectedMsg struct {
	Book client.Book
}

// CancelledMsg is sent when the user leaves the catalog
type CancelledMsg struct{}

// Catalog is the catalog browser component
type Catalog struct {
	page      *client.Page[client.Book]
	search    string
	pageNum   int
	recent    []string
	recentIdx int
	state     state
	table     table.Model
	textInput textinput.Model
	spinner   spinner.Model
	loading   bool
	err       string
	width     int
	height    int
}

var columns = []table.Column{
	{Title: "ID", Width: 5},
	{Title: "Title", Width: 36},
	{Title: "Author", Width: 20},
	{Title: "Category", Width: 14},
	{Title: "Available", Width: 9},
}

// New creates a catalog browser. recent holds previous searches offered with tab.
func New(recent []string) *Catalog {
	ti := textinput.New()
	ti.Placeholder = "title, author or ISBN"
	ti.Prompt = icons.Search.String() + " "
	ti.CharLimit = 100
	ti.Width = 40

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return &Catalog{
		pageNum:   client.DefaultPage,
		recent:    recent,
		recentIdx: -1,
		state:     stateList,
		table:     t,
		textInput: ti,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init implements tea.Model by requesting the first page
func (c *Catalog) Init() tea.Cmd {
	return c.query(c.search, client.DefaultPage)
}

// Update implements tea.Model
func (c *Catalog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.table.SetHeight(max(3, msg.Height-14))
		return c, nil

	case spinner.TickMsg:
		if !c.loading {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd

	case tea.KeyMsg:
		c.err = ""
		switch c.state {
		case stateList:
			return c.updateList(msg)
		case stateSearch:
			return c.updateSearch(msg)
		}
	}
	return c, nil
}

func (c *Catalog) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return c, func() tea.Msg { return CancelledMsg{} }
	case "/":
		c.state = stateSearch
		c.recentIdx = -1
		c.textInput.SetValue(c.search)
		c.textInput.CursorEnd()
		c.textInput.Focus()
		return c, textinput.Blink
	case "n", "right":
		if c.page != nil && widgets.HasNext(c.pageNum, c.page.Pages()) {
			return c, c.query(c.search, c.pageNum+1)
		}
		return c, nil
	case "p", "left":
		if widgets.HasPrev(c.pageNum) {
			return c, c.query(c.search, c.pageNum-1)
		}
		return c, nil
	case "r":
		return c, c.query(c.search, c.pageNum)
	case "enter":
		if book, ok := c.Selected(); ok {
			return c, func() tea.Msg { return BookSelectedMsg{Book: book} }
		}
		return c, nil
	}

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *Catalog) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		c.state = stateList
		c.textInput.Blur()
		return c, nil
	case "enter":
		c.state = stateList
		c.textInput.Blur()
		return c, c.query(strings.TrimSpace(c.textInput.Value()), client.DefaultPage)
	case "tab":
		if len(c.recent) > 0 {
			c.recentIdx = (c.recentIdx + 1) % len(c.recent)
			c.textInput.SetValue(c.recent[c.recentIdx])
			c.textInput.CursorEnd()
		}
		return c, nil
	}

	var cmd tea.Cmd
	c.textInput, cmd = c.textInput.Update(msg)
	return c, cmd
}

// query marks the catalog as loading and asks the app for a page
func (c *Catalog) query(search string, page int) tea.Cmd {
	c.loading = true
	return tea.Batch(
		c.spinner.Tick,
		func() tea.Msg { return QueryMsg{Search: search, Page: page} },
	)
}

// SetPage shows a loaded page for the given search
func (c *Catalog) SetPage(search string, page *client.Page[client.Book]) {
	c.loading = false
	c.search = search
	c.page = page
	c.pageNum = max(page.Page, client.DefaultPage)

	rows := make([]table.Row, 0, len(page.Items))
	for _, b := range page.Items {
		rows = append(rows, table.Row{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			b.Author,
			b.Category,
			fmt.Sprintf("%d/%d", b.AvailableQuantity, b.Quantity),
		})
	}
	c.table.SetRows(rows)
	c.table.SetCursor(0)
}

// SetRecent replaces the searches offered with tab
func (c *Catalog) SetRecent(recent []string) {
	c.recent = recent
}

// SetError stops loading and shows msg
func (c *Catalog) SetError(msg string) {
	c.loading = false
	c.err = msg
}

// Selected returns the book under the cursor
func (c *Catalog) Selected() (client.Book, bool) {
	if c.page == nil {
		return client.Book{}, false
	}
	i := c.table.Cursor()
	if i < 0 || i >= len(c.page.Items) {
		return client.Book{}, false
	}
	return c.page.Items[i], true
}

// Searching reports whether the search input has focus
func (c *Catalog) Searching() bool {
	return c.state == stateSearch
}

// View implements tea.Model
func (c *Catalog) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.Book.String() + " Catalog"))
	b.WriteString("\n")

	if c.state == stateSearch {
		b.WriteString(c.textInput.View())
		if len(c.recent) > 0 {
			b.WriteString("\n" + styles.Help.Render("tab: recent searches"))
		}
		b.WriteString("\n\n")
	} else if c.search != "" {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("Search: %q", c.search)))
		b.WriteString("\n")
	}

	switch {
	case c.loading && c.page == nil:
		b.WriteString(c.spinner.View() + " Loading books...")
	case c.page != nil && len(c.page.Items) == 0:
		b.WriteString(styles.Disabled.Render("No books found"))
	case c.page != nil:
		b.WriteString(c.table.View())
		b.WriteString("\n")
		footer := fmt.Sprintf("%d books  %s", c.page.Total, widgets.Pager(c.pageNum, c.page.Pages()))
		if c.loading {
			footer = c.spinner.View() + " " + footer
		}
		b.WriteString(styles.Help.Render(footer))
	}

	if c.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.Error.Render("Error: " + c.err))
	}
	return b.String()
}
