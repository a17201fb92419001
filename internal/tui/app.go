// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, runs API calls as commands and routes input to child components

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/session"
	"github.com/ptit-library/libctl/internal/tui/bookview"
	"github.com/ptit-library/libctl/internal/tui/borrows"
	"github.com/ptit-library/libctl/internal/tui/catalog"
	"github.com/ptit-library/libctl/internal/tui/debuglog"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/menu"
	"github.com/ptit-library/libctl/internal/tui/recent"
	"github.com/ptit-library/libctl/internal/tui/styles"
	"github.com/ptit-library/libctl/internal/tui/wishlist"
	"github.com/ptit-library/libctl/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenCatalog
	ScreenBook
	ScreenWishlist
	ScreenBorrows
	ScreenWizard
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// booksLoadedMsg carries a catalog page
type booksLoadedMsg struct {
	search string
	page   *client.Page[client.Book]
	err    error
}

// bookLoadedMsg carries a refreshed book
type bookLoadedMsg struct {
	book *client.Book
	err  error
}

// wishlistLoadedMsg carries the current wishlist
type wishlistLoadedMsg struct {
	list *client.Wishlist
	err  error
}

// borrowsLoadedMsg carries a page of borrow requests
type borrowsLoadedMsg struct {
	status client.BorrowStatus
	page   *client.Page[client.BorrowRequest]
	err    error
}

// mutationDoneMsg reports the outcome of a write and what to reload
type mutationDoneMsg struct {
	notice string
	reload Screen
	err    error
}

// borrowCreatedMsg is sent when a borrow request has been submitted
type borrowCreatedMsg struct {
	req *client.BorrowRequest
	err error
}

// App is the root model for the TUI
type App struct {
	api        *client.Client
	store      session.Store
	screen     Screen
	width      int
	height     int
	status     string
	statusErr  bool
	lastUpdate time.Time
	now        func() time.Time

	// Child models
	menu         *menu.Menu
	catalog      *catalog.Catalog
	bookView     *bookview.BookView
	wishlist     *wishlist.View
	borrows      *borrows.Borrows
	wizardScreen *wizard.Wizard

	recent *recent.Searches
}

// New creates a new TUI application. configDir holds recent searches.
func New(api *client.Client, store session.Store, configDir string) *App {
	return &App{
		api:    api,
		store:  store,
		screen: ScreenMenu,
		now:    time.Now,
		menu:   menu.New(session.IsLoggedIn(store), session.IsAdmin(store)),
		recent: recent.New(configDir),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.catalog != nil {
			a.catalog.Update(msg)
		}
		if a.bookView != nil {
			a.bookView.SetSize(a.detailWidth(), a.contentHeight())
		}
		if a.wishlist != nil {
			a.wishlist.SetWidth(a.width - panelPadding)
		}
		if a.borrows != nil {
			a.borrows.SetWidth(a.width - panelPadding)
		}
		if a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if msg.String() == "q" && a.quitAllowed() {
			return a, tea.Quit
		}
		a.clearStatus()

		switch a.screen {
		case ScreenMenu:
			return a.route(a.menu, msg)
		case ScreenCatalog:
			return a.route(a.catalog, msg)
		case ScreenBook:
			return a.updateBook(msg)
		case ScreenWishlist:
			return a.route(a.wishlist, msg)
		case ScreenBorrows:
			return a.route(a.borrows, msg)
		case ScreenWizard:
			return a.updateWizard(msg)
		}

	case spinner.TickMsg:
		if a.catalog != nil {
			return a.route(a.catalog, msg)
		}
		return a, nil

	case menu.SelectedMsg:
		return a.handleMenuSelected(msg)

	case menu.CancelledMsg:
		return a, tea.Quit

	case catalog.QueryMsg:
		return a, a.loadBooks(msg.Search, msg.Page)

	case catalog.BookSelectedMsg:
		book := msg.Book
		a.bookView = bookview.New(&book, a.detailWidth(), a.contentHeight())
		a.screen = ScreenBook
		return a, a.loadBook(book.ID)

	case catalog.CancelledMsg:
		a.screen = ScreenMenu
		return a, nil

	case booksLoadedMsg:
		if a.catalog == nil {
			return a, nil
		}
		if msg.err != nil {
			a.catalog.SetError(msg.err.Error())
			a.setError(msg.err)
			return a, nil
		}
		a.catalog.SetPage(msg.search, msg.page)
		a.lastUpdate = a.now()
		if msg.search != "" {
			if err := a.recent.Add(msg.search); err != nil {
				debuglog.Error("save recent searches", err)
			}
			a.catalog.SetRecent(a.recent.List())
		}
		return a, nil

	case bookLoadedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		if a.bookView != nil {
			a.bookView.Update(msg.book)
		}
		a.lastUpdate = a.now()
		return a, nil

	case wishlist.QuantityMsg:
		return a, a.mutate(ScreenWishlist, func(ctx context.Context) (string, error) {
			item, err := a.api.Wishlist().Update(ctx, msg.BookID, msg.Quantity)
			if err != nil {
				return "", err
			}
			if item == nil {
				return fmt.Sprintf("Removed book #%d from wishlist", msg.BookID), nil
			}
			return "", nil
		})

	case wishlist.RemoveMsg:
		return a, a.mutate(ScreenWishlist, func(ctx context.Context) (string, error) {
			return fmt.Sprintf("Removed book #%d from wishlist", msg.BookID), a.api.Wishlist().Remove(ctx, msg.BookID)
		})

	case wishlist.ClearMsg:
		return a, a.mutate(ScreenWishlist, func(ctx context.Context) (string, error) {
			return "Wishlist cleared", a.api.Wishlist().Clear(ctx)
		})

	case wishlist.RefreshMsg:
		return a, a.loadWishlist()

	case wishlist.RequestBorrowMsg:
		return a, a.runWizard()

	case wishlist.CancelledMsg, borrows.CancelledMsg:
		a.screen = ScreenMenu
		return a, nil

	case wishlistLoadedMsg:
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		if a.wishlist != nil {
			a.wishlist.SetWishlist(msg.list)
		}
		a.lastUpdate = a.now()
		return a, nil

	case borrows.QueryMsg:
		return a, a.loadBorrows(msg.Status, msg.Page)

	case borrows.ActionMsg:
		return a, a.applyBorrowAction(msg)

	case borrowsLoadedMsg:
		if a.borrows == nil {
			return a, nil
		}
		if msg.err != nil {
			a.borrows.StopLoading()
			a.setError(msg.err)
			return a, nil
		}
		a.borrows.SetPage(msg.status, msg.page)
		a.lastUpdate = a.now()
		return a, nil

	case mutationDoneMsg:
		if msg.err != nil {
			a.setError(msg.err)
		} else if msg.notice != "" {
			a.setNotice(msg.notice)
		}
		return a, a.reload(msg.reload)

	case wizard.CompleteMsg:
		a.wizardScreen = nil
		if msg.Due == nil {
			a.screen = ScreenWishlist
			a.setError(wizard.ErrDueRequired)
			return a, nil
		}
		return a, a.createBorrow(msg)

	case wizard.CancelledMsg:
		a.wizardScreen = nil
		a.screen = ScreenWishlist
		return a, nil

	case borrowCreatedMsg:
		if msg.err != nil {
			a.screen = ScreenWishlist
			a.setError(msg.err)
			return a, nil
		}
		a.setNotice(fmt.Sprintf("Borrow request #%d submitted", msg.req.ID))
		a.borrows = borrows.New(a.api.Messages(), session.IsAdmin(a.store), a.width-panelPadding)
		a.screen = ScreenBorrows
		return a, tea.Batch(a.borrows.Init(), a.loadWishlist())

	default:
		// huh forms rely on their own internal messages
		if a.screen == ScreenWizard && a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
	}

	return a, nil
}

// route forwards a message to a child model
func (a *App) route(m tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	if m == nil {
		return a, nil
	}
	_, cmd := m.Update(msg)
	return a, cmd
}

// quitAllowed reports whether q quits rather than being typed into an input
func (a *App) quitAllowed() bool {
	switch a.screen {
	case ScreenWizard:
		return false
	case ScreenCatalog:
		return a.catalog == nil || !a.catalog.Searching()
	}
	return true
}

func (a *App) updateBook(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.bookView == nil || a.bookView.Book() == nil {
		return a, nil
	}
	book := a.bookView.Book()

	switch msg.String() {
	case "esc", "b":
		a.screen = ScreenCatalog
		a.bookView = nil
		return a, nil
	case "r":
		return a, a.loadBook(book.ID)
	case "a":
		if !session.IsLoggedIn(a.store) {
			a.setNotice("Sign in with `libctl login` to use the wishlist")
			return a, nil
		}
		if book.AvailableQuantity <= 0 {
			a.setNotice("No copies available right now")
			return a, nil
		}
		id, title := book.ID, book.Title
		return a, a.mutate(ScreenBook, func(ctx context.Context) (string, error) {
			if _, err := a.api.Wishlist().Add(ctx, id, 1); err != nil {
				return "", err
			}
			return fmt.Sprintf("Added %q to wishlist", title), nil
		})
	}
	return a, nil
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.wizardScreen == nil {
		return a, nil
	}
	model, cmd := a.wizardScreen.Update(msg)
	a.wizardScreen = model.(*wizard.Wizard)
	return a, cmd
}

func (a *App) handleMenuSelected(msg menu.SelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Choice {
	case menu.ChoiceCatalog:
		a.screen = ScreenCatalog
		if a.catalog == nil {
			a.catalog = catalog.New(a.recent.List())
			if a.width > 0 {
				a.catalog.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
			}
			return a, a.catalog.Init()
		}
		return a, nil

	case menu.ChoiceWishlist:
		a.screen = ScreenWishlist
		if a.wishlist == nil {
			a.wishlist = wishlist.New(nil)
			a.wishlist.SetWidth(a.width - panelPadding)
		}
		return a, a.loadWishlist()

	case menu.ChoiceBorrows:
		a.screen = ScreenBorrows
		if a.borrows == nil {
			a.borrows = borrows.New(a.api.Messages(), session.IsAdmin(a.store), a.width-panelPadding)
			return a, a.borrows.Init()
		}
		return a, a.loadBorrows(a.borrows.Status(), client.DefaultPage)

	case menu.ChoiceQuit:
		return a, tea.Quit
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenMenu:
		content = a.menu.View()
	case ScreenCatalog:
		content = viewOf(a.catalog)
	case ScreenBook:
		content = a.viewBook()
	case ScreenWishlist:
		content = viewOf(a.wishlist)
	case ScreenBorrows:
		content = viewOf(a.borrows)
	case ScreenWizard:
		content = viewOf(a.wizardScreen)
	}

	if a.status != "" {
		style := styles.StatusOK
		text := a.status
		if a.statusErr {
			style = styles.StatusCritical
			text = "Error: " + text
		}
		content += "\n\n" + style.Render(text)
	}

	return a.wrapWithFrame(content)
}

// viewOf renders a child model that may not exist yet
func viewOf[M interface {
	comparable
	View() string
}](m M) string {
	var zero M
	if m == zero {
		return ""
	}
	return m.View()
}

// viewBook renders the book details with an actions pane
func (a *App) viewBook() string {
	if a.bookView == nil {
		return ""
	}
	leftPane := styles.ActivePanel.Width(a.detailWidth()).Render(a.bookView.View())

	rightContent := styles.Title.Render(icons.Settings.String()+" Actions") + "\n\n"
	if session.IsLoggedIn(a.store) {
		rightContent += icons.Wishlist.String() + " Add to wishlist\n"
	}
	rightContent += icons.Refresh.String() + " Refresh\n"
	rightContent += icons.Back.String() + " Back to catalog\n"
	rightContent += icons.Quit.String() + " Quit application\n"
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// detailWidth calculates the width for the book details pane
func (a *App) detailWidth() int {
	if a.width < minTerminalWidth {
		return max(0, a.width-panelPadding)
	}
	return (a.width - panelPadding) * 3 / 5
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	return max(24, a.width-a.detailWidth()-4)
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	// header, blank, panel border and padding (4), blank, footer
	return max(0, a.height-8)
}

func (a *App) setError(err error) {
	debuglog.Error(screenName(a.screen), err)
	a.status = err.Error()
	a.statusErr = true
}

func (a *App) setNotice(msg string) {
	a.status = msg
	a.statusErr = false
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusErr = false
}

// renderHeader creates the header bar with app branding and the signed-in user
func (a *App) renderHeader() string {
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftRendered := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("libctl"))

	rightRendered := ""
	if user := a.signedInUser(); user != nil {
		label := user.DisplayName()
		if user.IsAdmin() {
			label = icons.Admin.String() + " " + label
		} else {
			label = icons.User.String() + " " + label
		}
		rightRendered = contextStyle.Render(label) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftRendered)-lipgloss.Width(rightRendered)) // -4 for ╭─ and ─╮

	header := "╭─" + leftRendered + strings.Repeat("─", fillWidth) + rightRendered + "─╮"
	return borderStyle.Render(header)
}

func (a *App) signedInUser() *client.User {
	if !session.IsLoggedIn(a.store) {
		return nil
	}
	return a.store.User()
}

// shortcuts lists the keyboard shortcuts for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenCatalog:
		if a.catalog != nil && a.catalog.Searching() {
			return []string{"Enter Search", "Tab Recent", "Esc Cancel"}
		}
		return []string{"/ Search", "←→ Page", "Enter Open", "b Back", "q Quit"}
	case ScreenBook:
		if session.IsLoggedIn(a.store) {
			return []string{"a Wishlist", "r Refresh", "b Back", "q Quit"}
		}
		return []string{"r Refresh", "b Back", "q Quit"}
	case ScreenWishlist:
		return []string{"+/- Quantity", "d Remove", "c Clear", "r Borrow", "R Refresh", "Esc Back"}
	case ScreenBorrows:
		return []string{"↑↓ Navigate", "f Filter", "←→ Page", "r Refresh", "Esc Back"}
	case ScreenWizard:
		return []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and last update time
func (a *App) renderFooter() string {
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styledShortcuts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styledShortcuts = append(styledShortcuts, styles.Shortcut(key, label))
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenMenu && a.screen != ScreenWizard {
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftPlainText)-lipgloss.Width(rightPlainText)) // -4 for ╰─ and ─╯

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := a.now().Sub(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// loadBooks creates a command to fetch a catalog page
func (a *App) loadBooks(search string, page int) tea.Cmd {
	return func() tea.Msg {
		result, err := a.api.Books().List(context.Background(), client.BookQuery{Page: page, Search: search})
		return booksLoadedMsg{search: search, page: result, err: err}
	}
}

// loadBook creates a command to refresh one book
func (a *App) loadBook(id int64) tea.Cmd {
	return func() tea.Msg {
		book, err := a.api.Books().Get(context.Background(), id)
		return bookLoadedMsg{book: book, err: err}
	}
}

// loadWishlist creates a command to fetch the wishlist
func (a *App) loadWishlist() tea.Cmd {
	return func() tea.Msg {
		list, err := a.api.Wishlist().Get(context.Background())
		return wishlistLoadedMsg{list: list, err: err}
	}
}

// loadBorrows creates a command to fetch a page of borrow requests
func (a *App) loadBorrows(status client.BorrowStatus, page int) tea.Cmd {
	return func() tea.Msg {
		result, err := a.api.Borrows().List(context.Background(), client.BorrowQuery{Page: page, Status: status})
		return borrowsLoadedMsg{status: status, page: result, err: err}
	}
}

// mutate runs a write and then reloads the given screen
func (a *App) mutate(reload Screen, fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		notice, err := fn(context.Background())
		return mutationDoneMsg{notice: notice, reload: reload, err: err}
	}
}

// reload refreshes the data behind a screen after a write
func (a *App) reload(s Screen) tea.Cmd {
	switch s {
	case ScreenWishlist:
		if a.wishlist != nil {
			return a.loadWishlist()
		}
	case ScreenBorrows:
		if a.borrows != nil {
			return a.loadBorrows(a.borrows.Status(), client.DefaultPage)
		}
	case ScreenBook:
		if a.bookView != nil && a.bookView.Book() != nil {
			return a.loadBook(a.bookView.Book().ID)
		}
	}
	return nil
}

// applyBorrowAction runs an admin transition or a delete
func (a *App) applyBorrowAction(msg borrows.ActionMsg) tea.Cmd {
	api := a.api.Borrows()
	m := a.api.Messages()
	return a.mutate(ScreenBorrows, func(ctx context.Context) (string, error) {
		var (
			req *client.BorrowRequest
			err error
		)
		switch msg.Action {
		case borrows.ActionApprove:
			req, err = api.Approve(ctx, msg.ID, "")
		case borrows.ActionReject:
			req, err = api.Reject(ctx, msg.ID, "", false)
		case borrows.ActionNeedEdit:
			req, err = api.Reject(ctx, msg.ID, "", true)
		case borrows.ActionReturn:
			req, err = api.Return(ctx, msg.ID)
		case borrows.ActionDelete:
			if err := api.Delete(ctx, msg.ID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted borrow request #%d", msg.ID), nil
		default:
			return "", fmt.Errorf("unknown action %q", msg.Action)
		}
		if err != nil {
			return "", err
		}
		slog.Debug("Borrow request transitioned", "id", req.ID, "status", req.Status)
		return fmt.Sprintf("Borrow request #%d: %s", req.ID, m.StatusLabel(req.Status)), nil
	})
}

// runWizard transitions to the borrow wizard for the current wishlist
func (a *App) runWizard() tea.Cmd {
	var items []client.WishlistItem
	if a.wishlist != nil && a.wishlist.Wishlist() != nil {
		items = a.wishlist.Wishlist().Items
	}
	a.wizardScreen = wizard.New(items, a.now())
	a.wizardScreen.SetWidth(a.width - 1)
	a.screen = ScreenWizard
	return a.wizardScreen.Init()
}

// createBorrow submits a borrow request built from the wishlist
func (a *App) createBorrow(msg wizard.CompleteMsg) tea.Cmd {
	return func() tea.Msg {
		req, err := a.api.Borrows().Create(context.Background(), msg.Note, nil, msg.Due)
		return borrowCreatedMsg{req: req, err: err}
	}
}

// screenName names a screen for the debug log
func screenName(s Screen) string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenCatalog:
		return "catalog"
	case ScreenBook:
		return "book"
	case ScreenWishlist:
		return "wishlist"
	case ScreenBorrows:
		return "borrows"
	case ScreenWizard:
		return "wizard"
	}
	return "unknown"
}

// Run starts the TUI. Logs go to debug.log in configDir while it runs.
func Run(api *client.Client, store session.Store, configDir string, level slog.Level) error {
	if err := debuglog.Init(configDir, level); err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer debuglog.Close()

	app := New(api, store, configDir)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
