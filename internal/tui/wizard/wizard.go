// ABOUTME: Borrow request wizard as a bubbletea model
// ABOUTME: Collects a note and due date with huh forms, then asks for confirmation

package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
)

// ErrDueRequired is returned when a borrow request has no due date
var ErrDueRequired = errors.New("due date is required")

// CompleteMsg is sent when the user confirms the request
type CompleteMsg struct {
	Note string
	Due  *client.Date
}

// CancelledMsg is sent when the wizard is abandoned or the user declines
type CancelledMsg struct{}

// Wizard manages the borrow request flow
type Wizard struct {
	items []client.WishlistItem
	today time.Time
	form  *huh.Form
	step  int
	width int

	// Form field values
	note    string
	due     string
	confirm bool
}

// Step names for progress indicator
var stepNames = []string{"Details", "Review"}

// createTheme returns a huh theme in the app palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(styles.Text)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(styles.Text).
		Background(styles.Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Muted).
		Background(styles.Surface).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(styles.Muted)

	return t
}

// defaultLoanDays prefills the due date
const defaultLoanDays = 14

// New creates a wizard for borrowing the given wishlist entries.
// today bounds the earliest allowed due date.
func New(items []client.WishlistItem, today time.Time) *Wizard {
	w := &Wizard{
		items: items,
		today: today,
		due:   today.AddDate(0, 0, defaultLoanDays).Format("2006-01-02"),
		step:  1,
	}
	w.form = w.createDetailsForm()
	return w
}

func (w *Wizard) createDetailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note").
				Description("Optional message for the librarian").
				CharLimit(500).
				Lines(3).
				Value(&w.note),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD, when you will bring the books back").
				Placeholder(w.today.AddDate(0, 0, defaultLoanDays).Format("2006-01-02")).
				CharLimit(10).
				Value(&w.due).
				Validate(w.validateDue),
		).Title("Step 1: Details").
			Description(fmt.Sprintf("Borrowing %d books from your wishlist", totalBooks(w.items))),
	).WithTheme(createTheme())
}

func (w *Wizard) createReviewForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Submit this borrow request?").
				Description(w.summary()).
				Affirmative("Submit").
				Negative("Cancel").
				Value(&w.confirm),
		).Title("Step 2: Review"),
	).WithTheme(createTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.confirm = true
		w.form = w.createReviewForm()
		return w, w.form.Init()

	case 2:
		if !w.confirm {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
		result := w.Result()
		return w, func() tea.Msg { return result }
	}

	return w, nil
}

// Result returns the collected request details
func (w *Wizard) Result() CompleteMsg {
	msg := CompleteMsg{Note: strings.TrimSpace(w.note)}
	if due := strings.TrimSpace(w.due); due != "" {
		if d, err := client.ParseDate(due); err == nil {
			msg.Due = &d
		}
	}
	return msg
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())

	return sb.String()
}

// summary lists the books and details shown on the review step
func (w *Wizard) summary() string {
	var sb strings.Builder
	for _, item := range w.items {
		title := fmt.Sprintf("Book #%d", item.BookID)
		if item.Book != nil {
			title = item.Book.Title
		}
		sb.WriteString(fmt.Sprintf("%s %s x%d\n", icons.Book.String(), title, item.Quantity))
	}
	if due := strings.TrimSpace(w.due); due != "" {
		sb.WriteString(fmt.Sprintf("%s Due %s\n", icons.Calendar.String(), due))
	}
	if note := strings.TrimSpace(w.note); note != "" {
		sb.WriteString(fmt.Sprintf("Note: %s\n", note))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	progressBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filledWidth))

	title := icons.Borrow.String() + " Borrow request"
	topFillWidth := max(0, width-5-lipgloss.Width(title))
	topBorder := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + progressBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// validateDue requires a YYYY-MM-DD date no earlier than today
func (w *Wizard) validateDue(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrDueRequired
	}
	d, err := client.ParseDate(s)
	if err != nil {
		return fmt.Errorf("use the format YYYY-MM-DD")
	}
	today := time.Date(w.today.Year(), w.today.Month(), w.today.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return fmt.Errorf("due date cannot be in the past")
	}
	return nil
}

func totalBooks(items []client.WishlistItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
