// ABOUTME: Shared lipgloss styles for the library TUI and CLI output
// ABOUTME: One palette for panels, list rows, status text and keyboard hints

package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#0F766E") // teal, titles and focus
	Accent    = lipgloss.Color("#14B8A6") // light teal, selection
	Secondary = lipgloss.Color("#16A34A") // green, available / approved
	Warning   = lipgloss.Color("#D97706") // amber, pending / low stock
	Danger    = lipgloss.Color("#DC2626") // red, rejected / errors
	Info      = lipgloss.Color("#2563EB") // blue, returned
	Muted     = lipgloss.Color("#78716C") // stone, borders and hints
	Text      = lipgloss.Color("#FAFAF9")
	Surface   = lipgloss.Color("#44403C")
)

// Headings
var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	Subtitle = lipgloss.NewStyle().Foreground(Muted).MarginBottom(1)
)

// Status text
var (
	StatusOK       = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	StatusWarning  = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	StatusCritical = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	Error          = lipgloss.NewStyle().Foreground(Danger)
)

// Panels. ActivePanel marks the pane that receives keys.
var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = Panel.BorderForeground(Primary)
)

// List rows and hints
var (
	Selected   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	Normal     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	Disabled   = lipgloss.NewStyle().Foreground(Muted)
	Help       = lipgloss.NewStyle().Foreground(Muted).MarginTop(1)
	KeyStyle   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)
)

// Cursor returns the row prefix for a list item
func Cursor(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

// Row renders a list item with the cursor prefix
func Row(text string, selected bool) string {
	if selected {
		return Cursor(true) + Selected.Render(text)
	}
	return Cursor(false) + Normal.Render(text)
}

// Shortcut renders a key followed by its muted label
func Shortcut(key, label string) string {
	return KeyStyle.Render(key) + " " + Disabled.Render(label)
}
