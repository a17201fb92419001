// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Maps borrow request states to colored inline badges

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors follow the shared palette
var (
	BadgeOKBg      = styles.Secondary
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = styles.Warning
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = styles.Danger
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = styles.Info
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = styles.Muted
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func levelColors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := levelColors(level)

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// BorrowLevel returns the badge level of a borrow request status
func BorrowLevel(s client.BorrowStatus) StatusLevel {
	switch s {
	case client.StatusPending, client.StatusNeedEdit:
		return StatusWarning
	case client.StatusApproved:
		return StatusOK
	case client.StatusRejected:
		return StatusCritical
	case client.StatusReturned:
		return StatusInfo
	default:
		return StatusNeutral
	}
}

// BorrowBadge renders the localized badge for a borrow request status
func BorrowBadge(s client.BorrowStatus, m *client.Messages) string {
	return Badge(s.Label(m), BorrowLevel(s))
}

// BorrowIcon returns the plain glyph for a borrow request status
func BorrowIcon(s client.BorrowStatus) icons.Icon {
	switch s {
	case client.StatusPending:
		return icons.Pending
	case client.StatusNeedEdit:
		return icons.Warning
	case client.StatusApproved:
		return icons.CheckOK
	case client.StatusRejected:
		return icons.Critical
	default:
		return icons.Info
	}
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := levelColors(level)
	style := lipgloss.NewStyle().Foreground(bg)

	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := levelColors(level)
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}
