// ABOUTME: Availability bar showing how many copies of a book are on the shelf
// ABOUTME: Green while plenty remain, amber when few are left, red when none

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/tui/styles"
)

// AvailabilityConfig holds configuration for the availability bar
type AvailabilityConfig struct {
	Width      int
	LowRatio   float64 // share of copies at or below which the bar turns amber
	OKColor    lipgloss.Color
	LowColor   lipgloss.Color
	EmptyColor lipgloss.Color
	TrackColor lipgloss.Color
}

// DefaultAvailabilityConfig returns sensible defaults
func DefaultAvailabilityConfig() AvailabilityConfig {
	return AvailabilityConfig{
		Width:      20,
		LowRatio:   0.25,
		OKColor:    styles.Secondary,
		LowColor:   styles.Warning,
		EmptyColor: styles.Danger,
		TrackColor: styles.Surface,
	}
}

// AvailabilityLevel classifies the share of available copies
func AvailabilityLevel(available, total int, lowRatio float64) StatusLevel {
	switch {
	case total <= 0 || available <= 0:
		return StatusCritical
	case float64(available)/float64(total) <= lowRatio:
		return StatusWarning
	default:
		return StatusOK
	}
}

// AvailabilityBar renders available/total as a bar
func AvailabilityBar(available, total int, config AvailabilityConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}

	filled := 0
	if total > 0 {
		filled = min(max(available, 0)*config.Width/total, config.Width)
	}

	var color lipgloss.Color
	switch AvailabilityLevel(available, total, config.LowRatio) {
	case StatusOK:
		color = config.OKColor
	case StatusWarning:
		color = config.LowColor
	default:
		color = config.EmptyColor
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(config.TrackColor).Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// AvailabilityWithLabel renders the bar followed by "available/total"
func AvailabilityWithLabel(available, total int, config AvailabilityConfig) string {
	return fmt.Sprintf("%s %d/%d", AvailabilityBar(available, total, config), available, total)
}
