// ABOUTME: Count blocks for the summary command
// ABOUTME: Icon and title in the top border, a big number and a label inside

package widgets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/styles"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       24,
		BorderColor: styles.Muted,
		TitleColor:  styles.Primary,
		ValueColor:  styles.Text,
	}
}

// MetricBlock renders a compact metric display block with the title in the top border
func MetricBlock(icon icons.Icon, title string, value string, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 24
	}

	// Inner width accounts for border and padding
	innerWidth := config.Width - 4

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)
	topBorder := fmt.Sprintf("┌─ %s %s┐",
		titleStyle.Render(titleStr),
		strings.Repeat("─", max(0, innerWidth-lipgloss.Width(titleStr)-1)))

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	bottomBorder := fmt.Sprintf("└%s┘", strings.Repeat("─", config.Width-2))
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)

	return strings.Join([]string{
		borderStyle.Render(topBorder),
		borderStyle.Render(padLine(valueStyle.Render(truncate(value, innerWidth)), innerWidth)),
		borderStyle.Render(padLine(subtitleStyle.Render(truncate(subtitle, innerWidth)), innerWidth)),
		borderStyle.Render(bottomBorder),
	}, "\n")
}

// CountBlock renders a metric block for a simple count
func CountBlock(icon icons.Icon, title string, count int, label string, config MetricBlockConfig) string {
	return MetricBlock(icon, title, strconv.Itoa(count), label, config)
}

// padLine wraps content in side borders, padding by display width
func padLine(content string, width int) string {
	pad := max(0, width-lipgloss.Width(content))
	return "│  " + content + strings.Repeat(" ", pad) + "│"
}

// truncate shortens s to maxLen display cells
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxLen {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
