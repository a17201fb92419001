// ABOUTME: Pagination window used by list views and CLI list footers
// ABOUTME: Shows the current page with two neighbours, plus first and last pages

package widgets

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ptit-library/libctl/internal/tui/styles"
)

// PageItem is one slot of a pagination bar. Page is zero for an ellipsis.
type PageItem struct {
	Page    int
	Current bool
}

// Ellipsis reports whether the slot stands for skipped pages
func (p PageItem) Ellipsis() bool {
	return p.Page == 0
}

// pageRadius is how many pages are shown on each side of the current one
const pageRadius = 2

// PageWindow returns the slots to show for current of total pages.
// Nothing is shown when there is at most one page.
func PageWindow(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	current = min(max(current, 1), total)

	start := max(1, current-pageRadius)
	end := min(total, current+pageRadius)

	var items []PageItem
	if start > 1 {
		items = append(items, PageItem{Page: 1})
		if start > 2 {
			items = append(items, PageItem{})
		}
	}
	for i := start; i <= end; i++ {
		items = append(items, PageItem{Page: i, Current: i == current})
	}
	if end < total {
		if end < total-1 {
			items = append(items, PageItem{})
		}
		items = append(items, PageItem{Page: total})
	}
	return items
}

// HasPrev reports whether a previous page exists
func HasPrev(current int) bool {
	return current > 1
}

// HasNext reports whether a next page exists
func HasNext(current, total int) bool {
	return current < total
}

var (
	pagerCurrent  = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	pagerDisabled = lipgloss.NewStyle().Foreground(styles.Surface)
	pagerNormal   = lipgloss.NewStyle().Foreground(styles.Muted)
)

// Pager renders the pagination bar, e.g. "« 1 … 4 [5] 6 … 9 »"
func Pager(current, total int) string {
	items := PageWindow(current, total)
	if items == nil {
		return ""
	}

	parts := make([]string, 0, len(items)+2)
	parts = append(parts, arrow("«", HasPrev(current)))
	for _, item := range items {
		switch {
		case item.Ellipsis():
			parts = append(parts, pagerDisabled.Render("…"))
		case item.Current:
			parts = append(parts, pagerCurrent.Render("["+strconv.Itoa(item.Page)+"]"))
		default:
			parts = append(parts, pagerNormal.Render(strconv.Itoa(item.Page)))
		}
	}
	parts = append(parts, arrow("»", HasNext(current, total)))
	return strings.Join(parts, " ")
}

func arrow(symbol string, enabled bool) string {
	if enabled {
		return pagerNormal.Render(symbol)
	}
	return pagerDisabled.Render(symbol)
}
