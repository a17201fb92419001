// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: JSON encoding, lipgloss tables, date formatting and argument parsing

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/widgets"
)

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderTable renders rows under headers with a rounded border
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// writePageFooter prints totals and the pagination window. A partial page
// has no total, so it shows the row count and a hint for the next page.
func writePageFooter[T any](w io.Writer, p *client.Page[T]) {
	if p.Partial {
		fmt.Fprintf(w, "Showing %d  Page %d", len(p.Items), p.Page)
		if p.HasMore() {
			fmt.Fprintf(w, "  (more: --page %d)", p.Page+1)
		}
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "Total: %d", p.Total)
	if pages := p.Pages(); pages > 1 {
		fmt.Fprintf(w, "  Page %d/%d  %s", p.Page, pages, widgets.Pager(p.Page, pages))
	}
	fmt.Fprintln(w)
}

// parseID parses a positive numeric ID argument
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s ID %q", kind, arg)
	}
	return id, nil
}

// parseItems parses repeated BOOK_ID[:QUANTITY] arguments
func parseItems(specs []string) ([]client.BorrowItemInput, error) {
	items := make([]client.BorrowItemInput, 0, len(specs))
	for _, spec := range specs {
		idPart, qtyPart, hasQty := strings.Cut(spec, ":")
		id, err := parseID("book", idPart)
		if err != nil {
			return nil, err
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty < 1 {
				return nil, fmt.Errorf("invalid quantity in %q", spec)
			}
		}
		items = append(items, client.BorrowItemInput{BookID: id, Quantity: qty})
	}
	return items, nil
}

// parseDue parses an optional YYYY-MM-DD due date
func parseDue(s string) (*client.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := client.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// orDash returns "-" for empty values
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// formatDate renders a date as dd/mm/yyyy
func formatDate(d *client.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}
	return d.Format("02/01/2006")
}

// formatTime renders a timestamp as dd/mm/yyyy hh:mm
func formatTime(ts *client.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return "-"
	}
	return ts.Format("02/01/2006 15:04")
}
