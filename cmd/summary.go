// ABOUTME: Summary command showing the signed-in user's dashboard
// ABOUTME: Fetches profile, wishlist and borrow requests concurrently

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/session"
	"github.com/ptit-library/libctl/internal/tui/icons"
	"github.com/ptit-library/libctl/internal/tui/widgets"
)

// recentLimit caps the recent requests shown
const recentLimit = 5

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show your dashboard",
	Long: `Show your profile, wishlist and recent borrow requests.

Admins also see the catalog size, the number of users and the requests
waiting for approval.`,
	Args: cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		return runSummary(ctx, e.api, os.Stdout, session.IsAdmin(e.store), IsJSONOutput())
	}),
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// summary is the dashboard data
type summary struct {
	User          *client.User           `json:"user"`
	WishlistItems int                    `json:"wishlist_items"`
	Borrows       int                    `json:"borrow_requests"`
	Recent        []client.BorrowRequest `json:"recent"`

	// Admin only. Users stays nil when the backend lists users without a total.
	Pending *int `json:"pending,omitempty"`
	Books   *int `json:"books,omitempty"`
	Users   *int `json:"users,omitempty"`
}

// fetchSummary gathers the dashboard data. Any failed fetch fails the whole summary.
func fetchSummary(ctx context.Context, api *client.Client, admin bool) (*summary, error) {
	var s summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := api.Auth().Me(ctx)
		s.User = user
		return err
	})
	g.Go(func() error {
		list, err := api.Wishlist().Get(ctx)
		if err != nil {
			return err
		}
		s.WishlistItems = list.TotalItems
		return nil
	})
	g.Go(func() error {
		page, err := api.Borrows().List(ctx, client.BorrowQuery{Page: 1, PageSize: recentLimit})
		if err != nil {
			return err
		}
		s.Borrows = page.Total
		s.Recent = page.Items
		return nil
	})

	if admin {
		g.Go(func() error {
			page, err := api.Borrows().List(ctx, client.BorrowQuery{Page: 1, PageSize: 1, Status: client.StatusPending})
			if err != nil {
				return err
			}
			s.Pending = &page.Total
			return nil
		})
		g.Go(func() error {
			page, err := api.Books().List(ctx, client.BookQuery{Page: 1, PageSize: 1})
			if err != nil {
				return err
			}
			s.Books = &page.Total
			return nil
		})
		g.Go(func() error {
			page, err := api.Users().List(ctx, client.UserQuery{Page: 1, PageSize: 1})
			if err != nil {
				return err
			}
			if !page.Partial {
				s.Users = &page.Total
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// runSummary prints the dashboard
func runSummary(ctx context.Context, api *client.Client, w io.Writer, admin, jsonOut bool) error {
	s, err := fetchSummary(ctx, api, admin)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, s)
	}

	m := api.Messages()
	cfg := widgets.DefaultMetricBlockConfig()

	fmt.Fprintf(w, "%s %s (%s)\n\n", icons.User, s.User.DisplayName(), s.User.Role)

	blocks := []string{
		widgets.CountBlock(icons.Wishlist, "Wishlist", s.WishlistItems, "books", cfg),
		widgets.CountBlock(icons.Borrow, "Requests", s.Borrows, "total", cfg),
	}
	if admin {
		blocks = append(blocks,
			widgets.CountBlock(icons.Pending, "Pending", deref(s.Pending), "awaiting approval", cfg),
			widgets.CountBlock(icons.Book, "Books", deref(s.Books), "titles", cfg),
		)
		if s.Users != nil {
			blocks = append(blocks, widgets.CountBlock(icons.Admin, "Users", *s.Users, "accounts", cfg))
		}
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, blocks...))

	if len(s.Recent) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nRecent requests")
	rows := make([][]string, 0, len(s.Recent))
	for _, req := range s.Recent {
		rows = append(rows, []string{
			strconv.FormatInt(req.ID, 10),
			m.StatusLabel(req.Status),
			strconv.Itoa(req.TotalBooks()),
			formatTime(req.CreatedAt),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Status", "Books", "Created"}, rows))
	return nil
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
