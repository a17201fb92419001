// ABOUTME: Borrow request commands for users and admins
// ABOUTME: Users create and edit requests; admins approve, reject and record returns

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/tui/widgets"
)

var borrowFlags struct {
	page        int
	pageSize    int
	status      string
	search      string
	note        string
	items       []string
	due         string
	requireEdit bool
}

var borrowsCmd = &cobra.Command{
	Use:     "borrows",
	Aliases: []string{"borrow"},
	Short:   "Manage borrow requests",
}

var borrowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List borrow requests",
	Long:  `List borrow requests. Admins see the requests of every user.`,
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		status := client.BorrowStatus(borrowFlags.status)
		if status != "" && !status.Valid() {
			return fmt.Errorf("invalid status %q, expected one of %s", status, statusNames())
		}
		q := client.BorrowQuery{
			Page:     borrowFlags.page,
			PageSize: pageSizeOr(borrowFlags.pageSize, e),
			Status:   status,
			Search:   borrowFlags.search,
		}
		return runBorrowsList(ctx, e.api, os.Stdout, q, IsJSONOutput())
	}),
}

var borrowsGetCmd = &cobra.Command{
	Use:   "get REQUEST_ID",
	Short: "Show a borrow request",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("request", args[0])
		if err != nil {
			return err
		}
		return runBorrowGet(ctx, e.api, os.Stdout, id, IsJSONOutput())
	}),
}

var borrowsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Request to borrow books",
	Long: `Request to borrow books.

Give books with --item BOOK_ID[:QUANTITY], repeated as needed. Without any
--item the request is built from your wishlist.`,
	Args: cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		items, due, err := borrowInputFromFlags()
		if err != nil {
			return err
		}
		return runBorrowCreate(ctx, e.api, os.Stdout, borrowFlags.note, items, due, IsJSONOutput())
	}),
}

var borrowsUpdateCmd = &cobra.Command{
	Use:   "update REQUEST_ID",
	Short: "Edit a pending or need-edit request",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("request", args[0])
		if err != nil {
			return err
		}
		items, due, err := borrowInputFromFlags()
		if err != nil {
			return err
		}
		req, err := e.api.Borrows().Update(ctx, id, borrowFlags.note, items, due)
		if err != nil {
			return err
		}
		return writeBorrowResult(os.Stdout, e.api.Messages(), req, "Updated", IsJSONOutput())
	}),
}

var borrowsApproveCmd = &cobra.Command{
	Use:   "approve REQUEST_ID",
	Short: "Approve a pending request (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  transition("approve"),
}

var borrowsRejectCmd = &cobra.Command{
	Use:   "reject REQUEST_ID",
	Short: "Reject a pending request (admin)",
	Long:  `Reject a pending request. With --require-edit the user is asked to edit it instead.`,
	Args:  cobra.ExactArgs(1),
	RunE:  transition("reject"),
}

var borrowsReturnCmd = &cobra.Command{
	Use:   "return REQUEST_ID",
	Short: "Record the return of an approved request (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  transition("return"),
}

var borrowsDeleteCmd = &cobra.Command{
	Use:   "delete REQUEST_ID",
	Short: "Delete a borrow request",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("request", args[0])
		if err != nil {
			return err
		}
		if err := e.api.Borrows().Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted request #%d\n", id)
		return nil
	}),
}

func init() {
	borrowsListCmd.Flags().IntVar(&borrowFlags.page, "page", 1, "Page number")
	borrowsListCmd.Flags().IntVar(&borrowFlags.pageSize, "page-size", 0, "Requests per page (default from config)")
	borrowsListCmd.Flags().StringVar(&borrowFlags.status, "status", "", "Filter by status: "+statusNames())
	borrowsListCmd.Flags().StringVarP(&borrowFlags.search, "search", "s", "", "Search by user or book")

	for _, c := range []*cobra.Command{borrowsCreateCmd, borrowsUpdateCmd} {
		c.Flags().StringVar(&borrowFlags.note, "note", "", "Note for the librarian")
		c.Flags().StringArrayVar(&borrowFlags.items, "item", nil, "Book as BOOK_ID[:QUANTITY], repeatable")
		c.Flags().StringVar(&borrowFlags.due, "due", "", "Due date as YYYY-MM-DD")
	}
	for _, c := range []*cobra.Command{borrowsApproveCmd, borrowsRejectCmd} {
		c.Flags().StringVar(&borrowFlags.note, "note", "", "Admin note shown to the user")
	}
	borrowsRejectCmd.Flags().BoolVar(&borrowFlags.requireEdit, "require-edit", false, "Ask the user to edit instead of rejecting")

	borrowsCmd.AddCommand(borrowsListCmd, borrowsGetCmd, borrowsCreateCmd, borrowsUpdateCmd,
		borrowsApproveCmd, borrowsRejectCmd, borrowsReturnCmd, borrowsDeleteCmd)
	rootCmd.AddCommand(borrowsCmd)
}

func statusNames() string {
	names := make([]string, len(client.BorrowStatuses))
	for i, s := range client.BorrowStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func borrowInputFromFlags() ([]client.BorrowItemInput, *client.Date, error) {
	items, err := parseItems(borrowFlags.items)
	if err != nil {
		return nil, nil, err
	}
	due, err := parseDue(borrowFlags.due)
	if err != nil {
		return nil, nil, err
	}
	return items, due, nil
}

// transition builds the RunE of an admin status change command
func transition(action string) func(*cobra.Command, []string) error {
	return withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("request", args[0])
		if err != nil {
			return err
		}
		return runBorrowTransition(ctx, e.api, os.Stdout, id, action, borrowFlags.note, borrowFlags.requireEdit, IsJSONOutput())
	})
}

// runBorrowsList prints one page of borrow requests
func runBorrowsList(ctx context.Context, api *client.Client, w io.Writer, q client.BorrowQuery, jsonOut bool) error {
	page, err := api.Borrows().List(ctx, q)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, page)
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No borrow requests")
		return nil
	}

	m := api.Messages()
	rows := make([][]string, 0, len(page.Items))
	for _, req := range page.Items {
		rows = append(rows, []string{
			strconv.FormatInt(req.ID, 10),
			borrowOwner(&req),
			m.StatusLabel(req.Status),
			strconv.Itoa(req.TotalBooks()),
			formatTime(req.CreatedAt),
			formatDate(req.DueDate),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "User", "Status", "Books", "Created", "Due"}, rows))
	writePageFooter(w, page)
	return nil
}

func borrowOwner(req *client.BorrowRequest) string {
	if req.User != nil {
		return req.User.DisplayName()
	}
	return "#" + strconv.FormatInt(req.UserID, 10)
}

// runBorrowGet prints a borrow request with its items
func runBorrowGet(ctx context.Context, api *client.Client, w io.Writer, id int64, jsonOut bool) error {
	req, err := api.Borrows().Get(ctx, id)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, req)
	}
	writeBorrow(w, api.Messages(), req)
	return nil
}

func writeBorrow(w io.Writer, m *client.Messages, req *client.BorrowRequest) {
	fmt.Fprintf(w, "Request #%d  %s\n", req.ID, widgets.BorrowBadge(req.Status, m))
	fmt.Fprintf(w, "User:      %s\n", borrowOwner(req))
	fmt.Fprintf(w, "Created:   %s\n", formatTime(req.CreatedAt))
	fmt.Fprintf(w, "Due:       %s\n", formatDate(req.DueDate))
	if req.ApprovedAt != nil {
		fmt.Fprintf(w, "Approved:  %s\n", formatTime(req.ApprovedAt))
	}
	if req.ReturnedAt != nil {
		fmt.Fprintf(w, "Returned:  %s\n", formatTime(req.ReturnedAt))
	}
	fmt.Fprintf(w, "Note:      %s\n", orDash(req.Note))
	if req.AdminNote != "" {
		fmt.Fprintf(w, "Admin:     %s\n", req.AdminNote)
	}

	if len(req.Items) == 0 {
		return
	}
	rows := make([][]string, 0, len(req.Items))
	for _, item := range req.Items {
		title := "-"
		if item.Book != nil {
			title = item.Book.Title
		}
		rows = append(rows, []string{strconv.FormatInt(item.BookID, 10), title, strconv.Itoa(item.Quantity)})
	}
	fmt.Fprintln(w, renderTable([]string{"Book", "Title", "Qty"}, rows))
}

// runBorrowCreate submits a request
func runBorrowCreate(ctx context.Context, api *client.Client, w io.Writer, note string, items []client.BorrowItemInput, due *client.Date, jsonOut bool) error {
	req, err := api.Borrows().Create(ctx, note, items, due)
	if err != nil {
		return err
	}
	return writeBorrowResult(w, api.Messages(), req, "Created", jsonOut)
}

// runBorrowTransition applies an admin status change
func runBorrowTransition(ctx context.Context, api *client.Client, w io.Writer, id int64, action, note string, requireEdit, jsonOut bool) error {
	var (
		req *client.BorrowRequest
		err error
	)
	switch action {
	case "approve":
		req, err = api.Borrows().Approve(ctx, id, note)
	case "reject":
		req, err = api.Borrows().Reject(ctx, id, note, requireEdit)
	case "return":
		req, err = api.Borrows().Return(ctx, id)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return err
	}
	return writeBorrowResult(w, api.Messages(), req, "Request", jsonOut)
}

func writeBorrowResult(w io.Writer, m *client.Messages, req *client.BorrowRequest, verb string, jsonOut bool) error {
	if jsonOut {
		return writeJSON(w, req)
	}
	fmt.Fprintf(w, "%s #%d: %s\n", verb, req.ID, m.StatusLabel(req.Status))
	return nil
}
