// ABOUTME: Wishlist commands for the signed-in user
// ABOUTME: Books are referenced by book ID

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ptit-library/libctl/internal/client"
)

var wishlistQuantity int

var wishlistCmd = &cobra.Command{
	Use:     "wishlist",
	Aliases: []string{"wl"},
	Short:   "Manage your wishlist",
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your wishlist",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		return runWishlistList(ctx, e.api, os.Stdout, IsJSONOutput())
	}),
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add BOOK_ID",
	Short: "Add a book to your wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("book", args[0])
		if err != nil {
			return err
		}
		return runWishlistAdd(ctx, e.api, os.Stdout, id, wishlistQuantity, IsJSONOutput())
	}),
}

var wishlistUpdateCmd = &cobra.Command{
	Use:   "update BOOK_ID QUANTITY",
	Short: "Set the quantity of a wishlist item (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("book", args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return runWishlistUpdate(ctx, e.api, os.Stdout, id, qty, IsJSONOutput())
	}),
}

var wishlistRemoveCmd = &cobra.Command{
	Use:     "remove BOOK_ID",
	Aliases: []string{"rm"},
	Short:   "Remove a book from your wishlist",
	Args:    cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("book", args[0])
		if err != nil {
			return err
		}
		if err := e.api.Wishlist().Remove(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed book #%d from wishlist\n", id)
		return nil
	}),
}

var wishlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty your wishlist",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		if err := e.api.Wishlist().Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Wishlist cleared")
		return nil
	}),
}

func init() {
	wishlistAddCmd.Flags().IntVarP(&wishlistQuantity, "quantity", "q", 1, "Copies wanted")

	wishlistCmd.AddCommand(wishlistListCmd, wishlistAddCmd, wishlistUpdateCmd, wishlistRemoveCmd, wishlistClearCmd)
	rootCmd.AddCommand(wishlistCmd)
}

// runWishlistList prints the wishlist
func runWishlistList(ctx context.Context, api *client.Client, w io.Writer, jsonOut bool) error {
	list, err := api.Wishlist().Get(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, list)
	}
	if len(list.Items) == 0 {
		fmt.Fprintln(w, "Your wishlist is empty")
		return nil
	}

	rows := make([][]string, 0, len(list.Items))
	for _, item := range list.Items {
		title, available := "-", "-"
		if item.Book != nil {
			title = item.Book.Title
			available = strconv.Itoa(item.Book.AvailableQuantity)
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.BookID, 10),
			title,
			strconv.Itoa(item.Quantity),
			available,
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Book", "Title", "Qty", "Available"}, rows))
	fmt.Fprintf(w, "Total: %d\n", list.TotalItems)
	return nil
}

// runWishlistAdd adds a book
func runWishlistAdd(ctx context.Context, api *client.Client, w io.Writer, bookID int64, qty int, jsonOut bool) error {
	item, err := api.Wishlist().Add(ctx, bookID, qty)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, item)
	}
	fmt.Fprintf(w, "Added book #%d (x%d) to wishlist\n", item.BookID, item.Quantity)
	return nil
}

// runWishlistUpdate sets an item quantity, reporting removal when the server drops it
func runWishlistUpdate(ctx context.Context, api *client.Client, w io.Writer, bookID int64, qty int, jsonOut bool) error {
	item, err := api.Wishlist().Update(ctx, bookID, qty)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, item)
	}
	if item == nil {
		fmt.Fprintf(w, "Removed book #%d from wishlist\n", bookID)
		return nil
	}
	fmt.Fprintf(w, "Book #%d quantity set to %d\n", item.BookID, item.Quantity)
	return nil
}
