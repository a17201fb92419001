// ABOUTME: Book catalog commands
// ABOUTME: Listing is public; create, update and delete need an admin session

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

var bookFlags struct {
	page        int
	pageSize    int
	search      string
	category    string
	title       string
	author      string
	isbn        string
	description string
	quantity    int
	coverImage  string
}

var booksCmd = &cobra.Command{
	Use:     "books",
	Aliases: []string{"book"},
	Short:   "Browse and manage the book catalog",
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		q := client.BookQuery{
			Page:     bookFlags.page,
			PageSize: pageSizeOr(bookFlags.pageSize, e),
			Search:   bookFlags.search,
			Category: bookFlags.category,
		}
		return runBooksList(ctx, e.api, os.Stdout, q, IsJSONOutput())
	}),
}

var booksGetCmd = &cobra.Command{
	Use:   "get BOOK_ID",
	Short: "Show a book",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		id, err := parseID("book", args[0])
		if err != nil {
			return err
		}
		return runBookGet(ctx, e.api, os.Stdout, id, IsJSONOutput())
	}),
}

var booksCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List book categories",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		return runCategories(ctx, e.api, os.Stdout, IsJSONOutput())
	}),
}

var booksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a book (admin)",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		in := client.BookInput{
			Title:       bookFlags.title,
			Author:      bookFlags.author,
			ISBN:        bookFlags.isbn,
			Category:    bookFlags.category,
			Description: bookFlags.description,
			Quantity:    bookFlags.quantity,
			CoverImage:  bookFlags.coverImage,
		}
		return runBookCreate(ctx, e.api, os.Stdout, in, IsJSONOutput())
	}),
}

var booksUpdateCmd = &cobra.Command{
	Use:   "update BOOK_ID",
	Short: "Change fields of a book (admin)",
	Long:  `Change fields of a book. Only the flags given are sent.`,
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("book", args[0])
		if err != nil {
			return err
		}
		return runBookUpdate(ctx, e.api, os.Stdout, id, bookUpdateFromFlags(cmd), IsJSONOutput())
	}),
}

var booksDeleteCmd = &cobra.Command{
	Use:   "delete BOOK_ID",
	Short: "Delete a book (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, e *env, cmd *cobra.Command, args []string) error {
		if err := requireLogin(e.store); err != nil {
			return err
		}
		id, err := parseID("book", args[0])
		if err != nil {
			return err
		}
		return runBookDelete(ctx, e.api, os.Stdout, id)
	}),
}

func init() {
	booksListCmd.Flags().IntVar(&bookFlags.page, "page", 1, "Page number")
	booksListCmd.Flags().IntVar(&bookFlags.pageSize, "page-size", 0, "Books per page (default from config)")
	booksListCmd.Flags().StringVarP(&bookFlags.search, "search", "s", "", "Search title, author or ISBN")
	booksListCmd.Flags().StringVarP(&bookFlags.category, "category", "c", "", "Filter by category")

	for _, c := range []*cobra.Command{booksCreateCmd, booksUpdateCmd} {
		c.Flags().StringVar(&bookFlags.title, "title", "", "Title")
		c.Flags().StringVar(&bookFlags.author, "author", "", "Author")
		c.Flags().StringVar(&bookFlags.isbn, "isbn", "", "ISBN")
		c.Flags().StringVar(&bookFlags.category, "category", "", "Category")
		c.Flags().StringVar(&bookFlags.description, "description", "", "Description")
		c.Flags().IntVar(&bookFlags.quantity, "quantity", 1, "Copies owned")
		c.Flags().StringVar(&bookFlags.coverImage, "cover-image", "", "Cover image URL")
	}
	booksCreateCmd.MarkFlagRequired("title")

	booksCmd.AddCommand(booksListCmd, booksGetCmd, booksCategoriesCmd, booksCreateCmd, booksUpdateCmd, booksDeleteCmd)
	rootCmd.AddCommand(booksCmd)
}

// pageSizeOr falls back to the configured page size
func pageSizeOr(size int, e *env) int {
	if size > 0 {
		return size
	}
	return e.cfg.PageSize
}

// bookUpdateFromFlags sets only the fields whose flags were given
func bookUpdateFromFlags(cmd *cobra.Command) client.BookUpdate {
	var upd client.BookUpdate
	flags := cmd.Flags()
	str := func(name string, v string) *string {
		if flags.Changed(name) {
			return &v
		}
		return nil
	}
	upd.Title = str("title", bookFlags.title)
	upd.Author = str("author", bookFlags.author)
	upd.ISBN = str("isbn", bookFlags.isbn)
	upd.Category = str("category", bookFlags.category)
	upd.Description = str("description", bookFlags.description)
	upd.CoverImage = str("cover-image", bookFlags.coverImage)
	if flags.Changed("quantity") {
		qty := bookFlags.quantity
		upd.Quantity = &qty
	}
	return upd
}

// runBooksList prints one page of the catalog
func runBooksList(ctx context.Context, api *client.Client, w io.Writer, q client.BookQuery, jsonOut bool) error {
	page, err := api.Books().List(ctx, q)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, page)
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No books found")
		return nil
	}

	rows := make([][]string, 0, len(page.Items))
	for _, b := range page.Items {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			orDash(b.Author),
			orDash(b.Category),
			fmt.Sprintf("%d/%d", b.AvailableQuantity, b.Quantity),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Title", "Author", "Category", "Available"}, rows))
	writePageFooter(w, page)
	return nil
}

// runBookGet prints a single book
func runBookGet(ctx context.Context, api *client.Client, w io.Writer, id int64, jsonOut bool) error {
	book, err := api.Books().Get(ctx, id)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, book)
	}
	writeBook(w, book)
	return nil
}

func writeBook(w io.Writer, b *client.Book) {
	fmt.Fprintf(w, "#%d %s\n", b.ID, b.Title)
	fmt.Fprintf(w, "Author:     %s\n", orDash(b.Author))
	fmt.Fprintf(w, "ISBN:       %s\n", orDash(b.ISBN))
	fmt.Fprintf(w, "Category:   %s\n", orDash(b.Category))
	fmt.Fprintf(w, "Available:  %d of %d\n", b.AvailableQuantity, b.Quantity)
	if b.Description != "" {
		fmt.Fprintf(w, "\n%s\n", b.Description)
	}
}

// runCategories prints the distinct categories
func runCategories(ctx context.Context, api *client.Client, w io.Writer, jsonOut bool) error {
	cats, err := api.Books().Categories(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, cats)
	}
	for _, c := range cats {
		fmt.Fprintln(w, c)
	}
	return nil
}

// runBookCreate adds a book
func runBookCreate(ctx context.Context, api *client.Client, w io.Writer, in client.BookInput, jsonOut bool) error {
	book, err := api.Books().Create(ctx, in)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, book)
	}
	fmt.Fprintf(w, "Created book #%d %s\n", book.ID, book.Title)
	return nil
}

// runBookUpdate changes a book
func runBookUpdate(ctx context.Context, api *client.Client, w io.Writer, id int64, upd client.BookUpdate, jsonOut bool) error {
	book, err := api.Books().Update(ctx, id, upd)
	if err != nil {
		return err
	}
	if jsonOut {
		return writeJSON(w, book)
	}
	fmt.Fprintf(w, "Updated book #%d %s\n", book.ID, book.Title)
	return nil
}

// runBookDelete deletes a book
func runBookDelete(ctx context.Context, api *client.Client, w io.Writer, id int64) error {
	if err := api.Books().Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted book #%d\n", id)
	return nil
}
