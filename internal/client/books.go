// ABOUTME: Book catalog endpoints
// ABOUTME: Listing and lookups are public; writes require an admin session

package client

import (
	"context"
	"fmt"
	"net/http"
)

// BooksClient groups the /books endpoints
type BooksClient struct {
	c *Client
}

// BookQuery filters the catalog listing. Empty filters are not sent.
type BookQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

// List returns one page of the catalog
func (b *BooksClient) List(ctx context.Context, q BookQuery) (*Page[Book], error) {
	page, err := send[Page[Book]](ctx, b.c, call{
		method: http.MethodGet,
		url:    b.c.apiURL("/books"),
		query: listQuery(q.Page, q.PageSize,
			filter{"search", q.Search},
			filter{"category", q.Category},
		),
	})
	if err != nil {
		return nil, err
	}
	page.ensureItems()
	return page, nil
}

// Get returns a single book
func (b *BooksClient) Get(ctx context.Context, id int64) (*Book, error) {
	return send[Book](ctx, b.c, call{
		method: http.MethodGet,
		url:    b.c.apiURL(fmt.Sprintf("/books/%d", id)),
	})
}

// Categories returns the distinct categories in the catalog
func (b *BooksClient) Categories(ctx context.Context) ([]string, error) {
	cats, err := send[[]string](ctx, b.c, call{
		method: http.MethodGet,
		url:    b.c.apiURL("/books/categories"),
	})
	if err != nil {
		return nil, err
	}
	if *cats == nil {
		return []string{}, nil
	}
	return *cats, nil
}

// Create adds a book to the catalog
func (b *BooksClient) Create(ctx context.Context, in BookInput) (*Book, error) {
	return send[Book](ctx, b.c, call{
		method:  http.MethodPost,
		url:     b.c.apiURL("/books"),
		payload: in,
		auth:    true,
	})
}

// Update changes the fields set in upd
func (b *BooksClient) Update(ctx context.Context, id int64, upd BookUpdate) (*Book, error) {
	return send[Book](ctx, b.c, call{
		method:  http.MethodPut,
		url:     b.c.apiURL(fmt.Sprintf("/books/%d", id)),
		payload: upd,
		auth:    true,
	})
}

// Delete removes a book
func (b *BooksClient) Delete(ctx context.Context, id int64) error {
	return b.c.exec(ctx, call{
		method: http.MethodDelete,
		url:    b.c.apiURL(fmt.Sprintf("/books/%d", id)),
		auth:   true,
	})
}
