// ABOUTME: Wishlist endpoints for the authenticated user
// ABOUTME: Items are keyed by book ID; a quantity of zero or less removes the item

package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// WishlistClient groups the /wishlist endpoints
type WishlistClient struct {
	c *Client
}

// Get returns the current user's wishlist
func (w *WishlistClient) Get(ctx context.Context) (*Wishlist, error) {
	list, err := send[Wishlist](ctx, w.c, call{
		method: http.MethodGet,
		url:    w.c.apiURL("/wishlist"),
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []WishlistItem{}
	}
	return list, nil
}

// Add puts a book on the wishlist. Quantities below one are sent as one.
func (w *WishlistClient) Add(ctx context.Context, bookID int64, quantity int) (*WishlistItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	return send[WishlistItem](ctx, w.c, call{
		method: http.MethodPost,
		url:    w.c.apiURL("/wishlist"),
		payload: struct {
			BookID   int64 `json:"book_id"`
			Quantity int   `json:"quantity"`
		}{bookID, quantity},
		auth: true,
	})
}

// Update sets the quantity of a wishlist item. It returns nil when the server
// removed the item instead.
func (w *WishlistClient) Update(ctx context.Context, bookID int64, quantity int) (*WishlistItem, error) {
	raw, err := w.c.do(ctx, call{
		method: http.MethodPut,
		url:    w.c.apiURL(fmt.Sprintf("/wishlist/%d", bookID)),
		payload: struct {
			Quantity int `json:"quantity"`
		}{quantity},
		auth: true,
	})
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("{}")) {
		return nil, nil
	}
	return decode[WishlistItem](w.c, raw, "/wishlist")
}

// Remove takes a book off the wishlist
func (w *WishlistClient) Remove(ctx context.Context, bookID int64) error {
	return w.c.exec(ctx, call{
		method: http.MethodDelete,
		url:    w.c.apiURL(fmt.Sprintf("/wishlist/%d", bookID)),
		auth:   true,
	})
}

// Clear removes every item from the wishlist
func (w *WishlistClient) Clear(ctx context.Context) error {
	return w.c.exec(ctx, call{
		method: http.MethodDelete,
		url:    w.c.apiURL("/wishlist"),
		auth:   true,
	})
}
