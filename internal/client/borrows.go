// ABOUTME: Borrow request endpoints: listing, user edits and admin transitions
// ABOUTME: Optional payload fields are omitted entirely rather than sent as null

package client

import (
	"context"
	"fmt"
	"net/http"
)

// BorrowsClient groups the /borrows endpoints
type BorrowsClient struct {
	c *Client
}

// BorrowQuery filters the borrow request listing. Empty filters are not sent.
type BorrowQuery struct {
	Page     int
	PageSize int
	Status   BorrowStatus
	Search   string
}

type createBorrowBody struct {
	Note    string            `json:"note"`
	Items   []BorrowItemInput `json:"items,omitempty"`
	DueDate *Date             `json:"due_date,omitempty"`
}

type updateBorrowBody struct {
	Note    string            `json:"note"`
	Items   []BorrowItemInput `json:"items"`
	DueDate *Date             `json:"due_date,omitempty"`
}

type rejectBody struct {
	AdminNote   string `json:"admin_note"`
	RequireEdit bool   `json:"require_edit"`
}

// List returns one page of borrow requests. Admins see every user's requests.
func (b *BorrowsClient) List(ctx context.Context, q BorrowQuery) (*Page[BorrowRequest], error) {
	page, err := send[Page[BorrowRequest]](ctx, b.c, call{
		method: http.MethodGet,
		url:    b.c.apiURL("/borrows"),
		query: listQuery(q.Page, q.PageSize,
			filter{"status_filter", string(q.Status)},
			filter{"search", q.Search},
		),
		auth: true,
	})
	if err != nil {
		return nil, err
	}
	page.ensureItems()
	return page, nil
}

// Get returns a single borrow request
func (b *BorrowsClient) Get(ctx context.Context, id int64) (*BorrowRequest, error) {
	return send[BorrowRequest](ctx, b.c, call{
		method: http.MethodGet,
		url:    b.borrowURL(id, ""),
		auth:   true,
	})
}

// Create submits a new borrow request. With no items the server builds the
// request from the wishlist.
func (b *BorrowsClient) Create(ctx context.Context, note string, items []BorrowItemInput, dueDate *Date) (*BorrowRequest, error) {
	return send[BorrowRequest](ctx, b.c, call{
		method:  http.MethodPost,
		url:     b.c.apiURL("/borrows"),
		payload: createBorrowBody{Note: note, Items: items, DueDate: dueDate},
		auth:    true,
	})
}

// Update edits a pending or need_edit request, which returns it to pending
func (b *BorrowsClient) Update(ctx context.Context, id int64, note string, items []BorrowItemInput, dueDate *Date) (*BorrowRequest, error) {
	if items == nil {
		items = []BorrowItemInput{}
	}
	return send[BorrowRequest](ctx, b.c, call{
		method:  http.MethodPut,
		url:     b.borrowURL(id, ""),
		payload: updateBorrowBody{Note: note, Items: items, DueDate: dueDate},
		auth:    true,
	})
}

// Approve moves a pending request to approved
func (b *BorrowsClient) Approve(ctx context.Context, id int64, adminNote string) (*BorrowRequest, error) {
	return send[BorrowRequest](ctx, b.c, call{
		method:  http.MethodPut,
		url:     b.borrowURL(id, "/approve"),
		payload: map[string]string{"admin_note": adminNote},
		auth:    true,
	})
}

// Reject moves a pending request to rejected, or to need_edit when requireEdit is set
func (b *BorrowsClient) Reject(ctx context.Context, id int64, adminNote string, requireEdit bool) (*BorrowRequest, error) {
	return send[BorrowRequest](ctx, b.c, call{
		method:  http.MethodPut,
		url:     b.borrowURL(id, "/reject"),
		payload: rejectBody{AdminNote: adminNote, RequireEdit: requireEdit},
		auth:    true,
	})
}

// Return marks the books of an approved request as returned
func (b *BorrowsClient) Return(ctx context.Context, id int64) (*BorrowRequest, error) {
	return send[BorrowRequest](ctx, b.c, call{
		method: http.MethodPut,
		url:    b.borrowURL(id, "/return"),
		auth:   true,
	})
}

// Delete removes a borrow request
func (b *BorrowsClient) Delete(ctx context.Context, id int64) error {
	return b.c.exec(ctx, call{
		method: http.MethodDelete,
		url:    b.borrowURL(id, ""),
		auth:   true,
	})
}

func (b *BorrowsClient) borrowURL(id int64, action string) string {
	return b.c.apiURL(fmt.Sprintf("/borrows/%d%s", id, action))
}
