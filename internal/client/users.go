// ABOUTME: User administration endpoints
// ABOUTME: Every call is authenticated; the server enforces the admin role

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// UsersClient groups the /users endpoints
type UsersClient struct {
	c *Client
}

// UserQuery filters the user listing. Empty filters are not sent.
type UserQuery struct {
	Page     int
	PageSize int
	Search   string
	Role     Role
}

// List returns one page of users. A bare array answer becomes a partial
// page carrying the requested page number and size.
func (u *UsersClient) List(ctx context.Context, q UserQuery) (*Page[User], error) {
	query := listQuery(q.Page, q.PageSize,
		filter{"search", q.Search},
		filter{"role", string(q.Role)},
	)
	raw, err := u.c.do(ctx, call{
		method: http.MethodGet,
		url:    u.c.apiURL("/users"),
		query:  query,
		auth:   true,
	})
	if err != nil {
		return nil, err
	}

	page, err := decodeUserPage(raw)
	if err != nil {
		slog.Debug("Unexpected response shape", "url", "/users", "error", err)
		return nil, &RequestError{Message: u.c.messages.InvalidResponse}
	}
	if page.Page == 0 {
		page.Page = max(q.Page, DefaultPage)
	}
	if page.PageSize == 0 {
		page.PageSize = max(q.PageSize, DefaultPageSize)
	}
	page.ensureItems()
	return page, nil
}

func decodeUserPage(raw json.RawMessage) (*Page[User], error) {
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var users []User
		if err := json.Unmarshal(raw, &users); err != nil {
			return nil, err
		}
		return &Page[User]{Items: users, Partial: true}, nil
	}
	var page Page[User]
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single user
func (u *UsersClient) Get(ctx context.Context, id int64) (*User, error) {
	return send[User](ctx, u.c, call{
		method: http.MethodGet,
		url:    u.c.apiURL(fmt.Sprintf("/users/%d", id)),
		auth:   true,
	})
}

// Update changes the fields set in upd
func (u *UsersClient) Update(ctx context.Context, id int64, upd UserUpdate) (*User, error) {
	return send[User](ctx, u.c, call{
		method:  http.MethodPut,
		url:     u.c.apiURL(fmt.Sprintf("/users/%d", id)),
		payload: upd,
		auth:    true,
	})
}

// ResetPassword sets a new password for the user
func (u *UsersClient) ResetPassword(ctx context.Context, id int64, newPassword string) (*Ack, error) {
	return send[Ack](ctx, u.c, call{
		method:  http.MethodPut,
		url:     u.c.apiURL(fmt.Sprintf("/users/%d/reset-password", id)),
		payload: map[string]string{"new_password": newPassword},
		auth:    true,
	})
}

// Delete removes a user
func (u *UsersClient) Delete(ctx context.Context, id int64) error {
	return u.c.exec(ctx, call{
		method: http.MethodDelete,
		url:    u.c.apiURL(fmt.Sprintf("/users/%d", id)),
		auth:   true,
	})
}
