// ABOUTME: Authentication endpoints: login, self-registration and current profile
// ABOUTME: Login is form-encoded and never sends the session token

package client

import (
	"context"
	"net/http"
	"net/url"
)

// AuthClient groups the /auth endpoints
type AuthClient struct {
	c *Client
}

// Login exchanges credentials for an access token. The token is returned to
// the caller and never stored by the client.
func (a *AuthClient) Login(ctx context.Context, username, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	return send[Token](ctx, a.c, call{
		method: http.MethodPost,
		url:    a.c.apiURL("/auth/login"),
		form:   form,
	})
}

// Register creates a new user account
func (a *AuthClient) Register(ctx context.Context, in RegisterInput) (*User, error) {
	return send[User](ctx, a.c, call{
		method:  http.MethodPost,
		url:     a.c.apiURL("/auth/register"),
		payload: in,
	})
}

// Me fetches the profile of the authenticated user
func (a *AuthClient) Me(ctx context.Context) (*User, error) {
	return send[User](ctx, a.c, call{
		method: http.MethodGet,
		url:    a.c.apiURL("/auth/me"),
		auth:   true,
	})
}
