// ABOUTME: Sign-in, sign-up and sign-out flows that write the session
// ABOUTME: The API client never writes the session itself

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ptit-library/libctl/internal/client"
)

// Authenticator is the subset of the auth client the flows need
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*client.Token, error)
	Register(ctx context.Context, in client.RegisterInput) (*client.User, error)
	Me(ctx context.Context) (*client.User, error)
}

var _ Authenticator = (*client.AuthClient)(nil)

// ErrEmptyToken is returned when the server accepts a login without issuing a token
var ErrEmptyToken = errors.New("server returned an empty access token")

// SignIn logs in, stores the token and then the user's profile. The profile
// is fetched with the new token unless the login response already carried it.
// If the profile cannot be fetched the session is cleared again.
func SignIn(ctx context.Context, s Store, auth Authenticator, username, password string) (*client.User, error) {
	tok, err := auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, ErrEmptyToken
	}

	if err := s.Set(tok.AccessToken, tok.User); err != nil {
		return nil, err
	}
	if tok.User != nil {
		slog.Info("Signed in", "username", tok.User.Username)
		return tok.User, nil
	}

	user, err := auth.Me(ctx)
	if err != nil {
		if clearErr := s.Clear(); clearErr != nil {
			slog.Warn("Failed to clear session", "error", clearErr)
		}
		return nil, err
	}
	if err := s.Set(tok.AccessToken, user); err != nil {
		return nil, err
	}
	slog.Info("Signed in", "username", user.Username)
	return user, nil
}

// SignUp registers a new account and signs in with it
func SignUp(ctx context.Context, s Store, auth Authenticator, in client.RegisterInput) (*client.User, error) {
	if _, err := auth.Register(ctx, in); err != nil {
		return nil, err
	}
	user, err := SignIn(ctx, s, auth, in.Username, in.Password)
	if err != nil {
		return nil, fmt.Errorf("account created but sign-in failed: %w", err)
	}
	return user, nil
}

// SignOut clears the session
func SignOut(s Store) error {
	if err := s.Clear(); err != nil {
		return err
	}
	slog.Info("Signed out")
	return nil
}
