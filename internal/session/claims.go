// ABOUTME: Unverified decoding of access token claims
// ABOUTME: Used only for display and expiry hints; the server verifies signatures

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims the backend puts in its access tokens
type TokenClaims struct {
	UserID int64  `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes token without verifying its signature
func ParseClaims(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// Username returns the subject, which the backend sets to the username
func (c *TokenClaims) Username() string {
	return c.Subject
}

// Expired reports whether the token has passed its exp claim at now.
// Tokens without exp never expire.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}

// Remaining returns the time left before expiry, zero when expired or unknown
func (c *TokenClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}
