// ABOUTME: Request and response types for the library API
// ABOUTME: Field names follow the backend's JSON contract

package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role gates admin-only behavior
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the profile returned by /auth/me and /users
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	FullName  string     `json:"full_name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers the full name over the username
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Token is the login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// RegisterInput is the self-registration payload
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UserUpdate carries only the fields to change
type UserUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Book is a catalog entry
type Book struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Author            string     `json:"author,omitempty"`
	ISBN              string     `json:"isbn,omitempty"`
	Category          string     `json:"category,omitempty"`
	Description       string     `json:"description,omitempty"`
	Quantity          int        `json:"quantity"`
	AvailableQuantity int        `json:"available_quantity"`
	CoverImage        string     `json:"cover_image,omitempty"`
	CreatedAt         *Timestamp `json:"created_at,omitempty"`
	UpdatedAt         *Timestamp `json:"updated_at,omitempty"`
}

// BookInput is the create payload
type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	CoverImage  string `json:"cover_image,omitempty"`
}

// BookUpdate carries only the fields to change
type BookUpdate struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	ISBN        *string `json:"isbn,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
	CoverImage  *string `json:"cover_image,omitempty"`
}

// Page is the envelope of every list endpoint.
// Partial marks a page built from a bare array: Total is unknown and left at zero.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages,omitempty"`
	Partial    bool `json:"partial,omitempty"`
}

// Pages returns the number of pages, computing it when the server omits it.
// It is zero for a partial page.
func (p *Page[T]) Pages() int {
	if p.Partial {
		return 0
	}
	if p.TotalPages > 0 {
		return p.TotalPages
	}
	if p.PageSize <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// HasMore reports whether a page after this one may exist. Without a total,
// a full page is taken to mean there is more.
func (p *Page[T]) HasMore() bool {
	if p.Partial {
		return p.PageSize > 0 && len(p.Items) >= p.PageSize
	}
	return p.Page < p.Pages()
}

// ensureItems makes an empty page carry an empty, non-nil slice
func (p *Page[T]) ensureItems() {
	if p.Items == nil {
		p.Items = []T{}
	}
}

// WishlistItem is one book in the current user's wishlist, keyed by book ID
type WishlistItem struct {
	ID       int64      `json:"id,omitempty"`
	BookID   int64      `json:"book_id"`
	Quantity int        `json:"quantity"`
	AddedAt  *Timestamp `json:"added_at,omitempty"`
	Book     *Book      `json:"book,omitempty"`
}

// Wishlist is the GET /wishlist envelope
type Wishlist struct {
	Items      []WishlistItem `json:"items"`
	TotalItems int            `json:"total_items"`
}

// BorrowItemInput is one requested book in a borrow request payload
type BorrowItemInput struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// BorrowItem is one line of a borrow request
type BorrowItem struct {
	ID       int64 `json:"id,omitempty"`
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
	Book     *Book `json:"book,omitempty"`
}

// BorrowRequest is a request to borrow one or more books.
// Status is owned by the server.
type BorrowRequest struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	Status     BorrowStatus `json:"status"`
	Note       string       `json:"note,omitempty"`
	AdminNote  string       `json:"admin_note,omitempty"`
	CreatedAt  *Timestamp   `json:"created_at,omitempty"`
	ApprovedAt *Timestamp   `json:"approved_at,omitempty"`
	DueDate    *Date        `json:"due_date,omitempty"`
	ReturnedAt *Timestamp   `json:"returned_at,omitempty"`
	Items      []BorrowItem `json:"items"`
	User       *User        `json:"user,omitempty"`
}

// TotalBooks sums item quantities
func (b *BorrowRequest) TotalBooks() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}

// Ack is a bare confirmation message
type Ack struct {
	Message string `json:"message"`
}

// Health is the /health response
type Health struct {
	Status string `json:"status"`
}

// dateLayout is the backend's calendar date format
const dateLayout = "2006-01-02"

// timestampLayouts covers zoned and naive server timestamps
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Some serializers emit a full timestamp for date columns
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Timestamp accepts both zoned and naive ISO-8601 server timestamps
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{parsed}
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
