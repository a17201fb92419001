// ABOUTME: Tests for the wishlist resource client
// ABOUTME: Covers quantity defaults and server-side removal on update

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWishlistAdd_DefaultsQuantity(t *testing.T) {
	var got capturedRequest
	server := captureServer(t, `{"id":1,"book_id":3,"quantity":1}`, &got)

	item, err := New(server.URL, staticToken("t")).Wishlist().Add(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.body != `{"book_id":3,"quantity":1}` {
		t.Errorf("unexpected body %s", got.body)
	}
	if item.BookID != 3 {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestWishlistUpdate_RemovedReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/wishlist/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	item, err := New(server.URL, staticToken("t")).Wishlist().Update(context.Background(), 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil item, got %+v", item)
	}
}

func TestWishlistUpdate_ReturnsItem(t *testing.T) {
	var got capturedRequest
	server := captureServer(t, `{"id":1,"book_id":3,"quantity":4}`, &got)

	item, err := New(server.URL, staticToken("t")).Wishlist().Update(context.Background(), 3, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.body != `{"quantity":4}` {
		t.Errorf("unexpected body %s", got.body)
	}
	if item == nil || item.Quantity != 4 {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestWishlistGetAndClear(t *testing.T) {
	var got capturedRequest
	server := captureServer(t, `{"items":[{"book_id":1,"quantity":2,"book":{"id":1,"title":"Go"}}],"total_items":2}`, &got)

	w := New(server.URL, staticToken("t")).Wishlist()
	list, err := w.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.TotalItems != 2 || list.Items[0].Book.Title != "Go" {
		t.Errorf("unexpected wishlist %+v", list)
	}

	if err := w.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodDelete || got.path != "/api/wishlist" {
		t.Errorf("unexpected request %s %s", got.method, got.path)
	}
}

func TestWishlistRemove_Unauthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("expected no token")
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Not authenticated"}`))
	}))
	defer server.Close()

	err := New(server.URL, nil).Wishlist().Remove(context.Background(), 3)
	if err == nil || err.Error() != "Not authenticated" {
		t.Errorf("unexpected error %v", err)
	}
}
