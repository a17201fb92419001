// ABOUTME: Tests for the books resource client
// ABOUTME: Verifies paths, query filters, auth headers and error propagation

package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBooksList_QueryAndPublicAccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/books" {
			t.Errorf("expected path /api/books, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("book listing should be public")
		}
		q := r.URL.Query()
		if q.Get("page") != "3" || q.Get("page_size") != "5" {
			t.Errorf("unexpected pagination: %v", q)
		}
		if q.Get("search") != "golang" {
			t.Errorf("expected search=golang, got %q", q.Get("search"))
		}
		if _, ok := q["category"]; ok {
			t.Error("empty category should not be sent")
		}
		w.Write([]byte(`{"items":[{"id":1,"title":"The Go Programming Language","quantity":3,"available_quantity":2}],"total":11,"page":3,"page_size":5}`))
	}))
	defer server.Close()

	c := New(server.URL, staticToken("t1"))
	page, err := c.Books().List(context.Background(), BookQuery{Page: 3, PageSize: 5, Search: "golang"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].AvailableQuantity != 2 {
		t.Errorf("unexpected items: %+v", page.Items)
	}
	if page.Pages() != 3 {
		t.Errorf("expected 3 pages, got %d", page.Pages())
	}
}

func TestBooksList_EmptyPageHasItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":null,"total":0,"page":1,"page_size":10}`))
	}))
	defer server.Close()

	page, err := New(server.URL, nil).Books().List(context.Background(), BookQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Items == nil {
		t.Error("expected empty, non-nil items")
	}
}

func TestBooksDelete_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/books/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			t.Errorf("expected admin token, got %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Book not found"}`))
	}))
	defer server.Close()

	err := New(server.URL, staticToken("admin-token")).Books().Delete(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsRequestError(err) {
		t.Errorf("expected RequestError, got %T", err)
	}
	if err.Error() != "Book not found" {
		t.Errorf("expected %q, got %q", "Book not found", err.Error())
	}
}

func TestBooksDelete_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL, staticToken("t")).Books().Delete(context.Background(), 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBooksUpdate_SendsOnlySetFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/books/7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"quantity":0}` {
			t.Errorf("unexpected body %s", body)
		}
		w.Write([]byte(`{"id":7,"title":"Go","quantity":0}`))
	}))
	defer server.Close()

	qty := 0
	book, err := New(server.URL, staticToken("t")).Books().Update(context.Background(), 7, BookUpdate{Quantity: &qty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.ID != 7 {
		t.Errorf("expected book 7, got %d", book.ID)
	}
}

func TestBooksCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var in BookInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Book{ID: 9, Title: in.Title, Quantity: in.Quantity})
	}))
	defer server.Close()

	book, err := New(server.URL, staticToken("t")).Books().Create(context.Background(), BookInput{Title: "Dế Mèn", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.ID != 9 || book.Title != "Dế Mèn" {
		t.Errorf("unexpected book %+v", book)
	}
}

func TestBooksCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/books/categories" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`["Văn học","Khoa học"]`))
	}))
	defer server.Close()

	cats, err := New(server.URL, nil).Books().Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 2 || cats[1] != "Khoa học" {
		t.Errorf("unexpected categories %v", cats)
	}
}
