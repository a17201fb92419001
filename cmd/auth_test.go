// ABOUTME: Tests for login, logout, whoami and register commands
// ABOUTME: Runs the command bodies against an httptest backend with an in-memory session

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/session"
)

func TestRunLogin_StoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostForm.Get("username") != "an" || r.PostForm.Get("password") != "secret1" {
			t.Errorf("unexpected credentials %v", r.PostForm)
		}
		reply(http.StatusOK, `{"access_token":"t1","token_type":"bearer","user":{"id":7,"username":"an","full_name":"Nguyễn Văn An","role":"user"}}`)(w, r)
	})
	e := newTestEnv(t, mux)

	var buf bytes.Buffer
	if err := runLogin(context.Background(), e.store, e.api.Auth(), &buf, "an", "secret1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.store.Token() != "t1" {
		t.Errorf("expected stored token t1, got %q", e.store.Token())
	}
	if !strings.Contains(buf.String(), "Nguyễn Văn An") {
		t.Errorf("expected display name in output, got %q", buf.String())
	}
}

func TestRunLogin_Rejected(t *testing.T) {
	e := newTestEnv(t, reply(http.StatusUnauthorized, `{"detail":"Sai tên đăng nhập hoặc mật khẩu"}`))

	var buf bytes.Buffer
	err := runLogin(context.Background(), e.store, e.api.Auth(), &buf, "an", "wrong", false)
	if err == nil || err.Error() != "Sai tên đăng nhập hoặc mật khẩu" {
		t.Fatalf("unexpected error: %v", err)
	}
	if ExitCode(err) != ExitRejected {
		t.Errorf("expected exit code %d, got %d", ExitRejected, ExitCode(err))
	}
	if session.IsLoggedIn(e.store) {
		t.Error("rejected login should not store a session")
	}
}

func TestRunLogout(t *testing.T) {
	e := newTestEnv(t, http.NotFoundHandler())
	signIn(t, e, client.RoleUser)

	var buf bytes.Buffer
	if err := runLogout(e.store, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.IsLoggedIn(e.store) {
		t.Error("expected session to be cleared")
	}

	buf.Reset()
	if err := runLogout(e.store, &buf); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if !strings.Contains(buf.String(), "Not signed in") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunWhoami_NotLoggedIn(t *testing.T) {
	e := newTestEnv(t, http.NotFoundHandler())

	err := runWhoami(context.Background(), e, &bytes.Buffer{}, false, time.Now())
	if !errors.Is(err, errNotLoggedIn) {
		t.Fatalf("expected errNotLoggedIn, got %v", err)
	}
	if ExitCode(err) != ExitFailure {
		t.Errorf("expected exit code %d", ExitFailure)
	}
}

func TestRunWhoami_ShowsExpiry(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	claims := session.TokenClaims{
		UserID: 7,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "an",
			ExpiresAt: jwt.NewNumericDate(now.Add(90 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var gotAuth string
	e := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		reply(http.StatusOK, `{"id":7,"username":"an","email":"an@example.com","role":"user","is_active":true}`)(w, r)
	}))
	if err := e.store.Set(token, nil); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var buf bytes.Buffer
	if err := runWhoami(context.Background(), e, &buf, false, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer "+token {
		t.Errorf("expected stored token to be sent, got %q", gotAuth)
	}
	out := buf.String()
	if !strings.Contains(out, "an@example.com") {
		t.Errorf("expected email in output: %q", out)
	}
	if !strings.Contains(out, "expires in 1h30m0s") {
		t.Errorf("expected expiry in output: %q", out)
	}
}

func TestRunWhoami_JSON(t *testing.T) {
	e := newTestEnv(t, reply(http.StatusOK, `{"id":7,"username":"an","role":"admin"}`))
	signIn(t, e, client.RoleAdmin)

	var buf bytes.Buffer
	if err := runWhoami(context.Background(), e, &buf, true, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out whoami
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !out.User.IsAdmin() {
		t.Errorf("expected admin user, got %+v", out.User)
	}
	if out.ExpiresAt != nil {
		t.Error("opaque token should have no expiry")
	}
}

func TestRunRegister_SignsIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in client.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		if in.Email != "binh@example.com" {
			t.Errorf("unexpected payload %+v", in)
		}
		reply(http.StatusCreated, `{"id":8,"username":"binh","role":"user"}`)(w, r)
	})
	mux.HandleFunc("POST /api/auth/login", reply(http.StatusOK, `{"access_token":"t2","token_type":"bearer"}`))
	mux.HandleFunc("GET /api/auth/me", reply(http.StatusOK, `{"id":8,"username":"binh","role":"user"}`))
	e := newTestEnv(t, mux)

	in := client.RegisterInput{Username: "binh", Email: "binh@example.com", Password: "secret1"}
	var buf bytes.Buffer
	if err := runRegister(context.Background(), e.store, e.api.Auth(), &buf, in, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.store.Token() != "t2" || e.store.User().Username != "binh" {
		t.Errorf("unexpected session %q %+v", e.store.Token(), e.store.User())
	}
}

func TestResolveCredentials_Stdin(t *testing.T) {
	user, pw, err := resolveCredentials(strings.NewReader("p@ss word\n"), "an", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != "an" || pw != "p@ss word" {
		t.Errorf("got %q %q", user, pw)
	}

	if _, _, err := resolveCredentials(strings.NewReader("x\n"), "", true); err == nil {
		t.Error("expected error without username")
	}
	if _, _, err := resolveCredentials(strings.NewReader(""), "an", true); err == nil {
		t.Error("expected error for empty stdin")
	}
}
