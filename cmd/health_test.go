// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ptit-library/libctl/internal/client"
)

func TestFormatHealthHuman(t *testing.T) {
	output := formatHealthHuman("http://localhost:8000", &client.Health{Status: "healthy"})

	if !strings.Contains(output, "http://localhost:8000") {
		t.Error("expected output to contain backend URL")
	}
	if !strings.Contains(output, "healthy") {
		t.Error("expected output to contain status")
	}
}

func TestRunHealth_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	if err := runHealth(context.Background(), client.New(server.URL, nil), &buf, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]string
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["backend"] != server.URL {
		t.Errorf("expected backend URL in JSON, got %v", parsed["backend"])
	}
	if parsed["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", parsed["status"])
	}
}

func TestRunHealth_Unreachable(t *testing.T) {
	var buf bytes.Buffer
	err := runHealth(context.Background(), client.New("http://localhost:99999", nil), &buf, false)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := ExitCode(err); code != ExitFailure {
		t.Errorf("expected exit code %d, got %d", ExitFailure, code)
	}
}

func TestRunHealth_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var buf bytes.Buffer
	err := runHealth(context.Background(), client.New(server.URL, nil), &buf, false)
	if code := ExitCode(err); code != ExitRejected {
		t.Errorf("expected exit code %d, got %d (%v)", ExitRejected, code, err)
	}
}
