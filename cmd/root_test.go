// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies exit codes and configuration precedence

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ptit-library/libctl/internal/client"
	"github.com/ptit-library/libctl/internal/config"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"rejected", &client.RequestError{Message: "Không tìm thấy sách"}, ExitRejected},
		{"wrapped rejection", fmt.Errorf("summary: %w", &client.RequestError{Message: "x"}), ExitRejected},
		{"not logged in", errNotLoggedIn, ExitFailure},
		{"transport", errors.New("cannot connect to backend"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// resetFlags clears global flags and isolates config lookup
func resetFlags(t *testing.T) {
	t.Helper()
	apiURL, configPath, langFlag, logLevel = "", "", "", ""
	t.Cleanup(func() {
		apiURL, configPath, langFlag, logLevel = "", "", "", ""
	})
	for _, key := range []string{config.EnvAPIURL, config.EnvLang, config.EnvTimeout, config.EnvPageSize,
		config.EnvConfig, config.EnvLogLevel, config.EnvLogFormat} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoadConfig_Default(t *testing.T) {
	resetFlags(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("expected default URL http://localhost:8000, got %s", cfg.APIURL)
	}
	if cfg.Lang != "vi" {
		t.Errorf("expected default lang vi, got %s", cfg.Lang)
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv(config.EnvAPIURL, "http://env.example.com")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://env.example.com" {
		t.Errorf("expected env URL, got %s", cfg.APIURL)
	}

	apiURL = "flag.example.com:9000/"
	cfg, err = loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://flag.example.com:9000" {
		t.Errorf("expected flag URL with scheme, got %s", cfg.APIURL)
	}
}

func TestLoadConfig_InvalidLang(t *testing.T) {
	resetFlags(t)
	langFlag = "fr"

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestNewClient_UsesLanguage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Lang = "en"
	c := newClient(cfg, nil)
	if c.Messages() != client.English {
		t.Error("expected English catalog")
	}
}

func TestRunConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libctl", "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Lang = "en"
	cfg.Timeout = 15 * time.Second

	var buf bytes.Buffer
	if err := runConfigInit(cfg, path, false, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "lang: en") || !strings.Contains(string(data), "timeout: 15s") {
		t.Errorf("unexpected config file:\n%s", data)
	}

	if err := runConfigInit(cfg, path, false, &buf); err == nil {
		t.Error("expected error when file exists")
	}
	if err := runConfigInit(cfg, path, true, &buf); err != nil {
		t.Errorf("forced overwrite failed: %v", err)
	}
}

func TestRunConfigShow(t *testing.T) {
	var buf bytes.Buffer
	if err := runConfigShow(config.DefaultConfig(), "", &buf, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"File:        -", "http://localhost:8000", "Timeout:     none", "Page size:   10"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"login"}, {"logout"}, {"whoami"}, {"register"}, {"health"}, {"summary"}, {"browse"},
		{"books", "list"}, {"books", "delete"},
		{"users", "reset-password"},
		{"wishlist", "clear"},
		{"borrows", "reject"}, {"borrows", "return"},
		{"config", "init"},
	} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil || cmd.Name() != path[len(path)-1] {
			t.Errorf("command %v not registered: %v", path, err)
		}
	}
}
