// ABOUTME: File-backed slog logger for the TUI
// ABOUTME: Keeps log output off the terminal while the TUI owns the screen

package debuglog

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the log file created in the config directory
const FileName = "debug.log"

var (
	mu       sync.Mutex
	logFile  *os.File
	previous *slog.Logger
)

// Init redirects the default slog logger to debug.log in configDir.
// If configDir is empty, logging is discarded until Close.
func Init(configDir string, level slog.Level) error {
	mu.Lock()
	defer mu.Unlock()

	if previous == nil {
		previous = slog.Default()
	}

	if configDir == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return err
	}

	logFile = f
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return nil
}

// Close restores the previous default logger and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if previous != nil {
		slog.SetDefault(previous)
		previous = nil
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Error logs an error with context
func Error(context string, err error) {
	if err == nil {
		return
	}
	slog.Error("TUI error", "context", context, "error", err)
}
