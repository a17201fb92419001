// ABOUTME: Icon set with Nerd Font, Unicode and plain ASCII renderings
// ABOUTME: The mode is picked once from LIBCTL_ICONS or the terminal type

package icons

import (
	"os"
	"strings"
	"sync"
)

// Mode selects how icons are drawn
type Mode int

const (
	ModeUnicode Mode = iota
	ModeNerd
	ModeASCII
)

var (
	mode     Mode
	detected sync.Once
)

// nerdTerminals usually ship with a patched font
var nerdTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

// detectMode reads LIBCTL_ICONS (nerd, unicode, ascii), then falls back to the terminal
func detectMode() Mode {
	switch strings.ToLower(os.Getenv("LIBCTL_ICONS")) {
	case "nerd":
		return ModeNerd
	case "unicode":
		return ModeUnicode
	case "ascii":
		return ModeASCII
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if term == "dumb" || term == "linux" {
		return ModeASCII
	}
	program := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	for _, t := range nerdTerminals {
		if strings.Contains(program, t) || strings.Contains(term, t) {
			return ModeNerd
		}
	}
	return ModeUnicode
}

// CurrentMode returns the active mode, detecting it on first use
func CurrentMode() Mode {
	detected.Do(func() { mode = detectMode() })
	return mode
}

// SetMode overrides detection
func SetMode(m Mode) {
	detected.Do(func() {})
	mode = m
}

// Icon holds one glyph per mode
type Icon struct {
	Nerd    string
	Unicode string
	ASCII   string
}

// String returns the glyph for the active mode
func (i Icon) String() string {
	switch CurrentMode() {
	case ModeNerd:
		return i.Nerd
	case ModeASCII:
		return i.ASCII
	default:
		return i.Unicode
	}
}

// Library objects
var (
	Book     = Icon{"󰂺", "▤", "[B]"}
	Category = Icon{"󰓹", "#", "#"}
	Wishlist = Icon{"󰋑", "♥", "<3"}
	Borrow   = Icon{"󰗚", "⇄", "<>"}
	User     = Icon{"󰀄", "☺", "@"}
	Admin    = Icon{"󰀉", "♛", "@!"}
	Calendar = Icon{"󰃭", "▦", "[d]"}
	App      = Icon{"󱉟", "◈", "*"}
)

// Status
var (
	CheckOK  = Icon{"", "✓", "+"}
	Warning  = Icon{"", "⚠", "!"}
	Critical = Icon{"", "✗", "x"}
	Info     = Icon{"", "ℹ", "i"}
	Pending  = Icon{"󰔟", "◷", "~"}
)

// Actions
var (
	Search   = Icon{"", "⌕", "/"}
	Refresh  = Icon{"󰑓", "↻", "r"}
	Wizard   = Icon{"󰂓", "★", "*"}
	Back     = Icon{"󰁍", "←", "<"}
	Quit     = Icon{"󰗼", "×", "q"}
	Settings = Icon{"󰒓", "⚙", "="}
)
