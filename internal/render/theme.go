package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eznix86/meow/internal/config"
)

var (
	defaultAccent = lipgloss.Color("#5EEAD4") // teal
	defaultMuted  = lipgloss.Color("#9CA3AF")
	defaultHeader = lipgloss.Color("#60A5FA") // blue
	defaultPrompt = lipgloss.Color("#34D399") // green
	errorColor    = lipgloss.Color("#EF4444")
)

// Theme holds the styles used to draw the frame and decorate lines.
type Theme struct {
	Header lipgloss.Style
	Input  lipgloss.Style
	Frame  lipgloss.Style
	System lipgloss.Style
	Error  lipgloss.Style
	Self   lipgloss.Style
	Body   lipgloss.Style
	Icons  bool
}

// NewTheme builds styles from configured colors, keeping the built-in palette
// for any color that is empty or not "#RRGGBB".
func NewTheme(cfg config.ThemeConfig) Theme {
	fg, hasFg := parseColor(cfg.Foreground)
	accent, ok := parseColor(cfg.Accent)
	if !ok {
		accent = defaultAccent
	}
	muted, hasMuted := parseColor(cfg.Muted)

	t := Theme{
		Header: lipgloss.NewStyle().Foreground(defaultHeader).Bold(true),
		Input:  lipgloss.NewStyle().Foreground(defaultPrompt).Bold(true),
		Frame:  lipgloss.NewStyle(),
		System: lipgloss.NewStyle().Foreground(accent),
		Error:  lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Self:   lipgloss.NewStyle().Foreground(defaultMuted),
		Body:   lipgloss.NewStyle(),
		Icons:  cfg.Icons,
	}
	if hasFg {
		t.Header = lipgloss.NewStyle().Foreground(fg)
		t.Body = t.Body.Foreground(fg)
	}
	if hasMuted {
		t.Input = lipgloss.NewStyle().Foreground(muted)
		t.Self = t.Self.Foreground(muted)
	}
	if bg, ok := parseColor(cfg.Background); ok {
		t.Frame = t.Frame.Background(bg)
	}
	return t
}

// Decorate styles a display line by what kind of line it is.
func (t Theme) Decorate(line string) string {
	switch lineKind(line) {
	case kindError:
		return t.Error.Render(line)
	case kindSystem:
		return t.System.Render(line)
	case kindSelf:
		return t.Self.Render(line)
	default:
		return t.Body.Render(line)
	}
}

type kind int

const (
	kindBody kind = iota
	kindSystem
	kindError
	kindSelf
)

var errorPrefixes = []string{
	"*** Error",
	"Error ",
	"Not connected",
	"Not in a channel",
	"Unknown command",
	"Usage:",
	"Invalid ",
	"Cannot reconnect",
	"Reconnection attempt #",
	"Giving up",
	"Command queue full",
	"Session closed",
}

func lineKind(line string) kind {
	for _, p := range errorPrefixes {
		if strings.HasPrefix(line, p) {
			return kindError
		}
	}
	switch {
	case strings.HasPrefix(line, "You: "), strings.HasPrefix(line, "<You"):
		return kindSelf
	case strings.HasPrefix(line, "***"),
		strings.HasPrefix(line, "Connected to "),
		strings.HasPrefix(line, "Reconnected to "),
		strings.HasPrefix(line, "Attempting reconnection"):
		return kindSystem
	}
	return kindBody
}

// parseColor accepts "#RRGGBB" or "RRGGBB".
func parseColor(hex string) (lipgloss.Color, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return "", false
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return "", false
		}
	}
	return lipgloss.Color("#" + strings.ToUpper(hex)), true
}
