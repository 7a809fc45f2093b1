package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Wrap lays msg out in physical lines no wider than width-padding columns.
// Lines are filled greedily one grapheme cluster at a time; breaks may fall
// mid-word. Escape sequences are copied through and take no columns. A
// cluster wider than the whole line still gets a line of its own.
func Wrap(msg string, width, padding int) []string {
	avail := width - padding
	if msg == "" {
		return []string{""}
	}
	if avail <= 0 {
		return []string{msg}
	}

	// Hardwrap breaks before a cluster that cannot fit even on an empty
	// line, which leaves an empty line behind.
	var out []string
	for _, line := range strings.Split(ansi.Hardwrap(msg, avail, true), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}
