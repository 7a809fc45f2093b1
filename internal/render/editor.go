package render

import (
	"strings"

	"github.com/rivo/uniseg"
)

// noHistory marks that history is not being browsed.
const noHistory = -1

// Editor is the input line plus the history of submitted lines. Text is only
// ever added or removed at the end. Browsing history and editing are
// exclusive: any edit drops the browsing cursor.
type Editor struct {
	value   string
	history []string
	cursor  int
}

// NewEditor returns an empty editor.
func NewEditor() *Editor {
	return &Editor{cursor: noHistory}
}

// Value is the current input line.
func (e *Editor) Value() string {
	return e.value
}

// History returns submitted lines, oldest first.
func (e *Editor) History() []string {
	return append([]string(nil), e.history...)
}

// Browsing reports whether a history entry is selected.
func (e *Editor) Browsing() bool {
	return e.cursor != noHistory
}

// Insert appends typed text.
func (e *Editor) Insert(s string) {
	e.value += s
	e.cursor = noHistory
}

// Backspace removes the last user-perceived character.
func (e *Editor) Backspace() {
	e.value = dropLastGrapheme(e.value)
	e.cursor = noHistory
}

// Prev selects the next older history entry, stopping at the oldest.
func (e *Editor) Prev() {
	if len(e.history) == 0 {
		return
	}
	switch {
	case e.cursor == noHistory:
		e.cursor = len(e.history) - 1
	case e.cursor > 0:
		e.cursor--
	}
	e.value = e.history[e.cursor]
}

// Next selects the next newer history entry. Past the newest entry browsing
// ends and the line is cleared.
func (e *Editor) Next() {
	if len(e.history) == 0 {
		return
	}
	if e.cursor != noHistory && e.cursor+1 < len(e.history) {
		e.cursor++
		e.value = e.history[e.cursor]
		return
	}
	e.cursor = noHistory
	e.value = ""
}

// Submit returns the line and clears it. Lines that are not blank are added
// to the history.
func (e *Editor) Submit() string {
	line := e.value
	if strings.TrimSpace(line) != "" {
		e.history = append(e.history, line)
	}
	e.value = ""
	e.cursor = noHistory
	return line
}

func dropLastGrapheme(s string) string {
	last := 0
	state := -1
	for rest := s; rest != ""; {
		last = len(s) - len(rest)
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	return s[:last]
}
