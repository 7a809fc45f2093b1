package render

// DefaultScrollback is the number of logical messages kept.
const DefaultScrollback = 100

// ScrollStep is how many physical lines PageUp and PageDown move.
const ScrollStep = 5

type entry struct {
	text  string
	lines []string
}

// Scrollback keeps the most recent messages, each wrapped into physical
// lines, and a scroll offset counted in physical lines from the bottom.
type Scrollback struct {
	capacity int
	width    int
	padding  int
	entries  []entry
	total    int
	offset   int
}

// NewScrollback returns an empty buffer holding at most capacity messages.
func NewScrollback(capacity, width, padding int) *Scrollback {
	if capacity < 1 {
		capacity = DefaultScrollback
	}
	return &Scrollback{capacity: capacity, width: width, padding: padding}
}

// Append wraps msg and adds it, evicting the oldest message when full.
func (s *Scrollback) Append(msg string) {
	if len(s.entries) == s.capacity {
		s.total -= len(s.entries[0].lines)
		s.entries[0] = entry{}
		s.entries = s.entries[1:]
	}
	e := entry{text: msg, lines: Wrap(msg, s.width, s.padding)}
	s.entries = append(s.entries, e)
	s.total += len(e.lines)
}

// Len is the number of logical messages held.
func (s *Scrollback) Len() int {
	return len(s.entries)
}

// LineCount is the number of physical lines held.
func (s *Scrollback) LineCount() int {
	return s.total
}

// Messages returns the logical messages, oldest first.
func (s *Scrollback) Messages() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.text
	}
	return out
}

// Lines returns every physical line, oldest first.
func (s *Scrollback) Lines() []string {
	out := make([]string, 0, s.total)
	for _, e := range s.entries {
		out = append(out, e.lines...)
	}
	return out
}

// Offset is the current scroll position; zero shows the newest lines.
func (s *Scrollback) Offset() int {
	return s.offset
}

// ScrollUp moves the view n lines toward older messages. The offset never
// exceeds the line count minus one.
func (s *Scrollback) ScrollUp(n int) {
	s.offset = min(s.offset+n, max(s.total-1, 0))
}

// ScrollDown moves the view n lines toward newer messages, stopping at the
// bottom.
func (s *Scrollback) ScrollDown(n int) {
	s.offset = max(s.offset-n, 0)
}

// ResetScroll jumps back to the newest lines.
func (s *Scrollback) ResetScroll() {
	s.offset = 0
}

// Window returns the physical lines visible in a view of the given height:
// the last height lines, shifted up by the scroll offset.
func (s *Scrollback) Window(height int) []string {
	lines := s.Lines()
	end := max(len(lines)-s.offset, 0)
	start := max(end-height, 0)
	return lines[start:end]
}

// Resize re-wraps every message for a new width and padding.
func (s *Scrollback) Resize(width, padding int) {
	if width == s.width && padding == s.padding {
		return
	}
	s.width, s.padding = width, padding
	s.total = 0
	for i := range s.entries {
		s.entries[i].lines = Wrap(s.entries[i].text, width, padding)
		s.total += len(s.entries[i].lines)
	}
	s.offset = min(s.offset, max(s.total-1, 0))
}
