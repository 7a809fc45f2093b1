package render

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/eznix86/meow/internal/bus"
)

// DefaultTick is how often pending display lines are drained when no key is
// pressed.
const DefaultTick = 100 * time.Millisecond

const (
	headerText = "╭─ meow IRC Client ── Type /help for commands. ESC to quit ─╮"
	headerIcon = "󰄛 "
	prompt     = "❯ "

	// header, blank separator, input line
	chromeHeight = 3
)

// Sender hands commands to the session without blocking.
type Sender interface {
	TrySend(cmd bus.Command) error
}

// Options configures the UI.
type Options struct {
	// Width and Height are maxima; a smaller terminal wins.
	Width   int
	Padding int
	Height  int

	Connect ConnectDefaults
	Theme   Theme
	Tick    time.Duration
}

type tickMsg time.Time

type keyMap struct {
	Quit        key.Binding
	Submit      key.Binding
	Backspace   key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Backspace:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		HistoryPrev: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older input")),
		HistoryNext: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer input")),
	}
}

// Model is the terminal UI. It owns the scrollback, the input line and the
// input history; the session is reached only through the Sender and the line
// channel.
type Model struct {
	out   Sender
	lines <-chan string
	opts  Options
	keys  keyMap

	input      textinput.Model
	view       viewport.Model
	editor     *Editor
	scrollback *Scrollback

	width, height int
	quitting      bool
}

// NewModel builds the UI around the session's command sender and its display
// line channel.
func NewModel(out Sender, lines <-chan string, opts Options) Model {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}

	inp := textinput.New()
	inp.Prompt = prompt
	inp.Placeholder = "Type a message..."
	inp.Focus()

	m := Model{
		out:        out,
		lines:      lines,
		opts:       opts,
		keys:       defaultKeyMap(),
		input:      inp,
		view:       viewport.New(opts.Width, opts.Height),
		editor:     NewEditor(),
		scrollback: NewScrollback(DefaultScrollback, opts.Width, opts.Padding),
		width:      opts.Width,
		height:     opts.Height,
	}
	m.layout()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.drain()
		m.refresh()
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.send(bus.Quit{}, "/quit")
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Backspace):
		m.editor.Backspace()
	case key.Matches(msg, m.keys.PageUp):
		m.scrollback.ScrollUp(ScrollStep)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollback.ScrollDown(ScrollStep)
	case key.Matches(msg, m.keys.HistoryPrev):
		m.editor.Prev()
	case key.Matches(msg, m.keys.HistoryNext):
		m.editor.Next()
	case msg.Type == tea.KeyRunes && !msg.Alt:
		m.editor.Insert(string(msg.Runes))
	case msg.Type == tea.KeySpace:
		m.editor.Insert(" ")
	default:
		return m, nil
	}

	m.syncInput()
	m.refresh()
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.editor.Submit()
	m.scrollback.ResetScroll()

	outcome := ParseInput(input, m.opts.Connect)
	for _, line := range outcome.Lines {
		m.appendLine(line)
	}
	if outcome.Command != nil {
		m.send(outcome.Command, input)
	}

	m.syncInput()
	m.refresh()
	if outcome.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// send never blocks the UI: a command the session cannot take is dropped
// with a note in the scrollback.
func (m *Model) send(cmd bus.Command, input string) {
	err := m.out.TrySend(cmd)
	switch {
	case err == nil:
	case errors.Is(err, bus.ErrQueueFull):
		m.appendLine("Command queue full, dropped: " + input)
	default:
		m.appendLine("Session closed, dropped: " + input)
	}
}

// drain moves every display line that is ready into the scrollback without
// waiting for more.
func (m *Model) drain() {
	for {
		select {
		case line, ok := <-m.lines:
			if !ok {
				m.lines = nil
				return
			}
			m.appendLine(line)
		default:
			return
		}
	}
}

func (m *Model) appendLine(line string) {
	m.scrollback.Append(m.opts.Theme.Decorate(line))
}

func (m *Model) syncInput() {
	m.input.SetValue(m.editor.Value())
	m.input.CursorEnd()
}

func (m *Model) resize(width, height int) {
	if width > 0 {
		m.width = min(m.opts.Width, width)
	}
	if height > 0 {
		m.height = max(min(m.opts.Height, height-chromeHeight), 1)
	}
	m.layout()
}

func (m *Model) layout() {
	m.scrollback.Resize(m.width, m.opts.Padding)
	m.view.Width = m.width
	m.view.Height = m.height
	m.input.Width = max(m.width-m.opts.Padding-ansi.StringWidth(prompt)-1, 1)
	m.refresh()
}

// refresh renders the scrollback window into the viewport, each line indented
// by the padding and filled out to the frame width.
func (m *Model) refresh() {
	pad := strings.Repeat(" ", m.opts.Padding)
	window := m.scrollback.Window(m.height)
	rows := make([]string, len(window))
	for i, line := range window {
		row := pad + line
		if fill := m.width - ansi.StringWidth(row); fill > 0 {
			row += strings.Repeat(" ", fill)
		}
		rows[i] = row
	}
	m.view.SetContent(strings.Join(rows, "\n"))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	pad := strings.Repeat(" ", m.opts.Padding)
	title := headerText
	if m.opts.Theme.Icons {
		title = headerIcon + title
	}

	frame := lipgloss.JoinVertical(lipgloss.Left,
		pad+m.opts.Theme.Header.Render(title),
		m.view.View(),
		"",
		pad+m.opts.Theme.Input.Render(m.input.View()),
	)
	return m.opts.Theme.Frame.Render(frame)
}

// Scrollback exposes the message buffer.
func (m Model) Scrollback() *Scrollback {
	return m.scrollback
}

// Editor exposes the input line and its history.
func (m Model) Editor() *Editor {
	return m.editor
}
