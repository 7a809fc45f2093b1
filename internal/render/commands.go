package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eznix86/meow/internal/bus"
)

// ConnectDefaults fill in whatever /connect leaves out.
type ConnectDefaults struct {
	Server string
	Port   int
	Nick   string
	UseTLS bool
}

// Outcome is what a submitted input line turns into.
type Outcome struct {
	// Command goes to the session; nil means nothing is sent.
	Command bus.Command
	// Lines are shown locally, in order.
	Lines []string
	// Quit ends the UI.
	Quit bool
}

const (
	usageConnect = "Usage: /connect <server> [port] [nick] [tls]"
	usageJoin    = "Usage: /join <channel>"
	usagePart    = "Usage: /part <channel>"
	usageMsg     = "Usage: /msg <target> <message>"
)

var helpPanel = []string{
	"╭───────────────────────────────────────────────╮",
	"│                   Help Menu                   │",
	"├───────────────────────────────────────────────┤",
	"│ /connect <server> [port] [nick] [tls]         │",
	"│ /join <channel>                               │",
	"│ /part <channel>                               │",
	"│ /msg <target> <message>                       │",
	"│ /quit                                         │",
	"│                                               │",
	"│ PgUp/PgDn scroll   ↑/↓ history   Esc quit     │",
	"╰───────────────────────────────────────────────╯",
}

// ParseInput turns one submitted line into a command and local feedback.
// Every non-blank line is echoed as "You: <input>".
func ParseInput(input string, d ConnectDefaults) Outcome {
	if strings.TrimSpace(input) == "" {
		return Outcome{}
	}
	echo := "You: " + input

	if !strings.HasPrefix(input, "/") {
		return Outcome{Command: bus.SendPlainMessage{Body: input}, Lines: []string{echo}}
	}

	word, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(word) {
	case "/connect":
		cmd, problem := parseConnect(arg, d)
		if problem != "" {
			return Outcome{Lines: []string{echo, problem}}
		}
		return Outcome{Command: cmd, Lines: []string{echo}}

	case "/join":
		if arg == "" {
			return Outcome{Lines: []string{echo, usageJoin}}
		}
		return Outcome{Command: bus.JoinChannel{Name: firstField(arg)}, Lines: []string{echo}}

	case "/part":
		if arg == "" {
			return Outcome{Lines: []string{echo, usagePart}}
		}
		return Outcome{Command: bus.PartChannel{Name: firstField(arg)}, Lines: []string{echo}}

	case "/msg":
		target, body, _ := strings.Cut(arg, " ")
		body = strings.TrimSpace(body)
		if target == "" || body == "" {
			return Outcome{Lines: []string{echo, usageMsg}}
		}
		return Outcome{Command: bus.SendMessage{Target: target, Body: body}, Lines: []string{echo}}

	case "/quit":
		return Outcome{Command: bus.Quit{}, Lines: []string{echo}, Quit: true}

	case "/help":
		lines := append([]string(nil), helpPanel...)
		return Outcome{Lines: append(lines, echo)}

	default:
		return Outcome{Lines: []string{"Unknown command: " + word, echo}}
	}
}

// parseConnect reads "<server> [port] [nick] [tls]". It returns a usage or
// validation line instead of a command when the arguments do not work.
func parseConnect(arg string, d ConnectDefaults) (bus.Command, string) {
	fields := strings.Fields(arg)
	cmd := bus.Connect{Server: d.Server, Port: d.Port, Nick: d.Nick, UseTLS: d.UseTLS}

	if len(fields) > 4 {
		return nil, usageConnect
	}
	if len(fields) > 0 {
		cmd.Server = fields[0]
	}
	if len(fields) > 1 {
		port, err := strconv.Atoi(fields[1])
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Sprintf("Invalid port: %s", fields[1])
		}
		cmd.Port = port
	}
	if len(fields) > 2 {
		cmd.Nick = fields[2]
	}
	if len(fields) > 3 {
		useTLS, ok := parseTLSWord(fields[3])
		if !ok {
			return nil, fmt.Sprintf("Invalid TLS setting: %s (use tls or notls)", fields[3])
		}
		cmd.UseTLS = useTLS
	}

	if cmd.Server == "" {
		return nil, usageConnect
	}
	return cmd, ""
}

func parseTLSWord(s string) (useTLS, ok bool) {
	switch strings.ToLower(s) {
	case "tls", "true", "yes", "on", "1":
		return true, true
	case "notls", "false", "no", "off", "0":
		return false, true
	}
	return false, false
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
