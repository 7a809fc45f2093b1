package irc

import (
	"strings"
)

// IRC commands and numerics the client cares about.
const (
	RplWelcome   = "001"
	RplMotd      = "372"
	RplMotdStart = "375"
	RplEndOfMotd = "376"

	CmdPing    = "PING"
	CmdPong    = "PONG"
	CmdPrivmsg = "PRIVMSG"
	CmdNotice  = "NOTICE"
	CmdJoin    = "JOIN"
	CmdPart    = "PART"
	CmdQuit    = "QUIT"
	CmdNick    = "NICK"
	CmdKick    = "KICK"
	CmdTopic   = "TOPIC"
	CmdMode    = "MODE"
	CmdError   = "ERROR"
)

// Line represents a parsed IRC message
type Line struct {
	Raw  string
	Nick string
	Src  string
	Cmd  string
	Args []string
}

// Arg returns the i-th argument or "" when absent.
func (l *Line) Arg(i int) string {
	if i < 0 || i >= len(l.Args) {
		return ""
	}
	return l.Args[i]
}

// Trailing returns the last argument, which holds free text for most commands.
func (l *Line) Trailing() string {
	if len(l.Args) == 0 {
		return ""
	}
	return l.Args[len(l.Args)-1]
}

// Numeric reports whether the command is a three digit server reply.
func (l *Line) Numeric() bool {
	if len(l.Cmd) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if l.Cmd[i] < '0' || l.Cmd[i] > '9' {
			return false
		}
	}
	return true
}

// ParseLine parses an IRC protocol line
func ParseLine(raw string) *Line {
	raw = strings.TrimRight(raw, "\r\n")
	line := &Line{Raw: raw, Args: []string{}}

	// IRCv3 message tags are not used by the client.
	if strings.HasPrefix(raw, "@") {
		idx := strings.IndexByte(raw, ' ')
		if idx == -1 {
			return line
		}
		raw = strings.TrimLeft(raw[idx+1:], " ")
	}

	// Handle prefix (source)
	if strings.HasPrefix(raw, ":") {
		parts := strings.SplitN(raw[1:], " ", 2)
		if len(parts) < 2 {
			return line
		}
		line.Src = parts[0]

		// Extract nick from source (nick!user@host)
		if idx := strings.Index(line.Src, "!"); idx != -1 {
			line.Nick = line.Src[:idx]
		} else if !strings.Contains(line.Src, ".") {
			line.Nick = line.Src
		}

		raw = parts[1]
	}

	// Parse command and parameters
	rest := strings.TrimLeft(raw, " ")
	if rest == "" {
		return line
	}

	cmd, rest, _ := strings.Cut(rest, " ")
	line.Cmd = strings.ToUpper(cmd)

	for rest != "" {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}
		if strings.HasPrefix(rest, ":") {
			// Trailing parameter (contains the rest of the message)
			line.Args = append(line.Args, rest[1:])
			break
		}
		var arg string
		arg, rest, _ = strings.Cut(rest, " ")
		line.Args = append(line.Args, arg)
	}

	return line
}
