package session

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/eznix86/meow/internal/irc"
)

const (
	ctcpDelim = '\x01'
	ircColor  = '\x03'
)

// errorReplies maps error numerics to a description of their subject, which
// is the second parameter of the reply.
var errorReplies = map[string]string{
	"401": "No such nick: %s",
	"403": "No such channel: %s",
	"404": "Cannot send to channel: %s",
	"405": "Too many channels: %s",
	"432": "Erroneous nickname: %s",
	"433": "Nickname already in use: %s",
	"442": "Not on channel: %s",
	"471": "Channel is full: %s",
	"473": "Channel is invite-only: %s",
	"474": "Banned from channel: %s",
	"475": "Bad channel key: %s",
}

// Describe renders one inbound protocol event as a display line. Events with
// no dedicated format are shown verbatim. Server text never reaches the
// terminal with escape sequences or control characters in it.
func Describe(ev *irc.Line) string {
	return plainText(describe(ev))
}

func describe(ev *irc.Line) string {
	switch ev.Cmd {
	case irc.CmdPing:
		return "*** Ping: " + ev.Trailing()
	case irc.CmdPong:
		return "*** Pong: " + ev.Arg(0)
	case irc.CmdJoin:
		return fmt.Sprintf("*** %s joined %s", source(ev), ev.Arg(0))
	case irc.CmdPart:
		return fmt.Sprintf("*** %s left %s", sender(ev), ev.Arg(0))
	case irc.CmdQuit:
		reason := ev.Arg(0)
		if reason == "" {
			reason = "Quit"
		}
		return fmt.Sprintf("*** %s quit: %s", sender(ev), reason)
	case irc.CmdNick:
		return fmt.Sprintf("*** %s is now known as %s", sender(ev), ev.Arg(0))
	case irc.CmdKick:
		msg := fmt.Sprintf("*** %s was kicked from %s by %s", ev.Arg(1), ev.Arg(0), sender(ev))
		if len(ev.Args) > 2 && ev.Args[2] != "" {
			msg += " (" + ev.Args[2] + ")"
		}
		return msg
	case irc.CmdTopic:
		return fmt.Sprintf("*** %s set the topic of %s to: %s", sender(ev), ev.Arg(0), ev.Arg(1))
	case irc.CmdMode:
		return "*** Mode: " + strings.Join(ev.Args, " ")
	case irc.CmdNotice:
		return fmt.Sprintf("(notice to %s): %s", ev.Arg(0), ev.Arg(1))
	case irc.CmdPrivmsg:
		return describePrivmsg(ev)
	case irc.CmdError:
		return "*** Error: " + ev.Trailing()
	}

	if ev.Numeric() {
		return describeReply(ev)
	}
	return "*** Unhandled: " + ev.Raw
}

func describePrivmsg(ev *irc.Line) string {
	target, body := ev.Arg(0), ev.Arg(1)
	from := sender(ev)

	if len(body) >= 2 && body[0] == ctcpDelim && body[len(body)-1] == ctcpDelim {
		payload := body[1 : len(body)-1]
		if verb, text, _ := strings.Cut(payload, " "); verb == "ACTION" {
			return fmt.Sprintf("* %s %s", from, text)
		}
		return fmt.Sprintf("(CTCP) %s: %s", from, payload)
	}

	if isChannel(target) {
		return fmt.Sprintf("<%s> %s", from, body)
	}
	return fmt.Sprintf("<%s->You> %s", from, body)
}

// describeReply formats a numeric. The first parameter of a reply is always
// our own nick and is left out.
func describeReply(ev *irc.Line) string {
	var text string
	if len(ev.Args) > 1 {
		text = strings.Join(ev.Args[1:], " ")
	}

	switch ev.Cmd {
	case irc.RplWelcome:
		return "*** Welcome: " + text
	case irc.RplMotdStart, irc.RplMotd, irc.RplEndOfMotd:
		return "*** MOTD: " + text
	}

	if format, ok := errorReplies[ev.Cmd]; ok && len(ev.Args) >= 2 {
		return "*** Error: " + fmt.Sprintf(format, ev.Args[1])
	}
	return fmt.Sprintf("*** %s: %s", ev.Cmd, text)
}

func isChannel(target string) bool {
	return target != "" && strings.ContainsRune("#&+!", rune(target[0]))
}

// sender is the nick behind an event, falling back to the raw source.
func sender(ev *irc.Line) string {
	if ev.Nick != "" {
		return ev.Nick
	}
	if ev.Src != "" {
		return ev.Src
	}
	return "unknown"
}

func source(ev *irc.Line) string {
	if ev.Src != "" {
		return ev.Src
	}
	return sender(ev)
}

// plainText drops terminal escape sequences, mIRC formatting codes and any
// other control characters. Tabs become spaces.
func plainText(s string) string {
	s = ansi.Strip(s)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		switch {
		case r == ircColor:
			i += colorCodeLength(s[i:])
		case r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// colorCodeLength is the length of the "fg[,bg]" digits following a color
// code at the start of s.
func colorCodeLength(s string) int {
	n := leadingDigits(s)
	if n > 0 && n < len(s) && s[n] == ',' {
		if m := leadingDigits(s[n+1:]); m > 0 {
			n += 1 + m
		}
	}
	return n
}

// leadingDigits counts up to two ASCII digits at the start of s.
func leadingDigits(s string) int {
	n := 0
	for n < len(s) && n < 2 && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
