package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eznix86/meow/internal/irc"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ping", "PING :irc.example.org", "*** Ping: irc.example.org"},
		{"pong", ":irc.example.org PONG irc.example.org :token", "*** Pong: irc.example.org"},
		{"join shows full source", ":alice!a@host.example JOIN #go", "*** alice!a@host.example joined #go"},
		{"join trailing channel", ":alice!a@host JOIN :#go", "*** alice!a@host joined #go"},
		{"part", ":alice!a@host PART #go :bye", "*** alice left #go"},
		{"quit with reason", ":alice!a@host QUIT :Ping timeout", "*** alice quit: Ping timeout"},
		{"quit without reason", ":alice!a@host QUIT", "*** alice quit: Quit"},
		{"nick change", ":alice!a@host NICK :alicia", "*** alice is now known as alicia"},
		{"kick with reason", ":op!o@host KICK #go bob :spamming", "*** bob was kicked from #go by op (spamming)"},
		{"kick without reason", ":op!o@host KICK #go bob", "*** bob was kicked from #go by op"},
		{"topic", ":alice!a@host TOPIC #go :Go talk only", "*** alice set the topic of #go to: Go talk only"},
		{"mode", ":op!o@host MODE #go +o bob", "*** Mode: #go +o bob"},
		{"notice", ":irc.example.org NOTICE * :*** Looking up your hostname", "(notice to *): *** Looking up your hostname"},
		{"channel message", ":alice!a@host PRIVMSG #go :hello all", "<alice> hello all"},
		{"ampersand channel", ":alice!a@host PRIVMSG &local :hi", "<alice> hi"},
		{"direct message", ":alice!a@host PRIVMSG meow :psst", "<alice->You> psst"},
		{"action", ":alice!a@host PRIVMSG #go :\x01ACTION waves\x01", "* alice waves"},
		{"other ctcp", ":alice!a@host PRIVMSG meow :\x01VERSION\x01", "(CTCP) alice: VERSION"},
		{"server message without nick", ":irc.example.org PRIVMSG meow :hi", "<irc.example.org->You> hi"},
		{"error", "ERROR :Closing Link: meow (Quit: Bye!)", "*** Error: Closing Link: meow (Quit: Bye!)"},
		{"welcome", ":irc.example.org 001 meow :Welcome to the network, meow", "*** Welcome: Welcome to the network, meow"},
		{"motd start", ":irc.example.org 375 meow :- irc.example.org Message of the Day -", "*** MOTD: - irc.example.org Message of the Day -"},
		{"motd line", ":irc.example.org 372 meow :- be nice", "*** MOTD: - be nice"},
		{"end of motd", ":irc.example.org 376 meow :End of /MOTD command.", "*** MOTD: End of /MOTD command."},
		{"nick in use", ":irc.example.org 433 * meow :Nickname is already in use", "*** Error: Nickname already in use: meow"},
		{"no such channel", ":irc.example.org 403 meow #nope :No such channel", "*** Error: No such channel: #nope"},
		{"banned", ":irc.example.org 474 meow #go :Cannot join channel (+b)", "*** Error: Banned from channel: #go"},
		{"other numeric", ":irc.example.org 251 meow :There are 3 users", "*** 251: There are 3 users"},
		{"numeric with several params", ":irc.example.org 332 meow #go :Go talk only", "*** 332: #go Go talk only"},
		{"unknown command", ":irc.example.org CAP * LS :multi-prefix", "*** Unhandled: :irc.example.org CAP * LS :multi-prefix"},
		{"terminal escapes are dropped", ":alice!a@host PRIVMSG #go :\x1b[2J\x1b]0;owned\ahi\x1b[31m there", "<alice> hi there"},
		{"irc formatting is dropped", ":alice!a@host PRIVMSG #go :\x02bold\x02 \x1funder\x1f \x0304,01red\x03 \x033green \x0f\x16done", "<alice> bold under red green done"},
		{"color code with comma but no background", ":alice!a@host PRIVMSG #go :\x0312,x", "<alice> ,x"},
		{"tabs become spaces", ":alice!a@host PRIVMSG #go :a\tb", "<alice> a b"},
		{"action with formatting", ":alice!a@host PRIVMSG #go :\x01ACTION \x02waves\x02\x01", "* alice waves"},
		{"stray ctcp delimiter", ":alice!a@host PRIVMSG #go :hi\x01 there", "<alice> hi there"},
		{"c1 control", ":alice!a@host PRIVMSG #go :a\u009b2Jb", "<alice> a2Jb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(irc.ParseLine(tt.raw)))
		})
	}
}

func TestIsChannel(t *testing.T) {
	for _, target := range []string{"#go", "&local", "+modeless", "!12345safe"} {
		assert.True(t, isChannel(target), target)
	}
	for _, target := range []string{"", "meow", "@ops"} {
		assert.False(t, isChannel(target), target)
	}
}

func TestColorCodeLength(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"plain", 0},
		{"4red", 1},
		{"04red", 2},
		{"123", 2},
		{"04,01x", 5},
		{"4,1x", 3},
		{"04,x", 2},
		{"04,", 2},
		{",01", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, colorCodeLength(tt.in), "%q", tt.in)
	}
}
