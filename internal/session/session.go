// Package session owns the single chat-server session: it processes commands
// from the bus one at a time, runs one listener per live connection and
// reconnects after the stream ends.
package session

import (
	"context"
	"sync"

	"github.com/eznix86/meow/internal/bus"
	"github.com/eznix86/meow/internal/irc"
)

// Conn is the protocol connection the controller drives.
type Conn interface {
	Identify() error
	NextEvent() (*irc.Line, error)
	Privmsg(target, body string) error
	Join(channel string) error
	Part(channel string) error
	Pong(token string) error
	Quit(reason string) error
	Close() error
}

// Dialer opens a connection for the given parameters.
type Dialer interface {
	Dial(ctx context.Context, p bus.ConnectParams) (Conn, error)
}

// Handle is the connection shared between the controller, its listener and
// outbound dispatches. Writes go through Do, one operation per lock hold. The
// read side belongs to the listener and is not locked.
type Handle struct {
	id   string
	mu   sync.Mutex
	conn Conn
}

// ID identifies the connection in logs and Disconnected signals.
func (h *Handle) ID() string {
	return h.id
}

// Do runs a single operation with exclusive access to the connection.
func (h *Handle) Do(op func(Conn) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return op(h.conn)
}

// Session is the controller's mutable state. Only the controller goroutine
// touches it.
type Session struct {
	conn           *Handle
	currentChannel string
	lastParams     *bus.ConnectParams
}

// Connected reports whether a connection handle is live.
func (s *Session) Connected() bool {
	return s.conn != nil
}

// CurrentChannel returns the channel most recently joined, if any.
func (s *Session) CurrentChannel() (string, bool) {
	return s.currentChannel, s.currentChannel != ""
}

// LastParams returns the parameters of the last successful connect.
func (s *Session) LastParams() (bus.ConnectParams, bool) {
	if s.lastParams == nil {
		return bus.ConnectParams{}, false
	}
	return *s.lastParams, true
}
