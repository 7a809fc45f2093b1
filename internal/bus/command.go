package bus

import (
	"fmt"
	"net"
	"strconv"
)

// Command is a UI-to-session intent. The set of variants is closed: only the
// types in this file implement it.
type Command interface {
	command()
}

// ConnectParams is the immutable snapshot taken at connect time and reused
// verbatim on every reconnect attempt.
type ConnectParams struct {
	Server string
	Port   int
	Nick   string
	UseTLS bool
}

// Address returns the dialable host:port form.
func (p ConnectParams) Address() string {
	return net.JoinHostPort(p.Server, strconv.Itoa(p.Port))
}

func (p ConnectParams) String() string {
	return fmt.Sprintf("%s:%d", p.Server, p.Port)
}

// Connect asks the controller to open a session.
type Connect struct {
	Server string
	Port   int
	Nick   string
	UseTLS bool
}

// Params returns the connect parameters carried by c.
func (c Connect) Params() ConnectParams {
	return ConnectParams{Server: c.Server, Port: c.Port, Nick: c.Nick, UseTLS: c.UseTLS}
}

// SendMessage sends Body to an explicit target (channel or nick).
type SendMessage struct {
	Target string
	Body   string
}

// JoinChannel joins the named channel and makes it current.
type JoinChannel struct {
	Name string
}

// PartChannel leaves the named channel.
type PartChannel struct {
	Name string
}

// SendPlainMessage sends Body to the current channel.
type SendPlainMessage struct {
	Body string
}

// Quit ends the session.
type Quit struct{}

// Disconnected is raised by a listener when its connection's stream ends.
// ConnID identifies the connection that went away; an empty ConnID matches
// whatever connection is current.
type Disconnected struct {
	ConnID string
}

func (Connect) command()          {}
func (SendMessage) command()      {}
func (JoinChannel) command()      {}
func (PartChannel) command()      {}
func (SendPlainMessage) command() {}
func (Quit) command()             {}
func (Disconnected) command()     {}
