// Package irc is a small IRC line-protocol client. Reads and writes are
// independent: one goroutine may block in NextEvent while others send.
package irc

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNotConnected is returned when writing to a closed connection.
var ErrNotConnected = errors.New("not connected")

// Config holds IRC connection configuration
type Config struct {
	Nick      string
	User      string
	RealName  string
	Server    string
	SSL       bool
	SSLConfig *tls.Config
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewConfig creates a new IRC configuration with defaults
func NewConfig(nick string) *Config {
	return &Config{
		Nick:     nick,
		User:     nick,
		RealName: nick,
		Timeout:  30 * time.Second,
	}
}

// Conn represents an IRC connection
type Conn struct {
	cfg    *Config
	conn   net.Conn
	reader *bufio.Reader
	log    *zap.Logger

	mu        sync.Mutex
	writer    *bufio.Writer
	connected bool
}

// Dial opens the transport described by cfg. It does not register with the
// server; call Identify for that.
func Dial(ctx context.Context, cfg *Config) (*Conn, error) {
	d := &net.Dialer{Timeout: cfg.Timeout}

	var conn net.Conn
	var err error
	if cfg.SSL {
		td := &tls.Dialer{NetDialer: d, Config: cfg.SSLConfig}
		conn, err = td.DialContext(ctx, "tcp", cfg.Server)
	} else {
		conn, err = d.DialContext(ctx, "tcp", cfg.Server)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Conn{
		cfg:       cfg,
		conn:      conn,
		reader:    bufio.NewReader(conn),
		writer:    bufio.NewWriter(conn),
		log:       log,
		connected: true,
	}, nil
}

// Identify sends the registration handshake.
func (c *Conn) Identify() error {
	if err := c.sendRaw(fmt.Sprintf("NICK %s", c.cfg.Nick)); err != nil {
		return err
	}
	return c.sendRaw(fmt.Sprintf("USER %s 0 * :%s", c.cfg.User, c.cfg.RealName))
}

// Connected returns whether the connection is active
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// NextEvent blocks until the server sends a line. It returns io.EOF when the
// server closes the stream.
func (c *Conn) NextEvent() (*Line, error) {
	for {
		raw, err := c.reader.ReadString('\n')
		if err != nil {
			c.markClosed()
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		c.log.Debug("RECV", zap.String("line", raw))
		return ParseLine(raw), nil
	}
}

// sendRaw sends a raw IRC command
func (c *Conn) sendRaw(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}

	c.log.Debug("SEND", zap.String("line", cmd))

	if _, err := c.writer.WriteString(cmd + "\r\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Join joins an IRC channel
func (c *Conn) Join(channel string) error {
	return c.sendRaw(fmt.Sprintf("JOIN %s", sanitize(channel)))
}

// Part leaves an IRC channel
func (c *Conn) Part(channel string) error {
	return c.sendRaw(fmt.Sprintf("PART %s", sanitize(channel)))
}

// Privmsg sends a PRIVMSG to a target (channel or user)
func (c *Conn) Privmsg(target, message string) error {
	return c.sendRaw(fmt.Sprintf("PRIVMSG %s :%s", sanitize(target), sanitize(message)))
}

// Pong answers a server PING.
func (c *Conn) Pong(token string) error {
	if token == "" {
		// Some servers send PING without arguments
		return c.sendRaw("PONG")
	}
	return c.sendRaw(fmt.Sprintf("PONG :%s", sanitize(token)))
}

// Quit tells the server we are leaving. The transport stays open until Close.
func (c *Conn) Quit(message string) error {
	if message == "" {
		return c.sendRaw("QUIT")
	}
	return c.sendRaw(fmt.Sprintf("QUIT :%s", sanitize(message)))
}

// Close tears down the transport and unblocks a pending NextEvent.
func (c *Conn) Close() error {
	c.markClosed()
	return c.conn.Close()
}

func (c *Conn) markClosed() {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
}

// sanitize keeps user text from smuggling extra protocol lines.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, s)
}
