package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eznix86/meow/internal/bus"
)

const (
	msgNotConnected = "Not connected. Use /connect first."
	msgNoChannel    = "Not in a channel. Use /join."

	defaultQuitMessage = "Bye!"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSleep replaces the function used to wait between reconnect attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Controller) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// WithMaxReconnectAttempts caps reconnect attempts after a disconnect.
// Zero means retry forever.
func WithMaxReconnectAttempts(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.maxAttempts = n
		}
	}
}

// WithQuitMessage sets the reason sent with QUIT.
func WithQuitMessage(msg string) Option {
	return func(c *Controller) {
		if msg != "" {
			c.quitMessage = msg
		}
	}
}

// WithIDGenerator overrides how connection ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Controller processes bus commands serially and owns the Session.
type Controller struct {
	dialer   Dialer
	commands <-chan bus.Command
	lines    chan<- string
	signals  chan bus.Command

	log         *zap.Logger
	sleep       func(ctx context.Context, d time.Duration) error
	maxAttempts int
	quitMessage string
	newID       func() string

	session Session

	tasks    sync.WaitGroup
	done     chan struct{}
	haltOnce sync.Once
}

// NewController wires a controller to the command queue it consumes and the
// line queue it produces into.
func NewController(d Dialer, commands <-chan bus.Command, lines chan<- string, opts ...Option) *Controller {
	c := &Controller{
		dialer:      d,
		commands:    commands,
		lines:       lines,
		signals:     make(chan bus.Command, 1),
		log:         zap.NewNop(),
		sleep:       sleepContext,
		quitMessage: defaultQuitMessage,
		newID:       uuid.NewString,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run processes commands until Quit, until the command queue is closed and
// drained, or until ctx is cancelled. On return every connection is closed and
// every task the controller started has finished.
func (c *Controller) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, c.halt)
	defer stop()
	defer c.shutdown()

	c.log.Debug("Controller started")
	for {
		select {
		case <-c.done:
			return nil
		case cmd, ok := <-c.commands:
			if !ok {
				c.log.Info("Command queue closed")
				return nil
			}
			if !c.handle(ctx, cmd) {
				return nil
			}
		case sig := <-c.signals:
			c.handle(ctx, sig)
		}
	}
}

// handle applies one command and reports whether the loop should continue.
func (c *Controller) handle(ctx context.Context, cmd bus.Command) bool {
	switch cmd := cmd.(type) {
	case bus.Connect:
		c.connect(ctx, cmd.Params())
	case bus.SendMessage:
		c.sendMessage(cmd.Target, cmd.Body)
	case bus.SendPlainMessage:
		c.sendPlain(cmd.Body)
	case bus.JoinChannel:
		c.join(cmd.Name)
	case bus.PartChannel:
		c.part(cmd.Name)
	case bus.Quit:
		c.quit()
		return false
	case bus.Disconnected:
		c.disconnected(ctx, cmd)
	default:
		c.log.Warn("Unknown command", zap.String("type", fmt.Sprintf("%T", cmd)))
	}
	return true
}

func (c *Controller) connect(ctx context.Context, p bus.ConnectParams) {
	if old := c.session.conn; old != nil {
		c.log.Info("Replacing connection", zap.String("conn_id", old.ID()))
		_ = old.Do(func(conn Conn) error { return conn.Quit(c.quitMessage) })
		_ = old.close()
		c.session.conn = nil
	}

	h, err := c.open(ctx, p)
	if err != nil {
		c.emit("Error " + err.Error())
		return
	}

	c.session.lastParams = &p
	c.spawnListener(h)
	c.session.conn = h

	with := "without"
	if p.UseTLS {
		with = "with"
	}
	c.emit(fmt.Sprintf("Connected to %s:%d as %s %s TLS", p.Server, p.Port, p.Nick, with))
}

func (c *Controller) sendMessage(target, body string) {
	h := c.session.conn
	if h == nil {
		c.emit(msgNotConnected)
		return
	}
	c.dispatch(h,
		func(conn Conn) error { return conn.Privmsg(target, body) },
		fmt.Sprintf("<You->%s> %s", target, body),
		"Error sending to "+target,
	)
}

func (c *Controller) sendPlain(body string) {
	h := c.session.conn
	if h == nil {
		c.emit(msgNotConnected)
		return
	}
	channel, ok := c.session.CurrentChannel()
	if !ok {
		c.emit(msgNoChannel)
		return
	}
	c.dispatch(h,
		func(conn Conn) error { return conn.Privmsg(channel, body) },
		fmt.Sprintf("<You (%s)> %s", channel, body),
		"Error sending",
	)
}

func (c *Controller) join(name string) {
	h := c.session.conn
	if h == nil {
		c.emit(msgNotConnected)
		return
	}
	c.dispatchJoin(h, name)
	// The server's acknowledgement arrives later on the listener and is not
	// correlated here.
	c.session.currentChannel = name
}

func (c *Controller) dispatchJoin(h *Handle, name string) {
	c.dispatch(h,
		func(conn Conn) error { return conn.Join(name) },
		"*** Joined "+name,
		"Error joining "+name,
	)
}

func (c *Controller) part(name string) {
	h := c.session.conn
	if h == nil {
		c.emit(msgNotConnected)
		return
	}
	c.dispatch(h,
		func(conn Conn) error { return conn.Part(name) },
		"*** Left "+name,
		"Error parting "+name,
	)
	if c.session.currentChannel == name {
		c.session.currentChannel = ""
	}
}

func (c *Controller) quit() {
	h := c.session.conn
	if h == nil {
		return
	}
	if err := h.Do(func(conn Conn) error { return conn.Quit(c.quitMessage) }); err != nil {
		c.log.Debug("QUIT failed", zap.Error(err))
	}
}

// dispatch runs op on its own goroutine and reports the outcome as a display
// line. It never touches the Session.
func (c *Controller) dispatch(h *Handle, op func(Conn) error, ok, failPrefix string) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		if err := h.Do(op); err != nil {
			c.emit(fmt.Sprintf("%s: %v", failPrefix, err))
			return
		}
		c.emit(ok)
	}()
}

// connectError records which step of the connect sequence failed.
type connectError struct {
	stage string
	err   error
}

func (e *connectError) Error() string {
	return e.stage + ": " + e.err.Error()
}

func (e *connectError) Unwrap() error {
	return e.err
}

// open dials and identifies. It does not touch the Session.
func (c *Controller) open(ctx context.Context, p bus.ConnectParams) (*Handle, error) {
	log := c.log.With(
		zap.String("server", p.Server),
		zap.Int("port", p.Port),
		zap.String("nick", p.Nick),
		zap.Bool("tls", p.UseTLS),
	)

	conn, err := c.dialer.Dial(ctx, p)
	if err != nil {
		log.Warn("Connect failed", zap.Error(err))
		return nil, &connectError{stage: "connecting", err: err}
	}
	if err := conn.Identify(); err != nil {
		log.Warn("Identify failed", zap.Error(err))
		_ = conn.Close()
		return nil, &connectError{stage: "identifying client", err: err}
	}

	h := &Handle{id: c.newID(), conn: conn}
	log.Info("Connected", zap.String("conn_id", h.id))
	return h, nil
}

func (c *Controller) spawnListener(h *Handle) {
	c.tasks.Add(1)
	go c.listen(h)
}

// emit queues a display line. Lines produced after shutdown are dropped.
func (c *Controller) emit(line string) {
	select {
	case c.lines <- line:
	case <-c.done:
	}
}

// signal hands an internal command to the controller loop.
func (c *Controller) signal(cmd bus.Command) {
	select {
	case c.signals <- cmd:
	case <-c.done:
	}
}

func (c *Controller) halt() {
	c.haltOnce.Do(func() { close(c.done) })
}

func (c *Controller) shutdown() {
	c.halt()
	if h := c.session.conn; h != nil {
		_ = h.close()
		c.session.conn = nil
	}
	c.tasks.Wait()
	c.log.Debug("Controller stopped")
}

// close tears down the transport without waiting for in-flight writes; it is
// what unblocks the listener's read.
func (h *Handle) close() error {
	return h.conn.Close()
}
